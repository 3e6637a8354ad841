package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"aiengine/pkg/types"
)

// ModelManager loads models and serves queries and predictions.
type ModelManager interface {
	LoadedModels() []string
	ListAvailableModels(ctx context.Context) ([]types.ModelInfo, error)
	ProcessQuery(ctx context.Context, query string, dataset types.Value, model string) (types.Result, error)
	MakePrediction(ctx context.Context, in types.PredictionInput) (types.Result, error)
	Ready() bool
}

// DataProcessor normalises a submitted dataset.
type DataProcessor interface {
	ProcessData(ctx context.Context, dataset types.Value) (*types.ProcessedData, error)
}

// InsightGenerator derives insights from a processed dataset.
type InsightGenerator interface {
	GenerateInsights(ctx context.Context, data *types.ProcessedData, model string, params map[string]any) (types.Result, error)
}

// Services are the collaborators behind the endpoints.
type Services struct {
	Models    ModelManager
	Processor DataProcessor
	Insights  InsightGenerator
}

type server struct {
	svc      Services
	opts     Options
	log      zerolog.Logger
	logLevel LogLevel
}

// NewMux builds the router with every endpoint and middleware.
func NewMux(svc Services, opts Options) http.Handler {
	opts = opts.withDefaults()
	s := &server{
		svc:      svc,
		opts:     opts,
		log:      opts.Logger.With().Str("component", "httpapi").Logger(),
		logLevel: parseLevel(opts.RequestLogLevel),
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(MetricsMiddleware)
	r.Use(s.recoverer)
	// Compression for JSON endpoints
	r.Use(middleware.Compress(5))
	r.Use(noSniff)
	if len(opts.CORSOrigins) > 0 {
		r.Use(corsHandler(opts.CORSOrigins))
	}

	r.NotFound(s.handle("not_found", func(w http.ResponseWriter, r *http.Request) error {
		writeJSONError(w, http.StatusNotFound, types.MsgEndpointNotFound)
		return nil
	}))
	r.MethodNotAllowed(s.handle("method_not_allowed", func(w http.ResponseWriter, r *http.Request) error {
		writeJSONError(w, http.StatusMethodNotAllowed, types.MsgMethodNotAllowed)
		return nil
	}))

	r.Get("/health", s.handle("health", s.health))
	r.Get("/readyz", s.readyz)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	api := r.With(rateLimiter(opts.RateLimit, opts.RateBurst))
	api.Post("/api/analyze", s.handle("analyze", s.analyze))
	api.Post("/api/query", s.handle("query", s.query))
	api.Post("/api/predict", s.handle("predict", s.predict))
	api.Get("/api/models", s.handle("models", s.models))

	if opts.Swagger {
		MountSwagger(r)
	}
	return r
}

func (s *server) readyz(w http.ResponseWriter, r *http.Request) {
	if s.svc.Models != nil && s.svc.Models.Ready() {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
		return
	}
	w.WriteHeader(http.StatusServiceUnavailable)
	_, _ = w.Write([]byte("loading"))
}
