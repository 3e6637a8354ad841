package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"aiengine/pkg/types"
)

// handlerFunc is an endpoint that reports failures as errors.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

// handle adapts h to http.HandlerFunc, writing the error envelope on failure.
func (s *server) handle(op string, h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			s.writeError(w, r, op, err)
		}
	}
}

func (s *server) writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status, msg := statusAndMessage(err)
	rid := middleware.GetReqID(r.Context())

	var (
		ve *types.ValidationError
		ce *collaboratorError
		fe *frameworkError
	)
	switch {
	case errors.As(err, &ve):
		s.log.Debug().Str("op", op).Str("request_id", rid).Str("error", ve.Message).Msg("invalid request")
	case errors.As(err, &ce):
		s.log.Error().Str("op", op).Str("call", ce.op).Str("request_id", rid).Err(ce.err).
			Str("stack", string(ce.stack)).Msg("collaborator failed")
	case errors.As(err, &fe):
		ev := s.log.Error().Str("op", op).Str("request_id", rid).Err(fe.err)
		if fe.stack != nil {
			ev = ev.Str("stack", string(fe.stack))
		}
		ev.Msg("request failed")
	default:
		s.log.Error().Str("op", op).Str("request_id", rid).Err(err).Msg("request failed")
	}
	writeJSONError(w, status, msg)
}

// respond writes a success envelope. v is encoded before the status is sent;
// a value JSON cannot carry (NaN, Inf) is returned as a frameworkError.
func (s *server) respond(w http.ResponseWriter, r *http.Request, status int, v any) error {
	body, err := encodeJSON(v)
	if err != nil {
		return &frameworkError{err: fmt.Errorf("encode response: %w", err)}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		s.log.Warn().Str("request_id", middleware.GetReqID(r.Context())).Err(err).Msg("write response body")
	}
	return nil
}

// decode reads a JSON body into v. An empty body or a JSON value that is not
// an object leaves v untouched so that validation reports the missing fields.
func (s *server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes))
	if err != nil {
		return &frameworkError{err: fmt.Errorf("read request body: %w", err)}
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil
	}
	if !json.Valid(body) {
		return &frameworkError{err: errors.New("decode request body: invalid JSON")}
	}
	if body[0] != '{' {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return &frameworkError{err: fmt.Errorf("decode request body: %w", err)}
	}
	return nil
}

// @Summary      Health check
// @Description  Reports liveness, the service version and the loaded models.
// @Tags         meta
// @Produce      json
// @Success      200  {object}  types.HealthResponse
// @Router       /health [get]
func (s *server) health(w http.ResponseWriter, r *http.Request) error {
	loaded := s.svc.Models.LoadedModels()
	if loaded == nil {
		loaded = []string{}
	}
	return s.respond(w, r, http.StatusOK, types.HealthResponse{
		Status:       "ok",
		Version:      s.opts.Version,
		ModelsLoaded: loaded,
	})
}

// @Summary      Analyze a dataset
// @Description  Processes the dataset and generates statistical insights.
// @Tags         api
// @Accept       json
// @Produce      json
// @Param        request  body      types.AnalyzeRequest  true  "Dataset to analyze"
// @Success      200      {object}  types.AnalyzeResponse
// @Failure      400      {object}  types.ErrorResponse
// @Failure      500      {object}  types.ErrorResponse
// @Router       /api/analyze [post]
func (s *server) analyze(w http.ResponseWriter, r *http.Request) error {
	var req types.AnalyzeRequest
	if err := s.decode(w, r, &req); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}
	ctx, cancel := collaboratorContext(r, s.opts.BaseContext)
	defer cancel()

	processed, err := s.svc.Processor.ProcessData(ctx, req.Dataset)
	if err != nil {
		return collaborator("process_data", err)
	}
	insights, err := s.svc.Insights.GenerateInsights(ctx, processed, req.ModelName(), req.ParamsOrEmpty())
	if err != nil {
		return collaborator("generate_insights", err)
	}
	size, err := req.Dataset.Len()
	if err != nil {
		return collaborator("dataset_size", err)
	}
	if insights == nil {
		insights = types.Result{}
	}
	meta := types.AnalyzeMetadata{
		DatasetSize: size,
		ModelUsed:   insights.String("model_used", types.DefaultModel),
	}
	if processed != nil {
		meta.ProcessingTime = processed.ProcessingTime
	}
	return s.respond(w, r, http.StatusOK, types.AnalyzeResponse{Insights: insights, Metadata: meta})
}

// @Summary      Query a dataset
// @Description  Answers a natural-language question about the dataset.
// @Tags         api
// @Accept       json
// @Produce      json
// @Param        request  body      types.QueryRequest  true  "Question and dataset"
// @Success      200      {object}  types.QueryResponse
// @Failure      400      {object}  types.ErrorResponse
// @Failure      500      {object}  types.ErrorResponse
// @Router       /api/query [post]
func (s *server) query(w http.ResponseWriter, r *http.Request) error {
	var req types.QueryRequest
	if err := s.decode(w, r, &req); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}
	ctx, cancel := collaboratorContext(r, s.opts.BaseContext)
	defer cancel()

	result, err := s.svc.Models.ProcessQuery(ctx, *req.Query, req.Dataset, req.ModelName())
	if err != nil {
		return collaborator("process_query", err)
	}
	if result == nil {
		result = types.Result{}
	}
	return s.respond(w, r, http.StatusOK, types.QueryResponse{
		Result: result,
		Metadata: types.QueryMetadata{
			Query:     *req.Query,
			ModelUsed: result.String("model_used", types.DefaultModel),
		},
	})
}

// @Summary      Predict a target column
// @Description  Fits a model on the rows with a known target and predicts the rest.
// @Tags         api
// @Accept       json
// @Produce      json
// @Param        request  body      types.PredictRequest  true  "Dataset, target and features"
// @Success      200      {object}  types.PredictResponse
// @Failure      400      {object}  types.ErrorResponse
// @Failure      500      {object}  types.ErrorResponse
// @Router       /api/predict [post]
func (s *server) predict(w http.ResponseWriter, r *http.Request) error {
	var req types.PredictRequest
	if err := s.decode(w, r, &req); err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}
	ctx, cancel := collaboratorContext(r, s.opts.BaseContext)
	defer cancel()

	prediction, err := s.svc.Models.MakePrediction(ctx, req.Input())
	if err != nil {
		return collaborator("make_prediction", err)
	}
	if prediction == nil {
		prediction = types.Result{}
	}
	return s.respond(w, r, http.StatusOK, types.PredictResponse{
		Prediction: prediction,
		Metadata: types.PredictMetadata{
			ModelUsed: prediction.String("model_used", types.DefaultModel),
			Accuracy:  prediction.Float("accuracy", 0),
		},
	})
}

// @Summary      List models
// @Description  Lists the loaded models and the manifests available on disk.
// @Tags         api
// @Produce      json
// @Success      200  {object}  types.ModelsResponse
// @Failure      500  {object}  types.ErrorResponse
// @Router       /api/models [get]
func (s *server) models(w http.ResponseWriter, r *http.Request) error {
	ctx, cancel := collaboratorContext(r, s.opts.BaseContext)
	defer cancel()

	models, err := s.svc.Models.ListAvailableModels(ctx)
	if err != nil {
		return collaborator("list_available_models", err)
	}
	if models == nil {
		models = []types.ModelInfo{}
	}
	return s.respond(w, r, http.StatusOK, types.ModelsResponse{Models: models})
}
