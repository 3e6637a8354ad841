package httpapi

import (
	"context"

	"github.com/rs/zerolog"
)

// DefaultMaxBodyBytes caps JSON request bodies when Options.MaxBodyBytes is unset.
const DefaultMaxBodyBytes int64 = 1 << 20

// Options configures the HTTP layer.
type Options struct {
	Version string
	Logger  zerolog.Logger
	// MaxBodyBytes limits the size of JSON request bodies.
	MaxBodyBytes int64
	// CORSOrigins lists allowed origins. Empty disables CORS.
	CORSOrigins []string
	// RateLimit is the sustained requests per second allowed on /api routes.
	// Zero disables rate limiting.
	RateLimit float64
	RateBurst int
	// Swagger mounts the API documentation under /swagger/.
	Swagger bool
	// BaseContext is canceled on shutdown; handlers stop collaborator work
	// when it is done.
	BaseContext context.Context
	// RequestLogLevel is the default per-request log level (off, error, info,
	// debug). Requests may override it with X-Log-Level or ?log=.
	RequestLogLevel string
}

func (o Options) withDefaults() Options {
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if o.BaseContext == nil {
		o.BaseContext = context.Background()
	}
	if o.RateLimit > 0 && o.RateBurst <= 0 {
		o.RateBurst = int(o.RateLimit) + 1
	}
	if o.RequestLogLevel == "" {
		o.RequestLogLevel = "info"
	}
	return o
}
