package httpapi

import (
	"context"
	"net/http"
)

// collaboratorContext derives the context passed to the manager, processor
// and insight generator. It keeps the request's values and deadline and is
// additionally canceled once base is done, which happens on shutdown.
func collaboratorContext(r *http.Request, base context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(r.Context())
	stop := context.AfterFunc(base, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}
