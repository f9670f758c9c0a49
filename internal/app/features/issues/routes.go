package issues

import (
	"github.com/dalemusser/adarshgram/internal/app/system/auth"
	"github.com/dalemusser/adarshgram/internal/app/system/ratelimit"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the issue endpoints (typically at "/issues"). Submissions
// are throttled per client IP by submitLimit; nil disables throttling.
func Routes(h *Handler, sm *auth.SessionManager, submitLimit *ratelimit.Limiter) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeList)
	r.Get("/{id}", h.ServeView)
	r.With(ratelimit.PerIP(submitLimit)).Post("/", h.HandleSubmit)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Post("/{id}/assign", h.HandleAssign)
	})
	return r
}
