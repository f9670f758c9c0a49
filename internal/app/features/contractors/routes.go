package contractors

import (
	"github.com/dalemusser/adarshgram/internal/app/system/auth"
	"github.com/dalemusser/adarshgram/internal/app/system/ratelimit"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the contractor endpoints (typically at "/contractors").
// Registrations are throttled per client IP by registerLimit; nil disables
// throttling.
func Routes(h *Handler, sm *auth.SessionManager, registerLimit *ratelimit.Limiter) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeList)
	r.With(ratelimit.PerIP(registerLimit)).Post("/", h.HandleRegister)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/me", h.ServeMe)
		pr.Get("/me/activity", h.ServeActivity)
	})
	return r
}
