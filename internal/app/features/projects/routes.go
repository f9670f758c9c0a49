package projects

import (
	"github.com/dalemusser/adarshgram/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the project endpoints (typically at "/projects").
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeList)
	r.Get("/{id}", h.ServeView)
	r.Get("/{id}/history", h.ServeHistory)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Post("/{id}/progress", h.HandleProgress)
		pr.Post("/{id}/complete", h.HandleComplete)
	})
	return r
}
