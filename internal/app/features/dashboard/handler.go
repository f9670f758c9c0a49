// internal/app/features/dashboard/handler.go
package dashboard

import (
	"net/http"

	uierrors "github.com/dalemusser/adarshgram/internal/app/features/errors"
	"github.com/dalemusser/adarshgram/internal/app/lifecycle"
	"go.uber.org/zap"
)

type Handler struct {
	Mgr *lifecycle.Manager
	Log *zap.Logger
}

func NewHandler(mgr *lifecycle.Manager, logger *zap.Logger) *Handler {
	return &Handler{Mgr: mgr, Log: logger}
}

// ServeDashboard handles GET /dashboard: public counters of issues,
// projects and contractors.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	uierrors.WriteJSON(w, http.StatusOK, h.Mgr.Summary())
}
