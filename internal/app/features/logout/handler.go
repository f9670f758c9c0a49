// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	uierrors "github.com/dalemusser/adarshgram/internal/app/features/errors"
	"github.com/dalemusser/adarshgram/internal/app/system/auditlog"
	"github.com/dalemusser/adarshgram/internal/app/system/auth"
	"go.uber.org/zap"
)

type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	Audit      *auditlog.Logger
}

func NewHandler(sessionMgr *auth.SessionManager, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
		Audit:      audit,
	}
}

// HandleLogout handles POST /logout. It always answers 200; the cookie is
// expired even when it could not be decoded.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	var contractorID string
	if c, ok := auth.CurrentContractor(r); ok {
		contractorID = c.ID
	}

	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Error("logout: save session", zap.Error(err))
	}

	if contractorID != "" {
		h.Audit.Logout(r.Context(), r, contractorID)
	}
	uierrors.WriteJSON(w, http.StatusOK, map[string]string{"status": "signed out"})
}
