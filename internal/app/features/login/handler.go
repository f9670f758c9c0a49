// internal/app/features/login/handler.go
package login

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/adarshgram/internal/app/features/errors"
	"github.com/dalemusser/adarshgram/internal/app/features/shared"
	"github.com/dalemusser/adarshgram/internal/app/lifecycle"
	"github.com/dalemusser/adarshgram/internal/app/store/audit"
	"github.com/dalemusser/adarshgram/internal/app/system/auditlog"
	"github.com/dalemusser/adarshgram/internal/app/system/auth"
	"github.com/dalemusser/adarshgram/internal/app/system/timeouts"
	"github.com/dalemusser/adarshgram/internal/domain/apperr"
	"go.uber.org/zap"
)

// The message shown for every rejected login.
const invalidCredentials = "invalid username or password"

type Handler struct {
	Mgr        *lifecycle.Manager
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	Audit      *auditlog.Logger
	Log        *zap.Logger
}

func NewHandler(mgr *lifecycle.Manager, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Mgr:        mgr,
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		Audit:      audit,
		Log:        logger,
	}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
}

// HandleLoginPost handles POST /login.
//
// Credentials are compared exactly, case included. Every rejection answers
// 401 with the same message; the audit trail records which check failed.
func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		h.ErrLog.Write(w, r, "invalid request", err)
		return
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		h.ErrLog.BadRequest(w, r, "username and password are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	sess, err := h.Mgr.Login(ctx, req.Username, req.Password)
	if err != nil {
		h.loginFailed(ctx, w, r, req.Username, err)
		return
	}

	if err := h.SessionMgr.SignIn(w, r, shared.CookieContractor(sess)); err != nil {
		h.ErrLog.Write(w, r, "could not start a session, please try again", err)
		return
	}

	h.Audit.LoginSuccess(ctx, r, sess.ContractorID, sess.Username)
	uierrors.WriteJSON(w, http.StatusOK, loginResponse{
		ID:             sess.ContractorID.Hex(),
		Username:       sess.Username,
		Name:           sess.Name,
		Specialization: sess.Specialization,
	})
}

func (h *Handler) loginFailed(ctx context.Context, w http.ResponseWriter, r *http.Request, username string, err error) {
	var eventType, reason string
	switch {
	case errors.Is(err, lifecycle.ErrUnknownUser):
		eventType, reason = audit.EventLoginFailedUnknownUser, "unknown username"
	case errors.Is(err, lifecycle.ErrWrongPassword):
		eventType, reason = audit.EventLoginFailedWrongPassword, "wrong password"
	case errors.Is(err, lifecycle.ErrInactive):
		eventType, reason = audit.EventLoginFailedInactive, "contractor inactive"
	default:
		h.ErrLog.Write(w, r, "could not sign in, please try again", err)
		return
	}

	h.Audit.LoginFailed(ctx, r, eventType, username, reason)
	uierrors.WriteJSON(w, http.StatusUnauthorized, map[string]string{
		"error": invalidCredentials,
		"kind":  apperr.Kind(apperr.ErrAuth),
	})
}
