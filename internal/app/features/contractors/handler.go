// Package contractors serves contractor registration, the contractor
// directory, and the signed-in contractor's own dashboard.
package contractors

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/adarshgram/internal/app/features/errors"
	"github.com/dalemusser/adarshgram/internal/app/features/shared"
	"github.com/dalemusser/adarshgram/internal/app/lifecycle"
	"github.com/dalemusser/adarshgram/internal/app/system/auditlog"
	"github.com/dalemusser/adarshgram/internal/app/system/paging"
	"github.com/dalemusser/adarshgram/internal/app/system/timeouts"
	"github.com/dalemusser/adarshgram/internal/domain/models"
	"go.uber.org/zap"
)

type Handler struct {
	Mgr    *lifecycle.Manager
	ErrLog *uierrors.ErrorLogger
	Audit  *auditlog.Logger
	Log    *zap.Logger

	// Activity serves /contractors/me/activity. Nil answers an empty list.
	Activity ActivityReader
}

func NewHandler(mgr *lifecycle.Manager, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Mgr:    mgr,
		ErrLog: errLog,
		Audit:  audit,
		Log:    logger,
	}
}

type registerRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Specialization string `json:"specialization"`
}

// registerResponse carries the issued credentials. They are shown once.
type registerResponse struct {
	Contractor models.Contractor `json:"contractor"`
	Username   string            `json:"username"`
	Password   string            `json:"password"`
}

// HandleRegister handles POST /contractors. Answers 201 with the new
// contractor and its login; 409 when the derived username is taken.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		h.ErrLog.Write(w, r, "invalid request", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	c, err := h.Mgr.Register(ctx, lifecycle.Registration{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Specialization: req.Specialization,
	})
	if err != nil {
		h.ErrLog.Write(w, r, "could not register, please try again", err)
		return
	}

	h.Audit.ContractorRegistered(ctx, r, c.ID, c.Username, c.Specialization)
	uierrors.WriteJSON(w, http.StatusCreated, registerResponse{
		Contractor: c,
		Username:   c.Username,
		Password:   lifecycle.DefaultPassword,
	})
}

// ServeList handles GET /contractors?start=&limit=.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	page, rg := paging.Window(h.Mgr.Contractors(), paging.ParseStart(r), paging.ParseLimit(r))
	paging.SetHeaders(w, rg)
	uierrors.WriteJSON(w, http.StatusOK, page)
}

// ServeMe handles GET /contractors/me.
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	d, err := h.Mgr.ContractorDashboard(shared.Session(r))
	if err != nil {
		h.ErrLog.Write(w, r, "could not load your dashboard", err)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, d)
}
