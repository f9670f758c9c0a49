package projects

import (
	"context"
	"fmt"
	"net/http"

	uierrors "github.com/dalemusser/adarshgram/internal/app/features/errors"
	"github.com/dalemusser/adarshgram/internal/app/features/shared"
	"github.com/dalemusser/adarshgram/internal/app/lifecycle"
	"github.com/dalemusser/adarshgram/internal/app/system/timeouts"
	"github.com/dalemusser/adarshgram/internal/domain/apperr"
	"github.com/dalemusser/adarshgram/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type progressRequest struct {
	Progress *int `json:"progress"`
}

type completeRequest struct {
	AllowShortcut bool `json:"allow_shortcut"`
}

// HandleProgress handles POST /projects/{id}/progress with {"progress": n}.
func (h *Handler) HandleProgress(w http.ResponseWriter, r *http.Request) {
	id, err := shared.IDParam(r, "id")
	if err != nil {
		h.ErrLog.Write(w, r, "invalid project id", err)
		return
	}
	var req progressRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		h.ErrLog.Write(w, r, "invalid request", err)
		return
	}
	if req.Progress == nil {
		h.ErrLog.Write(w, r, "invalid request", fmt.Errorf("%w: progress is required", apperr.ErrValidation))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := h.Mgr.UpdateProgress(ctx, id, *req.Progress)
	if err != nil {
		h.ErrLog.Write(w, r, "could not update progress, please try again", err)
		return
	}

	h.Audit.ProgressUpdated(ctx, r, p.ID, p.Progress, p.Status)
	if p.Status == models.ProjectStatusCompleted {
		h.auditCompleted(ctx, r, p, false)
	}
	uierrors.WriteJSON(w, http.StatusOK, p)
}

// HandleComplete handles POST /projects/{id}/complete. An empty body is
// accepted; {"allow_shortcut": true} completes a project still pending.
func (h *Handler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	id, err := shared.IDParam(r, "id")
	if err != nil {
		h.ErrLog.Write(w, r, "invalid project id", err)
		return
	}
	var req completeRequest
	if r.ContentLength != 0 {
		if err := shared.DecodeJSON(w, r, &req); err != nil {
			h.ErrLog.Write(w, r, "invalid request", err)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, shortcut, err := h.Mgr.CompleteProject(ctx, id, lifecycle.CompleteOptions{AllowShortcut: req.AllowShortcut})
	if err != nil {
		h.ErrLog.Write(w, r, "could not complete the project, please try again", err)
		return
	}

	h.auditCompleted(ctx, r, p, shortcut)
	uierrors.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) auditCompleted(ctx context.Context, r *http.Request, p models.Project, shortcut bool) {
	var actor *primitive.ObjectID
	if sess := shared.Session(r); sess.SignedIn() {
		id := sess.ContractorID
		actor = &id
	}
	h.Audit.ProjectCompleted(ctx, r, actor, p.ID, p.SourceIssueID, shortcut)
}
