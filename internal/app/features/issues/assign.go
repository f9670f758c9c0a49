package issues

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/adarshgram/internal/app/features/errors"
	"github.com/dalemusser/adarshgram/internal/app/features/shared"
	"github.com/dalemusser/adarshgram/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// HandleAssign handles POST /issues/{id}/assign. The signed-in contractor
// takes the issue on; answers 201 with the new project.
func (h *Handler) HandleAssign(w http.ResponseWriter, r *http.Request) {
	id, err := shared.IDParam(r, "id")
	if err != nil {
		h.ErrLog.Write(w, r, "invalid issue id", err)
		return
	}
	sess := shared.Session(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	project, err := h.Mgr.Assign(ctx, sess, id)
	if err != nil {
		h.ErrLog.Write(w, r, "could not assign the issue, please try again", err)
		return
	}

	h.Log.Info("issue taken on",
		zap.String("issue_id", id.Hex()),
		zap.String("project_id", project.ID.Hex()),
		zap.String("contractor", sess.Username))
	h.Audit.IssueAssigned(ctx, r, sess.ContractorID, id, project.ID)
	uierrors.WriteJSON(w, http.StatusCreated, project)
}
