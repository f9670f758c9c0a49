package projects

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/adarshgram/internal/app/features/errors"
	"github.com/dalemusser/adarshgram/internal/app/features/shared"
	"github.com/dalemusser/adarshgram/internal/app/store/audit"
	"github.com/dalemusser/adarshgram/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// historyLimit caps the events returned for one project.
const historyLimit = 200

// HistoryReader reads stored audit events. *audit.Store satisfies it.
type HistoryReader interface {
	GetByProject(ctx context.Context, projectID primitive.ObjectID, limit int64) ([]audit.Event, error)
}

// ServeHistory handles GET /projects/{id}/history: the project's stored
// audit events, newest first. Without an audit store the list is empty.
func (h *Handler) ServeHistory(w http.ResponseWriter, r *http.Request) {
	id, err := shared.IDParam(r, "id")
	if err != nil {
		h.ErrLog.Write(w, r, "invalid project id", err)
		return
	}
	if _, err := h.Mgr.Project(id); err != nil {
		h.ErrLog.Write(w, r, "could not load the project", err)
		return
	}

	events := []audit.Event{}
	if h.History != nil {
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
		defer cancel()
		stored, err := h.History.GetByProject(ctx, id, historyLimit)
		if err != nil {
			h.ErrLog.Write(w, r, "could not load the project history", err)
			return
		}
		for _, e := range stored {
			e.IP, e.UserAgent = "", ""
			events = append(events, e)
		}
	}
	uierrors.WriteJSON(w, http.StatusOK, events)
}
