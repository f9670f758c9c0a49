package contractors

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/adarshgram/internal/app/features/errors"
	"github.com/dalemusser/adarshgram/internal/app/features/shared"
	"github.com/dalemusser/adarshgram/internal/app/store/audit"
	"github.com/dalemusser/adarshgram/internal/app/system/timeouts"
	"github.com/dalemusser/adarshgram/internal/domain/apperr"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const activityLimit = 100

// ActivityReader reads stored audit events. *audit.Store satisfies it.
type ActivityReader interface {
	GetByContractor(ctx context.Context, contractorID primitive.ObjectID, limit int64) ([]audit.Event, error)
}

// ServeActivity handles GET /contractors/me/activity: the signed-in
// contractor's recent sign-ins and project actions, newest first.
func (h *Handler) ServeActivity(w http.ResponseWriter, r *http.Request) {
	sess := shared.Session(r)
	if !sess.SignedIn() {
		h.ErrLog.Write(w, r, "sign in to view your activity", apperr.ErrAuth)
		return
	}

	events := []audit.Event{}
	if h.Activity != nil {
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
		defer cancel()
		stored, err := h.Activity.GetByContractor(ctx, sess.ContractorID, activityLimit)
		if err != nil {
			h.ErrLog.Write(w, r, "could not load your activity", err)
			return
		}
		events = append(events, stored...)
	}
	uierrors.WriteJSON(w, http.StatusOK, events)
}
