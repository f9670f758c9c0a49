package issues

import (
	"net/http"

	uierrors "github.com/dalemusser/adarshgram/internal/app/features/errors"
	"github.com/dalemusser/adarshgram/internal/app/features/shared"
	"github.com/dalemusser/adarshgram/internal/app/system/normalize"
	"github.com/dalemusser/adarshgram/internal/app/system/paging"
	"github.com/dalemusser/waffle/pantry/query"
)

// ServeList handles GET /issues?q=. With q it searches text, category and
// location name.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	q := normalize.QueryParam(query.Get(r, "q"))
	page, rg := paging.Window(h.Mgr.SearchIssues(q), paging.ParseStart(r), paging.ParseLimit(r))
	paging.SetHeaders(w, rg)
	uierrors.WriteJSON(w, http.StatusOK, page)
}

// ServeView handles GET /issues/{id}.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	id, err := shared.IDParam(r, "id")
	if err != nil {
		h.ErrLog.Write(w, r, "invalid issue id", err)
		return
	}
	issue, err := h.Mgr.Issue(id)
	if err != nil {
		h.ErrLog.Write(w, r, "could not load the issue", err)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, issue)
}
