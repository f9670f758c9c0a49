package projects

import (
	"net/http"

	uierrors "github.com/dalemusser/adarshgram/internal/app/features/errors"
	"github.com/dalemusser/adarshgram/internal/app/features/shared"
	"github.com/dalemusser/adarshgram/internal/app/system/normalize"
	"github.com/dalemusser/adarshgram/internal/app/system/paging"
	"github.com/dalemusser/waffle/pantry/query"
)

// ServeList handles GET /projects?q=.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	q := normalize.QueryParam(query.Get(r, "q"))
	page, rg := paging.Window(h.Mgr.Projects(q), paging.ParseStart(r), paging.ParseLimit(r))
	paging.SetHeaders(w, rg)
	uierrors.WriteJSON(w, http.StatusOK, page)
}

// ServeView handles GET /projects/{id}.
func (h *Handler) ServeView(w http.ResponseWriter, r *http.Request) {
	id, err := shared.IDParam(r, "id")
	if err != nil {
		h.ErrLog.Write(w, r, "invalid project id", err)
		return
	}
	p, err := h.Mgr.Project(id)
	if err != nil {
		h.ErrLog.Write(w, r, "could not load the project", err)
		return
	}
	uierrors.WriteJSON(w, http.StatusOK, p)
}
