package issues

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"

	uierrors "github.com/dalemusser/adarshgram/internal/app/features/errors"
	"github.com/dalemusser/adarshgram/internal/app/features/shared"
	"github.com/dalemusser/adarshgram/internal/app/store/photos"
	"github.com/dalemusser/adarshgram/internal/app/system/timeouts"
	"github.com/dalemusser/adarshgram/internal/app/triage"
	"github.com/dalemusser/adarshgram/internal/domain/apperr"
)

// submitRequest is the JSON form of a report.
type submitRequest struct {
	Text         string `json:"text"`
	LocationName string `json:"location_name"`
}

// multipart overhead allowed on top of the photo itself
const formOverhead = 1 << 20

// HandleSubmit handles POST /issues.
//
// Accepts application/json {"text","location_name"} or multipart/form-data
// with fields text, location_name and an optional file field photo.
// Answers 201 with the stored issue.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	report, err := h.readReport(w, r)
	if err != nil {
		h.ErrLog.Write(w, r, "could not read the report", err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	issue, err := h.Mgr.SubmitReport(ctx, report)
	if err != nil {
		h.ErrLog.Write(w, r, "could not save the report, please try again", err)
		return
	}

	h.Audit.ReportSubmitted(ctx, r, issue.ID, issue.Category, issue.Urgency, issue.Analysis.SentimentSource)
	uierrors.WriteJSON(w, http.StatusCreated, issue)
}

func (h *Handler) readReport(w http.ResponseWriter, r *http.Request) (triage.Report, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		var req submitRequest
		if err := shared.DecodeJSON(w, r, &req); err != nil {
			return triage.Report{}, err
		}
		return triage.Report{Text: req.Text, LocationName: req.LocationName}, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, photos.MaxSize+formOverhead)
	if err := r.ParseMultipartForm(formOverhead); err != nil {
		return triage.Report{}, fmt.Errorf("%w: invalid form or photo larger than %d MB", apperr.ErrValidation, photos.MaxSize>>20)
	}
	report := triage.Report{
		Text:         r.FormValue("text"),
		LocationName: r.FormValue("location_name"),
	}

	file, header, err := r.FormFile("photo")
	if err == http.ErrMissingFile {
		return report, nil
	}
	if err != nil {
		return triage.Report{}, fmt.Errorf("%w: unreadable photo", apperr.ErrValidation)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, photos.MaxSize+1))
	if err != nil {
		return triage.Report{}, fmt.Errorf("%w: unreadable photo", apperr.ErrValidation)
	}
	if len(data) > photos.MaxSize {
		return triage.Report{}, fmt.Errorf("%w: photo larger than %d MB", apperr.ErrValidation, photos.MaxSize>>20)
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	report.Photo = &triage.Photo{Filename: header.Filename, ContentType: contentType, Data: data}
	return report, nil
}
