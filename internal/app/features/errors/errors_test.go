package errors_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	uierrors "github.com/dalemusser/adarshgram/internal/app/features/errors"
	"github.com/dalemusser/adarshgram/internal/domain/apperr"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestWrite(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
		wantKind   string
		wantErrLog bool
	}{
		{"validation", fmt.Errorf("%w: issue description is required", apperr.ErrValidation), http.StatusBadRequest, "validation failed: issue description is required", "validation", false},
		{"conflict", fmt.Errorf("%w: issue x is already assigned", apperr.ErrConflict), http.StatusConflict, "conflict: issue x is already assigned", "conflict", false},
		{"persistence hides detail", fmt.Errorf("%w: write issues: disk full", apperr.ErrPersistence), http.StatusInternalServerError, "could not save", "persistence", true},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "could not save", "internal", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zap.ErrorLevel)
			el := uierrors.NewErrorLogger(zap.New(core))
			rec := httptest.NewRecorder()

			el.Write(rec, httptest.NewRequest("POST", "/issues", nil), "could not save", tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status: got %d, want %d", rec.Code, tt.wantStatus)
			}
			var body struct {
				Error string `json:"error"`
				Kind  string `json:"kind"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Error != tt.wantBody || body.Kind != tt.wantKind {
				t.Errorf("body: got %+v", body)
			}
			if got := logs.Len() > 0; got != tt.wantErrLog {
				t.Errorf("error logged: got %v, want %v", got, tt.wantErrLog)
			}
		})
	}
}

func TestBadRequest(t *testing.T) {
	el := uierrors.NewErrorLogger(zap.NewNop())
	rec := httptest.NewRecorder()
	el.BadRequest(rec, httptest.NewRequest("POST", "/login", nil), "invalid JSON body")

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q", ct)
	}
}
