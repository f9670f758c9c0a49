package shared_test

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/adarshgram/internal/app/features/shared"
	"github.com/dalemusser/adarshgram/internal/app/lifecycle"
	"github.com/dalemusser/adarshgram/internal/app/system/auth"
	"github.com/dalemusser/adarshgram/internal/domain/apperr"
	"github.com/dalemusser/adarshgram/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSession(t *testing.T) {
	id := primitive.NewObjectID()
	req := httptest.NewRequest("GET", "/", nil)

	if shared.Session(req).SignedIn() {
		t.Error("anonymous request should have no session")
	}

	sc := shared.CookieContractor(lifecycle.Session{ContractorID: id, Username: "contractor", Name: "Raj Construction", Specialization: "roads"})
	got := shared.Session(auth.WithTestContractor(req, &sc))
	if got.ContractorID != id || got.Username != "contractor" || got.Name != "Raj Construction" {
		t.Errorf("Session: got %+v", got)
	}

	bad := auth.WithTestContractor(req, &auth.SessionContractor{ID: "nope"})
	if shared.Session(bad).SignedIn() {
		t.Error("a malformed id must not sign anyone in")
	}
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid", `{"text":"pothole"}`, false},
		{"empty", ``, true},
		{"malformed", `{"text":`, true},
		{"too big", `{"text":"` + strings.Repeat("a", shared.MaxJSONBody) + `"}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v struct{ Text string }
			req := httptest.NewRequest("POST", "/issues", strings.NewReader(tt.body))
			err := shared.DecodeJSON(httptest.NewRecorder(), req, &v)
			if tt.wantErr {
				if !errors.Is(err, apperr.ErrValidation) {
					t.Errorf("got %v, want ErrValidation", err)
				}
				return
			}
			if err != nil || v.Text != "pothole" {
				t.Errorf("got %v / %q", err, v.Text)
			}
		})
	}
}

func TestIDParam(t *testing.T) {
	id := primitive.NewObjectID()
	req := testutil.WithChiURLParam(httptest.NewRequest("GET", "/", nil), "id", id.Hex())
	got, err := shared.IDParam(req, "id")
	if err != nil || got != id {
		t.Errorf("IDParam: got %v, %v", got, err)
	}

	req = testutil.WithChiURLParam(httptest.NewRequest("GET", "/", nil), "id", "xyz")
	if _, err := shared.IDParam(req, "id"); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("invalid id: got %v, want ErrValidation", err)
	}
}
