package login_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	uierrors "github.com/dalemusser/adarshgram/internal/app/features/errors"
	"github.com/dalemusser/adarshgram/internal/app/features/login"
	"github.com/dalemusser/adarshgram/internal/app/lifecycle"
	"github.com/dalemusser/adarshgram/internal/app/store/audit"
	"github.com/dalemusser/adarshgram/internal/app/store/docstore"
	"github.com/dalemusser/adarshgram/internal/app/store/jsonstore"
	"github.com/dalemusser/adarshgram/internal/app/system/auditlog"
	"github.com/dalemusser/adarshgram/internal/app/system/auth"
	"github.com/dalemusser/adarshgram/internal/domain/models"
	"github.com/dalemusser/adarshgram/internal/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestHandler(t *testing.T) (*login.Handler, *observer.ObservedLogs) {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := jsonstore.NewMemory(zap.NewNop())
	fx := testutil.NewFixtures(t, store)
	demo := fx.CreateContractor(ctx, lifecycle.DemoUsername, lifecycle.DemoPassword, models.CategoryRoads)
	idle := fx.CreateContractor(ctx, "idle", "pw", models.CategoryWater)
	idle.Status = models.ContractorStatusInactive
	if err := docstore.WriteAll(ctx, store, docstore.Contractors, []models.Contractor{demo, idle}); err != nil {
		t.Fatalf("WriteAll: %v", err)
	}
	mgr := testutil.OpenManager(t, store, lifecycle.Options{})

	core, logs := observer.New(zapcore.InfoLevel)
	audit := auditlog.New(nil, zap.New(core), auditlog.Config{Auth: auditlog.Log})
	h := login.NewHandler(mgr, testutil.NewSessionManager(t), uierrors.NewErrorLogger(zap.NewNop()), audit, zap.NewNop())
	return h, logs
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.DefaultSessionName {
			return c
		}
	}
	return nil
}

func TestHandleLoginPost_Success(t *testing.T) {
	h, logs := newTestHandler(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/login", map[string]string{
		"username": lifecycle.DemoUsername,
		"password": lifecycle.DemoPassword,
	})
	rec := httptest.NewRecorder()
	h.HandleLoginPost(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var got struct {
		Username string `json:"username"`
		Name     string `json:"name"`
	}
	testutil.DecodeJSON(t, rec, &got)
	if got.Username != lifecycle.DemoUsername {
		t.Errorf("username: got %q", got.Username)
	}
	if sessionCookie(rec) == nil {
		t.Error("expected session cookie to be set")
	}
	if n := logs.FilterField(zap.String("event_type", audit.EventLoginSuccess)).Len(); n != 1 {
		t.Errorf("expected 1 login_success audit entry, got %d", n)
	}
}

func TestHandleLoginPost_Rejected(t *testing.T) {
	tests := []struct {
		name      string
		username  string
		password  string
		wantEvent string
	}{
		{"unknown user", "nobody", "x", audit.EventLoginFailedUnknownUser},
		{"wrong password", lifecycle.DemoUsername, "wrong", audit.EventLoginFailedWrongPassword},
		{"wrong case", "Contractor", lifecycle.DemoPassword, audit.EventLoginFailedUnknownUser},
		{"inactive", "idle", "pw", audit.EventLoginFailedInactive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, logs := newTestHandler(t)
			req := testutil.NewJSONRequest(t, http.MethodPost, "/login", map[string]string{
				"username": tt.username,
				"password": tt.password,
			})
			rec := httptest.NewRecorder()
			h.HandleLoginPost(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
			var body struct {
				Error string `json:"error"`
			}
			testutil.DecodeJSON(t, rec, &body)
			if body.Error != "invalid username or password" {
				t.Errorf("error message: got %q", body.Error)
			}
			if sessionCookie(rec) != nil {
				t.Error("session cookie set on failed login")
			}
			if n := logs.FilterField(zap.String("event_type", tt.wantEvent)).Len(); n != 1 {
				t.Errorf("expected 1 %s audit entry, got %d", tt.wantEvent, n)
			}
		})
	}
}

func TestHandleLoginPost_MissingFields(t *testing.T) {
	h, _ := newTestHandler(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/login", map[string]string{"username": "contractor"})
	rec := httptest.NewRecorder()
	h.HandleLoginPost(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}
