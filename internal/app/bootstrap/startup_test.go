package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dalemusser/adarshgram/internal/app/lifecycle"
	"github.com/dalemusser/adarshgram/internal/app/system/auditlog"
	"github.com/dalemusser/adarshgram/internal/domain/models"
	"github.com/dalemusser/adarshgram/internal/testutil"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func jsonAppConfig(dir string) AppConfig {
	return AppConfig{
		StoreType:          StoreJSON,
		StoreJSONDir:       dir,
		SessionKey:         testutil.TestSessionKey,
		PhotoDir:           filepath.Join(dir, "photos"),
		AuditLogAuth:       auditlog.Log,
		AuditLogLifecycle:  auditlog.Log,
		SeedDemoContractor: true,
	}
}

func TestValidateConfig(t *testing.T) {
	valid := jsonAppConfig("")
	mongo := valid
	mongo.StoreType = StoreMongo
	mongo.MongoURI = "mongodb://localhost:27017"
	mongo.MongoDatabase = "adarsh_gram_test"

	tests := []struct {
		name    string
		mutate  func(*AppConfig)
		wantErr bool
	}{
		{"json", func(c *AppConfig) {}, false},
		{"mongo", func(c *AppConfig) { *c = mongo }, false},
		{"unknown store", func(c *AppConfig) { c.StoreType = "sqlite" }, true},
		{"mongo without database", func(c *AppConfig) { *c = mongo; c.MongoDatabase = "" }, true},
		{"bad audit setting", func(c *AppConfig) { c.AuditLogLifecycle = "verbose" }, true},
		{"negative rate", func(c *AppConfig) { c.SubmitRatePerMin = -1 }, true},
		{"no session key", func(c *AppConfig) { c.SessionKey = "" }, true},
		{"classifier url", func(c *AppConfig) { c.ClassifierURL = "https://infer.example.com/models/sentiment" }, false},
		{"classifier url without scheme", func(c *AppConfig) { c.ClassifierURL = "infer.example.com" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := ValidateConfig(&config.CoreConfig{}, cfg, testLogger())
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadLexicon(t *testing.T) {
	if c, err := loadLexicon(""); err != nil || c == nil {
		t.Fatalf("built-in lexicon: %v", err)
	}
	if _, err := loadLexicon(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for a missing lexicon file")
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("priority: [water]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadLexicon(bad); err == nil {
		t.Error("expected error for incomplete tables")
	}
}

func TestPerMinute(t *testing.T) {
	if perMinute(0) != nil {
		t.Error("perMinute(0) should disable limiting")
	}
	l := perMinute(2)
	if l == nil || !l.Allow("ip") || !l.Allow("ip") || l.Allow("ip") {
		t.Error("perMinute(2) should allow exactly two requests")
	}
}

// testApp is a running handler over a json store in dir.
type testApp struct {
	t       *testing.T
	handler http.Handler
	deps    DBDeps
	cookies []*http.Cookie
}

func startApp(t *testing.T, dir string) *testApp {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	core := &config.CoreConfig{Env: "dev"}
	cfg := jsonAppConfig(dir)
	deps, err := ConnectDB(ctx, core, cfg, testLogger())
	if err != nil {
		t.Fatalf("ConnectDB: %v", err)
	}
	if err := EnsureSchema(ctx, core, cfg, deps, testLogger()); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	if err := Startup(ctx, core, cfg, deps, testLogger()); err != nil {
		t.Fatalf("Startup: %v", err)
	}
	h, err := BuildHandler(core, cfg, deps, testLogger())
	if err != nil {
		t.Fatalf("BuildHandler: %v", err)
	}
	a := &testApp{t: t, handler: h, deps: deps}
	t.Cleanup(func() {
		if err := Shutdown(context.Background(), core, cfg, deps, testLogger()); err != nil {
			t.Errorf("Shutdown: %v", err)
		}
	})
	return a
}

func (a *testApp) do(method, path string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var req *http.Request
	if body != nil {
		b, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, c := range a.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func TestBuildHandler_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	a := startApp(t, dir)

	if rec := a.do(http.MethodGet, "/health", nil); rec.Code != http.StatusOK {
		t.Fatalf("health: %d %s", rec.Code, rec.Body.String())
	}

	rec := a.do(http.MethodPost, "/issues", map[string]string{
		"text":          "Road broken near the bridge",
		"location_name": "District Hospital",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit: %d %s", rec.Code, rec.Body.String())
	}
	var issue models.Issue
	testutil.DecodeJSON(t, rec, &issue)

	assignPath := "/issues/" + issue.ID.Hex() + "/assign"
	if rec := a.do(http.MethodPost, assignPath, nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous assign: expected 401, got %d", rec.Code)
	}

	rec = a.do(http.MethodPost, "/login", map[string]string{
		"username": lifecycle.DemoUsername,
		"password": lifecycle.DemoPassword,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login: %d %s", rec.Code, rec.Body.String())
	}
	a.cookies = rec.Result().Cookies()

	rec = a.do(http.MethodPost, assignPath, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("assign: %d %s", rec.Code, rec.Body.String())
	}
	var project models.Project
	testutil.DecodeJSON(t, rec, &project)

	rec = a.do(http.MethodPost, "/projects/"+project.ID.Hex()+"/progress", map[string]int{"progress": 100})
	if rec.Code != http.StatusOK {
		t.Fatalf("progress: %d %s", rec.Code, rec.Body.String())
	}

	rec = a.do(http.MethodGet, "/dashboard", nil)
	var summary lifecycle.Summary
	testutil.DecodeJSON(t, rec, &summary)
	if summary.IssuesByStatus[models.IssueStatusResolved] != 1 || summary.ProjectsByStatus[models.ProjectStatusCompleted] != 1 {
		t.Errorf("dashboard after completion: %+v", summary)
	}

	rec = a.do(http.MethodGet, "/contractors/me", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("me: %d %s", rec.Code, rec.Body.String())
	}

	if rec := a.do(http.MethodPost, "/logout", nil); rec.Code != http.StatusOK {
		t.Errorf("logout: %d", rec.Code)
	}

	rec = a.do(http.MethodGet, "/metrics", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "adarshgram_") {
		t.Errorf("metrics: %d, missing adarshgram_ series", rec.Code)
	}

	// A second instance over the same directory sees the same records.
	b := startApp(t, dir)
	rec = b.do(http.MethodGet, "/issues/"+issue.ID.Hex(), nil)
	var reloaded models.Issue
	testutil.DecodeJSON(t, rec, &reloaded)
	if reloaded.Status != models.IssueStatusResolved || reloaded.AssignedProjectID == nil || *reloaded.AssignedProjectID != project.ID {
		t.Errorf("reloaded issue: %+v", reloaded)
	}
	rec = b.do(http.MethodGet, "/contractors", nil)
	var contractors []models.Contractor
	testutil.DecodeJSON(t, rec, &contractors)
	if len(contractors) != 1 {
		t.Errorf("expected the demo contractor seeded once, got %d contractors", len(contractors))
	}
}
