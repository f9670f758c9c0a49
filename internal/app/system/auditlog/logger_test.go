package auditlog_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/dalemusser/adarshgram/internal/app/store/audit"
	"github.com/dalemusser/adarshgram/internal/app/system/auditlog"
	"github.com/dalemusser/adarshgram/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// recordingSink keeps every event it receives.
type recordingSink struct {
	mu     sync.Mutex
	events []audit.Event
	err    error
}

func (s *recordingSink) Log(ctx context.Context, e audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return s.err
}

func (s *recordingSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

func TestLogger_NilLogger(t *testing.T) {
	var logger *auditlog.Logger
	ctx, cancel := testutil.TestContext()
	defer cancel()
	req := httptest.NewRequest("POST", "/login", nil)

	// These should all be no-ops, not panic
	logger.Log(ctx, audit.Event{EventType: "test"})
	logger.LoginSuccess(ctx, req, primitive.NewObjectID(), "contractor")
	logger.Logout(ctx, req, primitive.NewObjectID().Hex())
}

func TestLogger_Destinations(t *testing.T) {
	tests := []struct {
		setting  string
		wantSink int
		wantZap  int
	}{
		{auditlog.All, 1, 1},
		{auditlog.DB, 1, 0},
		{auditlog.Log, 0, 1},
		{auditlog.Off, 0, 0},
		{"", 1, 1}, // unset behaves like all
	}

	for _, tt := range tests {
		t.Run("setting="+tt.setting, func(t *testing.T) {
			sink := &recordingSink{}
			core, logs := observer.New(zap.InfoLevel)
			logger := auditlog.New(sink, zap.New(core), auditlog.Config{Auth: tt.setting, Lifecycle: tt.setting})

			logger.Log(context.Background(), audit.Event{
				Category:  audit.CategoryAuth,
				EventType: audit.EventLoginSuccess,
				Success:   true,
			})

			if sink.count() != tt.wantSink {
				t.Errorf("sink events: got %d, want %d", sink.count(), tt.wantSink)
			}
			if logs.Len() != tt.wantZap {
				t.Errorf("zap entries: got %d, want %d", logs.Len(), tt.wantZap)
			}
		})
	}
}

func TestLogger_CategoryFilteredByConfig(t *testing.T) {
	sink := &recordingSink{}
	logger := auditlog.New(sink, zap.NewNop(), auditlog.Config{Auth: auditlog.Off, Lifecycle: auditlog.DB})
	req := httptest.NewRequest("POST", "/issues/x/assign", nil)

	logger.LoginSuccess(context.Background(), req, primitive.NewObjectID(), "contractor")
	logger.IssueAssigned(context.Background(), req, primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID())

	if sink.count() != 1 {
		t.Fatalf("expected only the lifecycle event, got %d", sink.count())
	}
	if sink.events[0].EventType != audit.EventIssueAssigned {
		t.Errorf("EventType: got %q", sink.events[0].EventType)
	}
}

func TestLogger_NilSink(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := auditlog.New(nil, zap.New(core), auditlog.Config{Auth: auditlog.All})

	logger.LoginSuccess(context.Background(), httptest.NewRequest("POST", "/login", nil), primitive.NewObjectID(), "contractor")

	if logs.Len() != 1 {
		t.Errorf("expected zap entry without a sink, got %d", logs.Len())
	}
}

func TestLogger_SinkErrorIsLogged(t *testing.T) {
	sink := &recordingSink{err: errors.New("write failed")}
	core, logs := observer.New(zap.ErrorLevel)
	logger := auditlog.New(sink, zap.New(core), auditlog.Config{Lifecycle: auditlog.DB})

	logger.ProgressUpdated(context.Background(), httptest.NewRequest("POST", "/", nil), primitive.NewObjectID(), 40, "in-progress")

	if logs.FilterMessage("failed to store audit event").Len() != 1 {
		t.Error("expected sink failure to be logged at error level")
	}
}

func TestLogger_EventShapes(t *testing.T) {
	sink := &recordingSink{}
	logger := auditlog.New(sink, zap.NewNop(), auditlog.Config{})
	ctx := context.Background()
	req := httptest.NewRequest("POST", "/", nil)
	req.Header.Set("User-Agent", "TestBrowser/1.0")

	contractorID := primitive.NewObjectID()
	issueID := primitive.NewObjectID()
	projectID := primitive.NewObjectID()

	logger.LoginFailed(ctx, req, audit.EventLoginFailedWrongPassword, "contractor", "wrong password")
	logger.Logout(ctx, req, "not-an-id")
	logger.ContractorRegistered(ctx, req, contractorID, "anilkumar", "water")
	logger.ReportSubmitted(ctx, req, issueID, "water", 8, "lexicon")
	logger.ProjectCompleted(ctx, req, &contractorID, projectID, issueID, true)

	if sink.count() != 5 {
		t.Fatalf("expected 5 events, got %d", sink.count())
	}

	failed := sink.events[0]
	if failed.Success || failed.FailureReason != "wrong password" || failed.Details["attempted_username"] != "contractor" {
		t.Errorf("login failure event: %+v", failed)
	}
	if failed.UserAgent != "TestBrowser/1.0" {
		t.Errorf("UserAgent: got %q", failed.UserAgent)
	}
	if sink.events[1].ContractorID != nil {
		t.Error("logout with invalid id should have no contractor")
	}
	if sink.events[2].Details["specialization"] != "water" {
		t.Errorf("registration details: %v", sink.events[2].Details)
	}
	if sink.events[3].Details["urgency"] != "8" || *sink.events[3].IssueID != issueID {
		t.Errorf("report event: %+v", sink.events[3])
	}
	done := sink.events[4]
	if *done.ProjectID != projectID || done.Details["shortcut"] != "true" {
		t.Errorf("completion event: %+v", done)
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name   string
		xff    string
		realIP string
		remote string
		wantIP string
	}{
		{"forwarded wins", "203.0.113.195, 70.41.3.18", "192.168.1.1", "127.0.0.1:12345", "203.0.113.195"},
		{"real ip", "", "192.168.1.100", "127.0.0.1:12345", "192.168.1.100"},
		{"remote addr port stripped", "", "", "10.0.0.5:12345", "10.0.0.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &recordingSink{}
			logger := auditlog.New(sink, zap.NewNop(), auditlog.Config{Auth: auditlog.DB})

			req := httptest.NewRequest("POST", "/login", nil)
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}
			req.RemoteAddr = tt.remote

			logger.LoginSuccess(context.Background(), req, primitive.NewObjectID(), "contractor")

			if sink.count() != 1 {
				t.Fatalf("expected 1 event, got %d", sink.count())
			}
			if sink.events[0].IP != tt.wantIP {
				t.Errorf("IP: got %q, want %q", sink.events[0].IP, tt.wantIP)
			}
		})
	}
}

func TestLogger_MongoSink(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	contractorID := primitive.NewObjectID()
	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Auth: auditlog.DB})

	req := httptest.NewRequest("POST", "/login", nil)
	req.RemoteAddr = "192.168.1.1:12345"
	logger.LoginSuccess(ctx, req, contractorID, "contractor")

	events, err := store.GetByContractor(ctx, contractorID, 10)
	if err != nil {
		t.Fatalf("GetByContractor failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].IP != "192.168.1.1" || events[0].Details["username"] != "contractor" {
		t.Errorf("stored event: %+v", events[0])
	}
}
