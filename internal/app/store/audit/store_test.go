package audit_test

import (
	"testing"
	"time"

	"github.com/dalemusser/adarshgram/internal/app/store/audit"
	"github.com/dalemusser/adarshgram/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_Log(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	contractorID := primitive.NewObjectID()
	event := audit.Event{
		Category:     audit.CategoryAuth,
		EventType:    audit.EventLoginSuccess,
		ContractorID: &contractorID,
		IP:           "192.168.1.1",
		UserAgent:    "TestBrowser/1.0",
		Success:      true,
	}

	if err := store.Log(ctx, event); err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	events, err := store.GetByContractor(ctx, contractorID, 10)
	if err != nil {
		t.Fatalf("GetByContractor failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if events[0].ID.IsZero() {
		t.Error("expected generated ID")
	}
	if events[0].Timestamp.IsZero() {
		t.Error("expected generated timestamp")
	}
}

func TestStore_GetByProject(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	projectID := primitive.NewObjectID()
	other := primitive.NewObjectID()
	base := time.Now().UTC()

	for i, pid := range []primitive.ObjectID{projectID, projectID, other} {
		p := pid
		err := store.Log(ctx, audit.Event{
			Timestamp: base.Add(time.Duration(i) * time.Second),
			Category:  audit.CategoryLifecycle,
			EventType: audit.EventProgressUpdated,
			ProjectID: &p,
			Success:   true,
			Details:   map[string]string{"progress": "50"},
		})
		if err != nil {
			t.Fatalf("Log failed: %v", err)
		}
	}

	events, err := store.GetByProject(ctx, projectID, 10)
	if err != nil {
		t.Fatalf("GetByProject failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if !events[0].Timestamp.After(events[1].Timestamp) {
		t.Error("expected newest first")
	}
	if events[0].Details["progress"] != "50" {
		t.Errorf("details lost: %v", events[0].Details)
	}
}

func TestStore_Query_ByCategoryAndType(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	events := []audit.Event{
		{Category: audit.CategoryAuth, EventType: audit.EventLoginSuccess, Success: true},
		{Category: audit.CategoryAuth, EventType: audit.EventLoginFailedWrongPassword, FailureReason: "wrong password"},
		{Category: audit.CategoryLifecycle, EventType: audit.EventIssueAssigned, Success: true},
	}
	for _, e := range events {
		if err := store.Log(ctx, e); err != nil {
			t.Fatalf("Log failed: %v", err)
		}
	}

	auth, err := store.Query(ctx, audit.QueryFilter{Category: audit.CategoryAuth})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(auth) != 2 {
		t.Errorf("expected 2 auth events, got %d", len(auth))
	}

	failed, err := store.Query(ctx, audit.QueryFilter{EventType: audit.EventLoginFailedWrongPassword})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(failed) != 1 || failed[0].Success {
		t.Errorf("expected one failed login, got %+v", failed)
	}

	future := time.Now().Add(time.Hour)
	none, err := store.Query(ctx, audit.QueryFilter{Since: &future})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no events after now+1h, got %d", len(none))
	}
}

func TestStore_EnsureIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes failed: %v", err)
	}
	// idempotent
	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("second EnsureIndexes failed: %v", err)
	}
}
