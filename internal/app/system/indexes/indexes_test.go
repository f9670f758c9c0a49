package indexes_test

import (
	"testing"

	"github.com/dalemusser/adarshgram/internal/app/system/indexes"
	"github.com/dalemusser/adarshgram/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("First EnsureAll failed: %v", err)
	}
	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("Second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	expected := map[string][]string{
		"contractors": {"uniq_contractors_username", "idx_contractors_specialization_status"},
		"issues":      {"idx_issues_status_urgency", "idx_issues_category_created"},
		"projects":    {"uniq_projects_source_issue", "idx_projects_contractor_status"},
	}
	for coll, names := range expected {
		cur, err := db.Collection(coll).Indexes().List(ctx)
		if err != nil {
			t.Fatalf("List indexes on %s failed: %v", coll, err)
		}
		found := map[string]bool{}
		for cur.Next(ctx) {
			var idx bson.M
			if err := cur.Decode(&idx); err != nil {
				t.Fatalf("decode index: %v", err)
			}
			if name, ok := idx["name"].(string); ok {
				found[name] = true
			}
		}
		cur.Close(ctx)
		for _, name := range names {
			if !found[name] {
				t.Errorf("expected index %q on %s", name, coll)
			}
		}
	}
}

func TestEnsureAll_ReplacesIndexWithWrongOptions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// a non-unique index on the same key under another name
	_, err := db.Collection("contractors").Indexes().CreateOne(ctx, mongoIndex("username_1_old"))
	if err != nil {
		t.Fatalf("create old index: %v", err)
	}

	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	_, err = db.Collection("contractors").InsertOne(ctx, bson.M{"_id": primitive.NewObjectID(), "username": "contractor"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	_, err = db.Collection("contractors").InsertOne(ctx, bson.M{"_id": primitive.NewObjectID(), "username": "contractor"})
	if err == nil {
		t.Error("expected duplicate key error for unique index on contractors.username")
	}
}

func TestEnsureAll_OneProjectPerIssue(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db, zap.NewNop()); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	issueID := primitive.NewObjectID()
	if _, err := db.Collection("projects").InsertOne(ctx, bson.M{"source_issue_id": issueID}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if _, err := db.Collection("projects").InsertOne(ctx, bson.M{"source_issue_id": issueID}); err == nil {
		t.Error("expected duplicate key error for a second project on the same issue")
	}
}

func mongoIndex(name string) mongo.IndexModel {
	return mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetName(name),
	}
}
