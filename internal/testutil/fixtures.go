package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/adarshgram/internal/app/store/docstore"
	"github.com/dalemusser/adarshgram/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Fixtures writes records straight into a document store, bypassing the
// lifecycle manager, so tests can start from a known persisted state.
type Fixtures struct {
	store docstore.Store
	t     *testing.T
	now   time.Time
}

// NewFixtures creates a new Fixtures instance for the given store.
func NewFixtures(t *testing.T, store docstore.Store) *Fixtures {
	t.Helper()
	return &Fixtures{store: store, t: t, now: time.Now().UTC().Truncate(time.Millisecond)}
}

// CreateContractor appends an active contractor with the given username and
// password.
func (f *Fixtures) CreateContractor(ctx context.Context, username, password, specialization string) models.Contractor {
	f.t.Helper()
	c := models.Contractor{
		ID:             primitive.NewObjectID(),
		Username:       username,
		Password:       password,
		Name:           "Test " + username,
		Email:          username + "@example.com",
		Phone:          "+91 9000000000",
		Specialization: specialization,
		Status:         models.ContractorStatusActive,
		RegisteredAt:   f.now,
	}
	appendDoc(ctx, f, docstore.Contractors, c)
	return c
}

// CreateIssue appends a pending issue.
func (f *Fixtures) CreateIssue(ctx context.Context, text, category string, urgency int) models.Issue {
	f.t.Helper()
	is := models.Issue{
		ID:          primitive.NewObjectID(),
		Text:        text,
		Category:    category,
		Sentiment:   models.SentimentNeutral,
		Urgency:     urgency,
		Coordinates: models.Coordinates{Lat: 28.6139, Lng: 77.2090},
		Analysis:    models.Analysis{KeyPhrases: []string{}, Confidence: 0.75, SentimentSource: "lexicon"},
		Status:      models.IssueStatusPending,
		CreatedAt:   f.now,
	}
	appendDoc(ctx, f, docstore.Issues, is)
	return is
}

func appendDoc[T any](ctx context.Context, f *Fixtures, collection string, v T) {
	f.t.Helper()
	existing, err := docstore.ReadAll[T](ctx, f.store, collection)
	if err != nil {
		f.t.Fatalf("read %s: %v", collection, err)
	}
	if err := docstore.WriteAll(ctx, f.store, collection, append(existing, v)); err != nil {
		f.t.Fatalf("write %s: %v", collection, err)
	}
}
