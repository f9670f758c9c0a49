package testutil

import (
	"math/rand"
	"testing"

	"github.com/dalemusser/adarshgram/internal/app/lifecycle"
	"github.com/dalemusser/adarshgram/internal/app/store/docstore"
	"github.com/dalemusser/adarshgram/internal/app/store/jsonstore"
	"github.com/dalemusser/adarshgram/internal/app/triage"
	"github.com/dalemusser/adarshgram/internal/domain/models"
	"go.uber.org/zap"
)

// NewManager opens a lifecycle manager over an in-memory store with the demo
// contractor seeded and lexicon-only triage.
func NewManager(t *testing.T, opts lifecycle.Options) (*lifecycle.Manager, *jsonstore.Store) {
	t.Helper()
	store := jsonstore.NewMemory(zap.NewNop())
	return OpenManager(t, store, opts), store
}

// OpenManager opens a lifecycle manager over store, which may already hold
// fixtures. The demo contractor is seeded only into an empty contractors
// collection.
func OpenManager(t *testing.T, store docstore.Store, opts lifecycle.Options) *lifecycle.Manager {
	t.Helper()
	ctx, cancel := TestContext()
	defer cancel()

	pipeline := triage.New(triage.Options{Rand: rand.New(rand.NewSource(1))}, zap.NewNop())
	opts.SeedDemoContractor = true

	m, err := lifecycle.Open(ctx, store, pipeline, opts, zap.NewNop())
	if err != nil {
		t.Fatalf("lifecycle.Open: %v", err)
	}
	return m
}

// DemoContractor returns the seeded demo contractor of m.
func DemoContractor(t *testing.T, m *lifecycle.Manager) models.Contractor {
	t.Helper()
	for _, c := range m.Contractors() {
		if c.Username == lifecycle.DemoUsername {
			return c
		}
	}
	t.Fatalf("demo contractor %q not seeded", lifecycle.DemoUsername)
	return models.Contractor{}
}
