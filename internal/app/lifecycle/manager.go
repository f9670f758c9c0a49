// Package lifecycle owns every Issue, Project and Contractor and all of their
// state transitions.
//
// The Manager keeps the three collections in memory and mirrors them to a
// docstore.Store. A mutation builds the next version of the collections it
// touches, writes those snapshots, and only then swaps them in. If a write
// fails the collections already rewritten are put back and the caller gets
// apperr.ErrPersistence, so memory never diverges from the store.
package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dalemusser/adarshgram/internal/app/store/docstore"
	"github.com/dalemusser/adarshgram/internal/app/system/metrics"
	"github.com/dalemusser/adarshgram/internal/app/triage"
	"github.com/dalemusser/adarshgram/internal/domain/apperr"
	"github.com/dalemusser/adarshgram/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Triager turns a report into a pending issue. *triage.Pipeline satisfies it.
type Triager interface {
	Triage(ctx context.Context, r triage.Report) (models.Issue, error)
}

// PhotoSaver stores a report photo and returns its reference, and removes
// it again when the report cannot be kept. *photos.Store satisfies it.
type PhotoSaver interface {
	Save(ctx context.Context, filename, contentType string, data []byte) (string, error)
	Remove(ctx context.Context, ref string) error
}

// Options configures a Manager.
type Options struct {
	// Photos stores report photos. Nil drops them.
	Photos PhotoSaver

	// SeedDemoContractor adds the demo contractor when the contractors
	// collection is empty.
	SeedDemoContractor bool

	// Now returns the current time. Defaults to UTC now at millisecond
	// precision.
	Now func() time.Time
}

// Session identifies the signed-in contractor. The zero Session means
// nobody is signed in.
type Session struct {
	ContractorID   primitive.ObjectID
	Username       string
	Name           string
	Specialization string
}

// SignedIn reports whether s carries a contractor.
func (s Session) SignedIn() bool {
	return !s.ContractorID.IsZero()
}

// Demo contractor seeded into an empty store.
const (
	DemoUsername = "contractor"
	DemoPassword = "admin123"
)

// Manager is safe for concurrent use. Records it returns are copies; slices
// inside them are shared and must not be modified.
type Manager struct {
	store   docstore.Store
	triager Triager
	photos  PhotoSaver
	now     func() time.Time
	log     *zap.Logger

	mu sync.Mutex
	st state
}

// state is one consistent version of the three collections, each ordered by
// creation.
type state struct {
	issues      []models.Issue
	projects    []models.Project
	contractors []models.Contractor
}

// Open loads the collections from store and returns a ready Manager.
func Open(ctx context.Context, store docstore.Store, triager Triager, opts Options, logger *zap.Logger) (*Manager, error) {
	m := &Manager{
		store:   store,
		triager: triager,
		photos:  opts.Photos,
		now:     opts.Now,
		log:     logger,
	}
	if m.now == nil {
		m.now = func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) }
	}

	var st state
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		st.issues, err = docstore.ReadAll[models.Issue](gctx, store, docstore.Issues)
		return err
	})
	g.Go(func() (err error) {
		st.projects, err = docstore.ReadAll[models.Project](gctx, store, docstore.Projects)
		return err
	})
	g.Go(func() (err error) {
		st.contractors, err = docstore.ReadAll[models.Contractor](gctx, store, docstore.Contractors)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load collections: %w", err)
	}
	m.st = st

	logger.Info("lifecycle state loaded",
		zap.Int("issues", len(st.issues)),
		zap.Int("projects", len(st.projects)),
		zap.Int("contractors", len(st.contractors)))

	if opts.SeedDemoContractor && len(st.contractors) == 0 {
		if err := m.seedDemoContractor(ctx); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// seedDemoContractor adds the demo account.
func (m *Manager) seedDemoContractor(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := models.Contractor{
		ID:             primitive.NewObjectID(),
		Username:       DemoUsername,
		Password:       DemoPassword,
		Name:           "Raj Construction",
		Email:          "raj.construction@example.com",
		Phone:          "+91 9876543210",
		Specialization: models.CategoryRoads,
		Status:         models.ContractorStatusActive,
		RegisteredAt:   m.now(),
	}
	next := m.st
	next.contractors = appendCopy(m.st.contractors, c)
	if err := m.commit(ctx, next, docstore.Contractors); err != nil {
		return err
	}
	m.log.Info("demo contractor seeded", zap.String("username", c.Username))
	return nil
}

// commit writes the named collections of next and, when every write
// succeeds, makes next the current state. Callers hold m.mu.
func (m *Manager) commit(ctx context.Context, next state, collections ...string) error {
	written := make([]string, 0, len(collections))
	for _, coll := range collections {
		if err := next.write(ctx, m.store, coll); err != nil {
			metrics.StoreWriteFailures.WithLabelValues(coll).Inc()
			m.log.Error("snapshot write failed, restoring previous state",
				zap.String("collection", coll),
				zap.Strings("restoring", written),
				zap.Error(err))
			m.restore(ctx, written)
			return fmt.Errorf("%w: write %s: %w", apperr.ErrPersistence, coll, err)
		}
		written = append(written, coll)
	}
	m.st = next
	return nil
}

// restore writes the current in-memory version of collections back to the
// store.
func (m *Manager) restore(ctx context.Context, collections []string) {
	ctx = context.WithoutCancel(ctx)
	for _, coll := range collections {
		if err := m.st.write(ctx, m.store, coll); err != nil {
			metrics.StoreWriteFailures.WithLabelValues(coll).Inc()
			m.log.Error("restore failed, store no longer matches memory",
				zap.String("collection", coll),
				zap.Error(err))
		}
	}
}

func (s state) write(ctx context.Context, store docstore.Store, collection string) error {
	switch collection {
	case docstore.Issues:
		return docstore.WriteAll(ctx, store, collection, s.issues)
	case docstore.Projects:
		return docstore.WriteAll(ctx, store, collection, s.projects)
	case docstore.Contractors:
		return docstore.WriteAll(ctx, store, collection, s.contractors)
	default:
		return docstore.CheckCollection(collection)
	}
}

// appendCopy returns a new slice holding s followed by v; s is untouched.
func appendCopy[T any](s []T, v T) []T {
	out := make([]T, len(s), len(s)+1)
	copy(out, s)
	return append(out, v)
}

// replaceAt returns a copy of s with index i set to v.
func replaceAt[T any](s []T, i int, v T) []T {
	out := make([]T, len(s))
	copy(out, s)
	out[i] = v
	return out
}

func indexByID[T any](s []T, id primitive.ObjectID, idOf func(*T) primitive.ObjectID) int {
	for i := range s {
		if idOf(&s[i]) == id {
			return i
		}
	}
	return -1
}

func (s state) issueIndex(id primitive.ObjectID) int {
	return indexByID(s.issues, id, func(is *models.Issue) primitive.ObjectID { return is.ID })
}

func (s state) projectIndex(id primitive.ObjectID) int {
	return indexByID(s.projects, id, func(p *models.Project) primitive.ObjectID { return p.ID })
}

func (s state) contractorIndex(id primitive.ObjectID) int {
	return indexByID(s.contractors, id, func(c *models.Contractor) primitive.ObjectID { return c.ID })
}
