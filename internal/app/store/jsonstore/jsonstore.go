// Package jsonstore is a docstore.Store kept in memory as canonical Extended
// JSON, optionally mirrored to one <collection>.json file per collection.
package jsonstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/dalemusser/adarshgram/internal/app/store/docstore"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Store is safe for concurrent use.
type Store struct {
	mu    sync.Mutex
	dir   string // empty: memory only
	data  map[string][]byte
	fault func(collection string) error
	log   *zap.Logger
}

var _ docstore.Store = (*Store)(nil)

// NewMemory returns a store that keeps nothing on disk.
func NewMemory(logger *zap.Logger) *Store {
	return &Store{data: make(map[string][]byte), log: logger}
}

// Open returns a store mirrored to dir, loading any collection files that
// already exist there.
func Open(dir string, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("jsonstore: create %s: %w", dir, err)
	}
	s := &Store{dir: dir, data: make(map[string][]byte), log: logger}
	for _, coll := range docstore.Collections {
		b, err := os.ReadFile(s.path(coll))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("jsonstore: read %s: %w", coll, err)
		}
		if _, err := decode(b); err != nil {
			return nil, fmt.Errorf("jsonstore: %s: %w", coll, err)
		}
		s.data[coll] = b
	}
	logger.Info("json document store opened", zap.String("dir", dir), zap.Int("collections", len(s.data)))
	return s, nil
}

// InjectFault makes every subsequent Write consult fn first; a non-nil
// result fails the write without changing anything. Pass nil to clear.
func (s *Store) InjectFault(fn func(collection string) error) {
	s.mu.Lock()
	s.fault = fn
	s.mu.Unlock()
}

// Read implements docstore.Store.
func (s *Store) Read(ctx context.Context, collection string) ([]bson.Raw, error) {
	if err := docstore.CheckCollection(collection); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	b := s.data[collection]
	s.mu.Unlock()
	if len(b) == 0 {
		return []bson.Raw{}, nil
	}
	return decode(b)
}

// Write implements docstore.Store.
func (s *Store) Write(ctx context.Context, collection string, docs []any) error {
	if err := docstore.CheckCollection(collection); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := encode(docs)
	if err != nil {
		return fmt.Errorf("jsonstore: encode %s: %w", collection, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fault != nil {
		if err := s.fault(collection); err != nil {
			return err
		}
	}
	if s.dir != "" {
		if err := writeFileAtomic(s.path(collection), b); err != nil {
			return fmt.Errorf("jsonstore: write %s: %w", collection, err)
		}
	}
	s.data[collection] = b
	return nil
}

// Ping implements docstore.Store.
func (s *Store) Ping(ctx context.Context) error {
	if s.dir == "" {
		return ctx.Err()
	}
	_, err := os.Stat(s.dir)
	return err
}

// Close implements docstore.Store.
func (s *Store) Close(ctx context.Context) error { return nil }

// Raw returns the stored JSON text of a collection.
func (s *Store) Raw(collection string) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.data[collection]...)
}

func (s *Store) path(collection string) string {
	return filepath.Join(s.dir, collection+".json")
}

/* ------------------------------ encoding ------------------------------ */

type entry struct {
	id  primitive.ObjectID
	raw bson.Raw
}

// encode renders docs as a JSON array of canonical Extended JSON objects
// ordered by _id.
func encode(docs []any) ([]byte, error) {
	entries := make([]entry, 0, len(docs))
	for i, d := range docs {
		raw, err := bson.Marshal(d)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		e := entry{raw: raw}
		if oid, ok := bson.Raw(raw).Lookup("_id").ObjectIDOK(); ok {
			e.id = oid
		}
		entries = append(entries, e)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return bytes.Compare(entries[i].id[:], entries[j].id[:]) < 0
	})

	var buf bytes.Buffer
	buf.WriteString("[")
	for i, e := range entries {
		js, err := bson.MarshalExtJSON(e.raw, true, false)
		if err != nil {
			return nil, err
		}
		if i > 0 {
			buf.WriteString(",")
		}
		buf.WriteString("\n  ")
		buf.Write(js)
	}
	if len(entries) > 0 {
		buf.WriteString("\n")
	}
	buf.WriteString("]\n")
	return buf.Bytes(), nil
}

func decode(b []byte) ([]bson.Raw, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(b, &elems); err != nil {
		return nil, fmt.Errorf("decode array: %w", err)
	}
	out := make([]bson.Raw, 0, len(elems))
	for i, el := range elems {
		var d bson.D
		if err := bson.UnmarshalExtJSON(el, true, &d); err != nil {
			return nil, fmt.Errorf("decode document %d: %w", i, err)
		}
		raw, err := bson.Marshal(d)
		if err != nil {
			return nil, fmt.Errorf("re-encode document %d: %w", i, err)
		}
		out = append(out, raw)
	}
	return out, nil
}

func writeFileAtomic(path string, b []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
