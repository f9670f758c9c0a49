// Package docstore defines the document store the lifecycle manager
// persists to: named collections whose contents are read whole and
// rewritten whole.
package docstore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

// Collection names.
const (
	Issues      = "issues"
	Projects    = "projects"
	Contractors = "contractors"
)

// Collections lists every collection the store must serve.
var Collections = []string{Issues, Projects, Contractors}

// ErrUnknownCollection is returned for a collection not in Collections.
var ErrUnknownCollection = errors.New("docstore: unknown collection")

// Store is a key-value document store keyed by collection name.
//
// Read returns the collection's documents ordered by _id; an empty or
// never-written collection yields an empty slice. Write replaces the whole
// collection with docs. A failed Write may leave the collection in any
// state; callers restore it by writing the previous contents again.
type Store interface {
	Read(ctx context.Context, collection string) ([]bson.Raw, error)
	Write(ctx context.Context, collection string, docs []any) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// CheckCollection returns ErrUnknownCollection for names outside Collections.
func CheckCollection(name string) error {
	for _, c := range Collections {
		if c == name {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownCollection, name)
}

// ReadAll decodes every document of collection into T.
func ReadAll[T any](ctx context.Context, s Store, collection string) ([]T, error) {
	raws, err := s.Read(ctx, collection)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(raws))
	for i, raw := range raws {
		var v T
		if err := bson.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("docstore: decode %s[%d]: %w", collection, i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// WriteAll replaces collection with items.
func WriteAll[T any](ctx context.Context, s Store, collection string, items []T) error {
	docs := make([]any, len(items))
	for i := range items {
		docs[i] = items[i]
	}
	return s.Write(ctx, collection, docs)
}
