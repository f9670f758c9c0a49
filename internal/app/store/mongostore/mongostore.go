// Package mongostore is the MongoDB docstore.Store. Each collection maps to a
// MongoDB collection of the same name; Write swaps the contents inside a
// transaction where the deployment supports one.
package mongostore

import (
	"context"
	"fmt"

	"github.com/dalemusser/adarshgram/internal/app/store/docstore"
	"github.com/dalemusser/adarshgram/internal/app/system/txn"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Store keeps each collection in the MongoDB collection of the same name.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	log    *zap.Logger
}

var _ docstore.Store = (*Store)(nil)

// New creates a Store over db. client starts the sessions used for
// transactions and is disconnected by Close.
func New(client *mongo.Client, db *mongo.Database, logger *zap.Logger) *Store {
	return &Store{client: client, db: db, log: logger}
}

// Read implements docstore.Store.
func (s *Store) Read(ctx context.Context, collection string) ([]bson.Raw, error) {
	if err := docstore.CheckCollection(collection); err != nil {
		return nil, err
	}
	cur, err := s.db.Collection(collection).Find(ctx, bson.D{},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("mongostore: find %s: %w", collection, err)
	}
	defer cur.Close(ctx)

	out := []bson.Raw{}
	for cur.Next(ctx) {
		out = append(out, append(bson.Raw(nil), cur.Current...))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("mongostore: iterate %s: %w", collection, err)
	}
	return out, nil
}

// Write implements docstore.Store.
func (s *Store) Write(ctx context.Context, collection string, docs []any) error {
	if err := docstore.CheckCollection(collection); err != nil {
		return err
	}
	c := s.db.Collection(collection)
	err := txn.Run(ctx, s.client, s.log, func(ctx context.Context) error {
		if _, err := c.DeleteMany(ctx, bson.D{}); err != nil {
			return err
		}
		if len(docs) == 0 {
			return nil
		}
		_, err := c.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true))
		return err
	})
	if err != nil {
		if wafflemongo.IsDup(err) {
			s.log.Warn("snapshot rejected by a unique index", zap.String("collection", collection))
		}
		return fmt.Errorf("mongostore: write %s: %w", collection, err)
	}
	return nil
}

// Ping implements docstore.Store.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close implements docstore.Store.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
