// Package mongostore is the production implementation of store.Store,
// backed by the official MongoDB driver. It is the only package in this
// repository that imports go.mongodb.org/mongo-driver/bson — every other
// package talks to the typed store.Filter / store.Mutation descriptors.
package mongostore

import (
	"context"
	"fmt"

	"ledger-core/internal/store"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

// Store wraps a *mongo.Database with journaled write concern, so a
// successful call is durable across a process crash (spec §4.1/§5).
type Store struct {
	db *mongo.Database
}

// New connects to uri and returns a Store bound to database dbName.
func New(ctx context.Context, uri, dbName string) (*Store, error) {
	wc := writeconcern.Majority()
	wc.Journal = boolPtr(true)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetWriteConcern(wc))
	if err != nil {
		return nil, fmt.Errorf("mongostore: connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongostore: ping: %w", err)
	}
	return &Store{db: client.Database(dbName)}, nil
}

// NewFromClient wraps an already-connected client.
func NewFromClient(client *mongo.Client, dbName string) *Store {
	return &Store{db: client.Database(dbName)}
}

func (s *Store) Client() *mongo.Client { return s.db.Client() }

func (s *Store) Disconnect(ctx context.Context) error { return s.db.Client().Disconnect(ctx) }

func (s *Store) Insert(ctx context.Context, collection string, doc any) error {
	if _, err := s.db.Collection(collection).InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("mongostore: insert into %s: %w", collection, err)
	}
	return nil
}

func (s *Store) FindOne(ctx context.Context, collection string, filter store.Filter, out any) error {
	err := s.db.Collection(collection).FindOne(ctx, toBSON(filter)).Decode(out)
	if err == mongo.ErrNoDocuments {
		return store.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("mongostore: findOne in %s: %w", collection, err)
	}
	return nil
}

func (s *Store) FindCursor(ctx context.Context, collection string, filter store.Filter, opts ...store.FindOption) (store.Cursor, error) {
	sortField, sortDesc, limit := store.ResolveFindOptions(opts)

	findOpts := options.Find()
	if sortField != "" {
		dir := 1
		if sortDesc {
			dir = -1
		}
		findOpts.SetSort(bson.D{{Key: sortField, Value: dir}})
	}
	if limit > 0 {
		findOpts.SetLimit(limit)
	}

	cur, err := s.db.Collection(collection).Find(ctx, toBSON(filter), findOpts)
	if err != nil {
		return nil, fmt.Errorf("mongostore: find in %s: %w", collection, err)
	}
	return &cursor{cur: cur}, nil
}

func (s *Store) Update(ctx context.Context, collection string, filter store.Filter, mutation store.Mutation) (int64, error) {
	res, err := s.db.Collection(collection).UpdateOne(ctx, toBSON(filter), toUpdateBSON(mutation))
	if err != nil {
		return 0, fmt.Errorf("mongostore: update in %s: %w", collection, err)
	}
	return res.MatchedCount, nil
}

func (s *Store) UpdateMany(ctx context.Context, collection string, filter store.Filter, mutation store.Mutation) (int64, error) {
	res, err := s.db.Collection(collection).UpdateMany(ctx, toBSON(filter), toUpdateBSON(mutation))
	if err != nil {
		return 0, fmt.Errorf("mongostore: updateMany in %s: %w", collection, err)
	}
	return res.MatchedCount, nil
}

func (s *Store) Delete(ctx context.Context, collection string, filter store.Filter) error {
	if _, err := s.db.Collection(collection).DeleteMany(ctx, toBSON(filter)); err != nil {
		return fmt.Errorf("mongostore: delete from %s: %w", collection, err)
	}
	return nil
}

type cursor struct {
	cur *mongo.Cursor
}

func (c *cursor) Next(ctx context.Context) bool   { return c.cur.Next(ctx) }
func (c *cursor) Decode(out any) error            { return c.cur.Decode(out) }
func (c *cursor) Err() error                      { return c.cur.Err() }
func (c *cursor) Close(ctx context.Context) error { return c.cur.Close(ctx) }

func boolPtr(b bool) *bool { return &b }
