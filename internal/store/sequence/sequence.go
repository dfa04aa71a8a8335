// Package sequence mints monotonically increasing integer IDs for accounts
// and transactions, generalizing the teacher's Postgres SERIAL-backed ID
// path into a find-sort-desc-limit-1 query over the document store.
package sequence

import (
	"context"
	"fmt"
	"sync"

	"ledger-core/internal/pkg/telemetry"
	"ledger-core/internal/store"
)

// Allocator hands out the next integer ID for a collection. ID allocation
// is serialized by one process-wide mutex shared across every collection,
// matching spec.md §4.2: cross-process uniqueness is explicitly not
// guaranteed.
type Allocator struct {
	db store.Store
	mu sync.Mutex
}

// New returns an Allocator backed by db.
func New(db store.Store) *Allocator {
	return &Allocator{db: db}
}

type idDoc struct {
	ID int64 `bson:"_id"`
}

// Next returns max(_id)+1 over collection, or 1 if it's empty.
func (a *Allocator) Next(ctx context.Context, collection string) (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	cur, err := a.db.FindCursor(ctx, collection, nil, store.Sort("_id", true), store.Limit(1))
	if err != nil {
		return 0, fmt.Errorf("sequence: find max id in %s: %w", collection, err)
	}
	defer cur.Close(ctx)

	telemetry.RecordSequenceAllocation(collection)

	if !cur.Next(ctx) {
		return 1, nil
	}
	var doc idDoc
	if err := cur.Decode(&doc); err != nil {
		return 0, fmt.Errorf("sequence: decode max id in %s: %w", collection, err)
	}
	return doc.ID + 1, nil
}
