// Package memstore is an in-memory store.Store used by fast unit tests
// that don't need a live MongoDB instance, generalizing the teacher's
// src/diplomat/database/inmemory.go single-collection map into the
// multi-collection, filter-driven shape the 2PC protocol needs.
//
// Documents are kept as reflected field maps (keyed by `bson` struct tag)
// rather than as the original typed values, so FindOne/FindCursor/Update
// round-trip through the same representation mongostore would produce.
package memstore

import (
	"context"
	"sync"
	"time"

	"ledger-core/internal/store"
)

type doc map[string]any

// Store is a process-local, mutex-guarded document store.
type Store struct {
	mu          sync.Mutex
	collections map[string][]doc
	seq         int64 // insertion sequence, stamped on each document as __seq
}

// New returns an empty Store.
func New() *Store {
	return &Store{collections: make(map[string][]doc)}
}

func (s *Store) Insert(_ context.Context, collection string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := toDoc(value)
	d["__seq"] = s.seq
	s.seq++
	s.collections[collection] = append(s.collections[collection], d)
	return nil
}

func (s *Store) FindOne(_ context.Context, collection string, filter store.Filter, out any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.collections[collection] {
		if match(d, filter) {
			fromDoc(d, out)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) FindCursor(_ context.Context, collection string, filter store.Filter, opts ...store.FindOption) (store.Cursor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sortField, sortDesc, limit := store.ResolveFindOptions(opts)

	var matched []doc
	for _, d := range s.collections[collection] {
		if match(d, filter) {
			matched = append(matched, cloneDoc(d))
		}
	}

	if sortField != "" {
		sortDocs(matched, sortField, sortDesc)
	}
	if limit > 0 && int64(len(matched)) > limit {
		matched = matched[:limit]
	}

	return &cursor{docs: matched, pos: -1}, nil
}

func (s *Store) Update(_ context.Context, collection string, filter store.Filter, mutation store.Mutation) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, d := range s.collections[collection] {
		if match(d, filter) {
			s.collections[collection][i] = mutate(d, mutation)
			return 1, nil
		}
	}
	return 0, nil
}

func (s *Store) UpdateMany(_ context.Context, collection string, filter store.Filter, mutation store.Mutation) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var matched int64
	for i, d := range s.collections[collection] {
		if match(d, filter) {
			s.collections[collection][i] = mutate(d, mutation)
			matched++
		}
	}
	return matched, nil
}

func (s *Store) Delete(_ context.Context, collection string, filter store.Filter) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.collections[collection][:0]
	for _, d := range s.collections[collection] {
		if !match(d, filter) {
			kept = append(kept, d)
		}
	}
	s.collections[collection] = kept
	return nil
}

// Reset empties every collection, mirroring the core's Reset operation at
// the storage layer for test setup/teardown.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections = make(map[string][]doc)
}

type cursor struct {
	docs []doc
	pos  int
}

func (c *cursor) Next(context.Context) bool {
	c.pos++
	return c.pos < len(c.docs)
}

func (c *cursor) Decode(out any) error {
	fromDoc(c.docs[c.pos], out)
	return nil
}

func (c *cursor) Err() error                      { return nil }
func (c *cursor) Close(context.Context) error     { return nil }

func sortDocs(docs []doc, field string, desc bool) {
	less := func(i, j int) bool {
		return lessValue(docs[i][field], docs[j][field])
	}
	if desc {
		orig := less
		less = func(i, j int) bool { return orig(j, i) }
	}
	insertionSort(docs, less)
}

// insertionSort avoids pulling in sort.Slice's reflection machinery for a
// handful of documents — the sweepers and allocator never scan more than a
// small working set.
func insertionSort(docs []doc, less func(i, j int) bool) {
	for i := 1; i < len(docs); i++ {
		for j := i; j > 0 && less(j, j-1); j-- {
			docs[j], docs[j-1] = docs[j-1], docs[j]
		}
	}
}

func lessValue(a, b any) bool {
	switch av := a.(type) {
	case int64:
		bv, _ := b.(int64)
		return av < bv
	case time.Time:
		bv, _ := b.(time.Time)
		return av.Before(bv)
	case string:
		bv, _ := b.(string)
		return av < bv
	default:
		return false
	}
}
