// Package store abstracts the document store the transactional core is
// built on: insert, findOne, a lazy find cursor, a conditional
// single-document update that reports how many documents matched, and
// delete. Domain code talks only to this interface and the typed Filter/
// Mutation descriptors below — never to the underlying driver's document
// type — so the idempotence properties of the transfer and recovery state
// machines are checked by the compiler, not by convention.
package store

import "context"

// Store is the capability the rest of the core depends on. Collections are
// named by string (the store has exactly two: "accounts" and
// "transactions", plus "pages" for the tree-of-pages module).
type Store interface {
	// Insert returns a non-nil error on any store failure; the domain
	// services wrap it as DB_ERROR.
	Insert(ctx context.Context, collection string, doc any) error

	// FindOne decodes the first matching document into out. It returns
	// ErrNotFound if no document matches.
	FindOne(ctx context.Context, collection string, filter Filter, out any) error

	// FindCursor returns a lazy, finite, forward-only sequence of matching
	// documents. Callers must Close the cursor.
	FindCursor(ctx context.Context, collection string, filter Filter, opts ...FindOption) (Cursor, error)

	// Update applies mutation to at most one document matching filter and
	// returns the number of documents matched (0 or 1). The matched count,
	// not just the error, is load-bearing: 0 means "filter did not match,
	// this call was a no-op", which is how every step of the transfer and
	// recovery protocols stays idempotent under replay.
	Update(ctx context.Context, collection string, filter Filter, mutation Mutation) (matched int64, err error)

	// UpdateMany applies mutation to every document matching filter and
	// returns the number of documents matched. Used by the bulk
	// pending->canceling transition in the cancellation sweep.
	UpdateMany(ctx context.Context, collection string, filter Filter, mutation Mutation) (matched int64, err error)

	// Delete removes every document matching filter.
	Delete(ctx context.Context, collection string, filter Filter) error
}

// Cursor iterates a FindCursor result.
type Cursor interface {
	Next(ctx context.Context) bool
	Decode(out any) error
	Err() error
	Close(ctx context.Context) error
}

// FindOption customizes a FindCursor call.
type FindOption func(*findOptions)

type findOptions struct {
	sortField string
	sortDesc  bool
	limit     int64
}

// Sort orders results by field, ascending unless desc is true.
func Sort(field string, desc bool) FindOption {
	return func(o *findOptions) { o.sortField, o.sortDesc = field, desc }
}

// Limit caps the number of documents returned.
func Limit(n int64) FindOption {
	return func(o *findOptions) { o.limit = n }
}

// ResolveFindOptions applies opts to a fresh findOptions — exported for
// store implementations outside this package (e.g. mongostore).
func ResolveFindOptions(opts []FindOption) (sortField string, sortDesc bool, limit int64) {
	var o findOptions
	for _, apply := range opts {
		apply(&o)
	}
	return o.sortField, o.sortDesc, o.limit
}

// ErrNotFound is returned by FindOne when no document matches the filter.
var ErrNotFound = notFoundError{}

type notFoundError struct{}

func (notFoundError) Error() string { return "store: no document matches filter" }
