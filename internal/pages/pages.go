// Package pages is a thin CRUD wrapper around a materialized-path tree of
// pages — the out-of-scope collaborator module spec.md §6 summarizes only
// briefly. Ancestry is encoded as a comma-delimited string of ancestor
// IDs (e.g. ",A,B,C,"), so a subtree query is one regex prefix match
// rather than a recursive join the store can't do atomically anyway.
package pages

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"ledger-core/internal/store"
	"ledger-core/internal/store/sequence"
)

const collection = "pages"

// ErrNotFound is returned by Get/Update/Children when the page (or, for
// Children, its parent) doesn't exist. Pages has no stake in the banking
// core's closed error taxonomy, so it keeps its own sentinel.
var ErrNotFound = errors.New("pages: page not found")

// Page is one document in the `pages` collection.
type Page struct {
	ID          int64  `bson:"_id" json:"id"`
	Title       string `bson:"title" json:"title"`
	Description string `bson:"description" json:"description"`
	Path        string `bson:"path" json:"path"`
}

// Service is the page tree's public API: plain CRUD plus Children, the one
// non-trivial query (ancestor-prefix match over Path).
type Service interface {
	Create(ctx context.Context, title, description string, parentID *int64) (*Page, error)
	Get(ctx context.Context, id int64) (*Page, error)
	Update(ctx context.Context, id int64, title, description string) error
	Delete(ctx context.Context, id int64) error
	Children(ctx context.Context, parentID int64) ([]Page, error)
}

type service struct {
	db  store.Store
	ids *sequence.Allocator
}

// New returns a page Service backed by db.
func New(db store.Store, ids *sequence.Allocator) Service {
	return &service{db: db, ids: ids}
}

// Create inserts a page as a root (parentID nil) or as a child of parentID,
// whose Path is extended by its own ID to build the new page's ancestry.
func (s *service) Create(ctx context.Context, title, description string, parentID *int64) (*Page, error) {
	id, err := s.ids.Next(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("pages: allocate id: %w", err)
	}

	path := ","
	if parentID != nil {
		parent, err := s.Get(ctx, *parentID)
		if err != nil {
			return nil, err
		}
		path = fmt.Sprintf("%s%d,", parent.Path, parent.ID)
	}

	page := Page{ID: id, Title: title, Description: description, Path: path}
	if err := s.db.Insert(ctx, collection, page); err != nil {
		return nil, fmt.Errorf("pages: insert: %w", err)
	}
	return &page, nil
}

func (s *service) Get(ctx context.Context, id int64) (*Page, error) {
	var page Page
	err := s.db.FindOne(ctx, collection, store.Eq("_id", id), &page)
	if err == store.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("pages: load %d: %w", id, err)
	}
	return &page, nil
}

func (s *service) Update(ctx context.Context, id int64, title, description string) error {
	matched, err := s.db.Update(ctx, collection, store.Eq("_id", id),
		store.Combine(store.Set("title", title), store.Set("description", description)))
	if err != nil {
		return fmt.Errorf("pages: update %d: %w", id, err)
	}
	if matched == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.db.Delete(ctx, collection, store.Eq("_id", id)); err != nil {
		return fmt.Errorf("pages: delete %d: %w", id, err)
	}
	return nil
}

// Children returns every page whose Path ends in exactly ",<parentID>,",
// i.e. whose immediate parent is parentID, ordered by (path, title) so
// siblings group together and sort predictably within a sibling group.
func (s *service) Children(ctx context.Context, parentID int64) ([]Page, error) {
	parent, err := s.Get(ctx, parentID)
	if err != nil {
		return nil, err
	}
	pattern := fmt.Sprintf("^%s%d,$", regexp.QuoteMeta(parent.Path), parentID)

	cur, err := s.db.FindCursor(ctx, collection, store.Regex("path", pattern), store.Sort("path", false))
	if err != nil {
		return nil, fmt.Errorf("pages: find children of %d: %w", parentID, err)
	}
	defer cur.Close(ctx)

	var children []Page
	for cur.Next(ctx) {
		var p Page
		if err := cur.Decode(&p); err != nil {
			return nil, fmt.Errorf("pages: decode page: %w", err)
		}
		children = append(children, p)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("pages: iterate children of %d: %w", parentID, err)
	}

	sortByPathThenTitle(children)
	return children, nil
}

// sortByPathThenTitle breaks path ties by title — the store's sort only
// orders by path, so pages at the same path (true siblings) still need a
// secondary ordering.
func sortByPathThenTitle(pages []Page) {
	for i := 1; i < len(pages); i++ {
		for j := i; j > 0 && less(pages[j], pages[j-1]); j-- {
			pages[j], pages[j-1] = pages[j-1], pages[j]
		}
	}
}

func less(a, b Page) bool {
	if a.Path != b.Path {
		return a.Path < b.Path
	}
	return a.Title < b.Title
}
