package pages_test

import (
	"context"
	"testing"

	"ledger-core/internal/pages"
	"ledger-core/internal/store/memstore"
	"ledger-core/internal/store/sequence"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService() pages.Service {
	db := memstore.New()
	return pages.New(db, sequence.New(db))
}

func TestCreateRootPage(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	root, err := svc.Create(ctx, "Docs", "root of the docs tree", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), root.ID)
	assert.Equal(t, ",", root.Path)
}

func TestChildrenOfRoot(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	root, err := svc.Create(ctx, "Docs", "", nil)
	require.NoError(t, err)

	a, err := svc.Create(ctx, "Guides", "", &root.ID)
	require.NoError(t, err)
	b, err := svc.Create(ctx, "API", "", &root.ID)
	require.NoError(t, err)

	children, err := svc.Children(ctx, root.ID)
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, "API", children[0].Title)
	assert.Equal(t, "Guides", children[1].Title)
	assert.Equal(t, a.Path, b.Path)
}

func TestChildrenDoesNotReturnGrandchildren(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	root, err := svc.Create(ctx, "Docs", "", nil)
	require.NoError(t, err)
	child, err := svc.Create(ctx, "Guides", "", &root.ID)
	require.NoError(t, err)
	_, err = svc.Create(ctx, "Getting Started", "", &child.ID)
	require.NoError(t, err)

	children, err := svc.Children(ctx, root.ID)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, "Guides", children[0].Title)
}

func TestGetNonExisting(t *testing.T) {
	svc := newService()
	_, err := svc.Get(context.Background(), 999)
	require.ErrorIs(t, err, pages.ErrNotFound)
}

func TestUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	root, err := svc.Create(ctx, "Docs", "old", nil)
	require.NoError(t, err)

	require.NoError(t, svc.Update(ctx, root.ID, "Docs", "new"))
	got, err := svc.Get(ctx, root.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Description)

	require.NoError(t, svc.Delete(ctx, root.ID))
	_, err = svc.Get(ctx, root.ID)
	require.ErrorIs(t, err, pages.ErrNotFound)
}
