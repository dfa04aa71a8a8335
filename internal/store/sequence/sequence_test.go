package sequence_test

import (
	"context"
	"testing"

	"ledger-core/internal/domain/models"
	"ledger-core/internal/store/memstore"
	"ledger-core/internal/store/sequence"

	"github.com/stretchr/testify/require"
)

func TestNextOnEmptyCollectionReturnsOne(t *testing.T) {
	alloc := sequence.New(memstore.New())
	id, err := alloc.Next(context.Background(), "accounts")
	require.NoError(t, err)
	require.Equal(t, int64(1), id)
}

func TestNextIsMonotonic(t *testing.T) {
	ctx := context.Background()
	db := memstore.New()
	alloc := sequence.New(db)

	first, err := alloc.Next(ctx, "accounts")
	require.NoError(t, err)
	require.NoError(t, db.Insert(ctx, "accounts", models.NewAccount(first)))

	second, err := alloc.Next(ctx, "accounts")
	require.NoError(t, err)
	require.Equal(t, first+1, second)
}

func TestCollectionsAreIndependent(t *testing.T) {
	ctx := context.Background()
	db := memstore.New()
	alloc := sequence.New(db)

	require.NoError(t, db.Insert(ctx, "accounts", models.NewAccount(1)))
	require.NoError(t, db.Insert(ctx, "accounts", models.NewAccount(2)))

	nextAccount, err := alloc.Next(ctx, "accounts")
	require.NoError(t, err)
	require.Equal(t, int64(3), nextAccount)

	nextTxn, err := alloc.Next(ctx, "transactions")
	require.NoError(t, err)
	require.Equal(t, int64(1), nextTxn)
}
