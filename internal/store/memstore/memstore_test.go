package memstore_test

import (
	"context"
	"testing"

	"ledger-core/internal/domain/models"
	"ledger-core/internal/store"
	"ledger-core/internal/store/memstore"

	"github.com/stretchr/testify/require"
)

func TestInsertAndFindOne(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()

	acc := models.NewAccount(1)
	acc.Balance = 500
	require.NoError(t, s.Insert(ctx, "accounts", acc))

	var got models.Account
	require.NoError(t, s.FindOne(ctx, "accounts", store.Eq("_id", int64(1)), &got))
	require.Equal(t, int64(1), got.ID)
	require.Equal(t, int64(500), got.Balance)
	require.False(t, got.Closed)
}

func TestFindOneNotFound(t *testing.T) {
	s := memstore.New()
	var got models.Account
	err := s.FindOne(context.Background(), "accounts", store.Eq("_id", int64(99)), &got)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateIncAndPush(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	require.NoError(t, s.Insert(ctx, "accounts", models.NewAccount(1)))

	matched, err := s.Update(ctx, "accounts", store.Eq("_id", int64(1)),
		store.Combine(store.Inc("balance", 250), store.Push("pendingTransactions", int64(7))))
	require.NoError(t, err)
	require.Equal(t, int64(1), matched)

	var got models.Account
	require.NoError(t, s.FindOne(ctx, "accounts", store.Eq("_id", int64(1)), &got))
	require.Equal(t, int64(250), got.Balance)
	require.Equal(t, []int64{7}, got.PendingTransactions)
}

func TestUpdateNoMatchReturnsZero(t *testing.T) {
	s := memstore.New()
	matched, err := s.Update(context.Background(), "accounts", store.Eq("_id", int64(404)), store.Inc("balance", 1))
	require.NoError(t, err)
	require.Zero(t, matched)
}

func TestPullRemovesElement(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	acc := models.NewAccount(1)
	acc.PendingTransactions = []int64{7, 8}
	require.NoError(t, s.Insert(ctx, "accounts", acc))

	_, err := s.Update(ctx, "accounts", store.Eq("_id", int64(1)), store.Pull("pendingTransactions", int64(7)))
	require.NoError(t, err)

	var got models.Account
	require.NoError(t, s.FindOne(ctx, "accounts", store.Eq("_id", int64(1)), &got))
	require.Equal(t, []int64{8}, got.PendingTransactions)
}

func TestFindCursorSortAndLimit(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	for _, id := range []int64{3, 1, 2} {
		require.NoError(t, s.Insert(ctx, "transactions", models.Transaction{ID: id, State: models.StateInitial}))
	}

	cur, err := s.FindCursor(ctx, "transactions", nil, store.Sort("_id", false), store.Limit(2))
	require.NoError(t, err)
	defer cur.Close(ctx)

	var ids []int64
	for cur.Next(ctx) {
		var txn models.Transaction
		require.NoError(t, cur.Decode(&txn))
		ids = append(ids, txn.ID)
	}
	require.Equal(t, []int64{1, 2}, ids)
}

func TestDeleteRemovesMatching(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	require.NoError(t, s.Insert(ctx, "accounts", models.NewAccount(1)))
	require.NoError(t, s.Insert(ctx, "accounts", models.NewAccount(2)))

	require.NoError(t, s.Delete(ctx, "accounts", store.Eq("_id", int64(1))))

	var got models.Account
	err := s.FindOne(ctx, "accounts", store.Eq("_id", int64(1)), &got)
	require.ErrorIs(t, err, store.ErrNotFound)
	require.NoError(t, s.FindOne(ctx, "accounts", store.Eq("_id", int64(2)), &got))
}

func TestInFilterMatchesArrayMembership(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	acc := models.NewAccount(1)
	acc.PendingTransactions = []int64{42}
	require.NoError(t, s.Insert(ctx, "accounts", acc))

	var got models.Account
	require.NoError(t, s.FindOne(ctx, "accounts", store.In("pendingTransactions", int64(42)), &got))
	require.Equal(t, int64(1), got.ID)

	err := s.FindOne(ctx, "accounts", store.NotIn("pendingTransactions", int64(42)), &got)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	require.NoError(t, s.Insert(ctx, "accounts", models.NewAccount(1)))
	s.Reset()

	var got models.Account
	err := s.FindOne(ctx, "accounts", store.Eq("_id", int64(1)), &got)
	require.ErrorIs(t, err, store.ErrNotFound)
}
