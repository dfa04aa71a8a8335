package transfer_test

import (
	"context"
	"testing"

	"ledger-core/internal/domain/account"
	"ledger-core/internal/domain/bankerr"
	"ledger-core/internal/domain/models"
	"ledger-core/internal/domain/transfer"
	"ledger-core/internal/pkg/money"
	"ledger-core/internal/store"
	"ledger-core/internal/store/memstore"
	"ledger-core/internal/store/sequence"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (context.Context, *memstore.Store, account.Service, *transfer.Coordinator) {
	t.Helper()
	ctx := context.Background()
	db := memstore.New()
	ids := sequence.New(db)
	return ctx, db, account.New(db, ids, nil), transfer.New(db, ids)
}

func TestTransferMovesBalanceToCompletion(t *testing.T) {
	ctx, _, accSvc, coord := setup(t)

	src, err := accSvc.CreateAccount(ctx)
	require.NoError(t, err)
	dest, err := accSvc.CreateAccount(ctx)
	require.NoError(t, err)
	_, err = accSvc.Deposit(ctx, src, money.Money(10000))
	require.NoError(t, err)

	txn, err := coord.Transfer(ctx, src, dest, money.Money(4534))
	require.NoError(t, err)
	assert.Equal(t, models.StateDone, txn.State)

	srcBal, err := accSvc.GetBalance(ctx, src)
	require.NoError(t, err)
	destBal, err := accSvc.GetBalance(ctx, dest)
	require.NoError(t, err)
	assert.Equal(t, "54.66", srcBal.String())
	assert.Equal(t, "45.34", destBal.String())
}

func TestTransferInsufficientBalance(t *testing.T) {
	ctx, _, accSvc, coord := setup(t)

	src, err := accSvc.CreateAccount(ctx)
	require.NoError(t, err)
	dest, err := accSvc.CreateAccount(ctx)
	require.NoError(t, err)

	_, err = coord.Transfer(ctx, src, dest, money.Money(100))
	require.ErrorIs(t, err, bankerr.ErrInsufficientBalance)
}

func TestTransferNonExistingSource(t *testing.T) {
	ctx, _, _, coord := setup(t)
	_, err := coord.Transfer(ctx, 1, 2, money.Money(100))
	require.ErrorIs(t, err, bankerr.ErrNonExistingAccount)
}

func TestTransferFailInjectionAtPendingLeavesStuckTransaction(t *testing.T) {
	ctx, db, accSvc, coord := setup(t)

	src, err := accSvc.CreateAccount(ctx)
	require.NoError(t, err)
	dest, err := accSvc.CreateAccount(ctx)
	require.NoError(t, err)
	_, err = accSvc.Deposit(ctx, src, money.Money(10000))
	require.NoError(t, err)

	_, err = coord.Transfer(ctx, src, dest, money.Money(5000), transfer.WithFailInjection(transfer.StagePending))
	require.ErrorIs(t, err, bankerr.ErrDB)

	var txn models.Transaction
	require.NoError(t, db.FindOne(ctx, "transactions", store.Eq("_id", int64(1)), &txn))
	assert.Equal(t, models.StatePending, txn.State)

	srcBal, err := accSvc.GetBalance(ctx, src)
	require.NoError(t, err)
	assert.Equal(t, "50.00", srcBal.String())

	var srcAcc models.Account
	require.NoError(t, db.FindOne(ctx, "accounts", store.Eq("_id", src), &srcAcc))
	assert.True(t, srcAcc.HasPending(1))
}

func TestTransferFailInjectionAtAppliedLeavesStuckTransaction(t *testing.T) {
	ctx, db, accSvc, coord := setup(t)

	src, err := accSvc.CreateAccount(ctx)
	require.NoError(t, err)
	dest, err := accSvc.CreateAccount(ctx)
	require.NoError(t, err)
	_, err = accSvc.Deposit(ctx, src, money.Money(10000))
	require.NoError(t, err)

	_, err = coord.Transfer(ctx, src, dest, money.Money(5000), transfer.WithFailInjection(transfer.StageApplied))
	require.ErrorIs(t, err, bankerr.ErrDB)

	var txn models.Transaction
	require.NoError(t, db.FindOne(ctx, "transactions", store.Eq("_id", int64(1)), &txn))
	assert.Equal(t, models.StateApplied, txn.State)

	destBal, err := accSvc.GetBalance(ctx, dest)
	require.NoError(t, err)
	assert.Equal(t, "50.00", destBal.String())
}

func TestRoundTripReverseRestoresBalances(t *testing.T) {
	ctx, _, accSvc, coord := setup(t)

	a, err := accSvc.CreateAccount(ctx)
	require.NoError(t, err)
	b, err := accSvc.CreateAccount(ctx)
	require.NoError(t, err)
	_, err = accSvc.Deposit(ctx, a, money.Money(10000))
	require.NoError(t, err)

	_, err = coord.Transfer(ctx, a, b, money.Money(5000))
	require.NoError(t, err)
	_, err = coord.Transfer(ctx, b, a, money.Money(5000))
	require.NoError(t, err)

	aBal, err := accSvc.GetBalance(ctx, a)
	require.NoError(t, err)
	bBal, err := accSvc.GetBalance(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, "100.00", aBal.String())
	assert.Equal(t, "0.00", bBal.String())
}
