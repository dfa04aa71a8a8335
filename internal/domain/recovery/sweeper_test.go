package recovery_test

import (
	"context"
	"testing"
	"time"

	"ledger-core/internal/domain/account"
	"ledger-core/internal/domain/models"
	"ledger-core/internal/domain/recovery"
	"ledger-core/internal/domain/transfer"
	"ledger-core/internal/infrastructure/messaging"
	"ledger-core/internal/pkg/money"
	"ledger-core/internal/store"
	"ledger-core/internal/store/memstore"
	"ledger-core/internal/store/sequence"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ageOut backdates txnID's lastModified so it reads as stuck without a
// real sleep, matching the test style the teacher uses for time-dependent
// store assertions.
func ageOut(t *testing.T, ctx context.Context, db *memstore.Store, txnID int64) {
	t.Helper()
	matched, err := db.Update(ctx, "transactions", store.Eq("_id", txnID),
		store.Set("lastModified", time.Now().UTC().Add(-time.Hour)))
	require.NoError(t, err)
	require.Equal(t, int64(1), matched)
}

func TestRecoverPendingTransactions(t *testing.T) {
	ctx := context.Background()
	db := memstore.New()
	ids := sequence.New(db)
	accSvc := account.New(db, ids, nil)
	coord := transfer.New(db, ids)
	capture := messaging.NewEventCapture()
	sweeper := recovery.New(db, time.Second, capture, nil)

	src, err := accSvc.CreateAccount(ctx)
	require.NoError(t, err)
	dest, err := accSvc.CreateAccount(ctx)
	require.NoError(t, err)
	_, err = accSvc.Deposit(ctx, src, money.Money(10000))
	require.NoError(t, err)

	_, err = coord.Transfer(ctx, src, dest, money.Money(5000), transfer.WithFailInjection(transfer.StagePending))
	require.Error(t, err)
	ageOut(t, ctx, db, 1)

	report, err := sweeper.RecoverPendingTransactions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Scanned)
	assert.Equal(t, 1, report.Recovered)
	assert.Equal(t, 0, report.Failed)

	srcBal, err := accSvc.GetBalance(ctx, src)
	require.NoError(t, err)
	destBal, err := accSvc.GetBalance(ctx, dest)
	require.NoError(t, err)
	assert.Equal(t, "50.00", srcBal.String())
	assert.Equal(t, "50.00", destBal.String())

	var txn models.Transaction
	require.NoError(t, db.FindOne(ctx, "transactions", store.Eq("_id", int64(1)), &txn))
	assert.Equal(t, models.StateDone, txn.State)

	recovered := capture.Recovered()
	require.Len(t, recovered, 1)
	assert.Equal(t, int64(1), recovered[0].TransactionID)
	assert.Equal(t, "pending", recovered[0].FromState)
}

func TestRecoverPendingTransactionsIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := memstore.New()
	ids := sequence.New(db)
	accSvc := account.New(db, ids, nil)
	coord := transfer.New(db, ids)
	sweeper := recovery.New(db, time.Second, nil, nil)

	src, err := accSvc.CreateAccount(ctx)
	require.NoError(t, err)
	dest, err := accSvc.CreateAccount(ctx)
	require.NoError(t, err)
	_, err = accSvc.Deposit(ctx, src, money.Money(10000))
	require.NoError(t, err)

	_, err = coord.Transfer(ctx, src, dest, money.Money(5000), transfer.WithFailInjection(transfer.StagePending))
	require.Error(t, err)
	ageOut(t, ctx, db, 1)

	_, err = sweeper.RecoverPendingTransactions(ctx)
	require.NoError(t, err)
	report, err := sweeper.RecoverPendingTransactions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Scanned)

	srcBal, err := accSvc.GetBalance(ctx, src)
	require.NoError(t, err)
	assert.Equal(t, "50.00", srcBal.String())
}

func TestRecoverAppliedTransactions(t *testing.T) {
	ctx := context.Background()
	db := memstore.New()
	ids := sequence.New(db)
	accSvc := account.New(db, ids, nil)
	coord := transfer.New(db, ids)
	sweeper := recovery.New(db, time.Second, nil, nil)

	src, err := accSvc.CreateAccount(ctx)
	require.NoError(t, err)
	dest, err := accSvc.CreateAccount(ctx)
	require.NoError(t, err)
	_, err = accSvc.Deposit(ctx, src, money.Money(10000))
	require.NoError(t, err)

	_, err = coord.Transfer(ctx, src, dest, money.Money(5000), transfer.WithFailInjection(transfer.StageApplied))
	require.Error(t, err)
	ageOut(t, ctx, db, 1)

	report, err := sweeper.RecoverAppliedTransactions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Recovered)

	srcBal, err := accSvc.GetBalance(ctx, src)
	require.NoError(t, err)
	destBal, err := accSvc.GetBalance(ctx, dest)
	require.NoError(t, err)
	assert.Equal(t, "50.00", srcBal.String())
	assert.Equal(t, "50.00", destBal.String())

	_, err = coord.Transfer(ctx, dest, src, money.Money(5000))
	require.NoError(t, err)
	srcBal, err = accSvc.GetBalance(ctx, src)
	require.NoError(t, err)
	destBal, err = accSvc.GetBalance(ctx, dest)
	require.NoError(t, err)
	assert.Equal(t, "100.00", srcBal.String())
	assert.Equal(t, "0.00", destBal.String())
}

func TestCancelPendingTransactions(t *testing.T) {
	ctx := context.Background()
	db := memstore.New()
	ids := sequence.New(db)
	accSvc := account.New(db, ids, nil)
	coord := transfer.New(db, ids)
	capture := messaging.NewEventCapture()
	sweeper := recovery.New(db, time.Second, capture, nil)

	src, err := accSvc.CreateAccount(ctx)
	require.NoError(t, err)
	dest, err := accSvc.CreateAccount(ctx)
	require.NoError(t, err)
	_, err = accSvc.Deposit(ctx, src, money.Money(10000))
	require.NoError(t, err)

	_, err = coord.Transfer(ctx, src, dest, money.Money(5000), transfer.WithFailInjection(transfer.StagePending))
	require.Error(t, err)
	ageOut(t, ctx, db, 1)

	report, err := sweeper.CancelPendingTransactions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Recovered)

	srcBal, err := accSvc.GetBalance(ctx, src)
	require.NoError(t, err)
	destBal, err := accSvc.GetBalance(ctx, dest)
	require.NoError(t, err)
	assert.Equal(t, "100.00", srcBal.String())
	assert.Equal(t, "0.00", destBal.String())

	var txn models.Transaction
	require.NoError(t, db.FindOne(ctx, "transactions", store.Eq("_id", int64(1)), &txn))
	assert.Equal(t, models.StateCanceled, txn.State)

	canceled := capture.Canceled()
	require.Len(t, canceled, 1)
	assert.Equal(t, int64(1), canceled[0].TransactionID)
	assert.Equal(t, src, canceled[0].Source)
	assert.Equal(t, dest, canceled[0].Destination)
}

func TestAgeThresholdGetSet(t *testing.T) {
	sweeper := recovery.New(memstore.New(), recovery.DefaultAgeThreshold, nil, nil)
	assert.Equal(t, recovery.DefaultAgeThreshold, sweeper.GetAgeThreshold())
	sweeper.SetAgeThreshold(2 * time.Second)
	assert.Equal(t, 2*time.Second, sweeper.GetAgeThreshold())
}

func TestNotYetStuckTransactionIsIgnored(t *testing.T) {
	ctx := context.Background()
	db := memstore.New()
	ids := sequence.New(db)
	accSvc := account.New(db, ids, nil)
	coord := transfer.New(db, ids)
	sweeper := recovery.New(db, time.Hour, nil, nil)

	src, err := accSvc.CreateAccount(ctx)
	require.NoError(t, err)
	dest, err := accSvc.CreateAccount(ctx)
	require.NoError(t, err)
	_, err = accSvc.Deposit(ctx, src, money.Money(10000))
	require.NoError(t, err)

	_, err = coord.Transfer(ctx, src, dest, money.Money(5000), transfer.WithFailInjection(transfer.StagePending))
	require.Error(t, err)

	report, err := sweeper.RecoverPendingTransactions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Scanned)
}
