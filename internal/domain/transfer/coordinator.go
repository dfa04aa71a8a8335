// Package transfer implements the two-phase-commit state machine (C4) that
// moves money between two accounts living in separate documents. Every
// step is a conditional update keyed either on the transaction's current
// state or on pending-set membership, so a crash between any two steps
// leaves a transaction the recovery sweeper (internal/domain/recovery) can
// finish safely by replaying the remaining steps.
package transfer

import (
	"context"
	"fmt"

	"ledger-core/internal/domain/bankerr"
	"ledger-core/internal/domain/models"
	"ledger-core/internal/pkg/money"
	"ledger-core/internal/pkg/telemetry"
	"ledger-core/internal/store"
	"ledger-core/internal/store/sequence"
)

const (
	accounts     = "accounts"
	transactions = "transactions"
)

// Stage names the point in the state machine a FailInjection option
// targets. Production calls never set one.
type Stage string

const (
	StagePending Stage = "pending"
	StageApplied Stage = "applied"
)

// TransferOption customizes one Transfer call. The only variant,
// WithFailInjection, is unexported at the struct level so the zero-value
// call path has no way to accidentally trigger it.
type TransferOption func(*transferOptions)

type transferOptions struct {
	failAt Stage
}

// WithFailInjection forces a synthetic DB_ERROR immediately after the
// transaction reaches stage. It exists for recovery-sweeper tests that
// need to simulate a crash mid-transfer.
func WithFailInjection(stage Stage) TransferOption {
	return func(o *transferOptions) { o.failAt = stage }
}

// Coordinator runs the transfer state machine.
type Coordinator struct {
	db  store.Store
	ids *sequence.Allocator
}

// New returns a Coordinator backed by db.
func New(db store.Store, ids *sequence.Allocator) *Coordinator {
	return &Coordinator{db: db, ids: ids}
}

// Transfer moves amount from src to dest, running the full roll-forward
// state machine to completion unless a FailInjection option cuts it short.
func (c *Coordinator) Transfer(ctx context.Context, src, dest int64, amount money.Money, opts ...TransferOption) (*models.Transaction, error) {
	var o transferOptions
	for _, apply := range opts {
		apply(&o)
	}

	var srcAcc models.Account
	if err := c.db.FindOne(ctx, accounts, store.Eq("_id", src), &srcAcc); err != nil {
		if err == store.ErrNotFound {
			return nil, bankerr.New(bankerr.NonExistingAccount, fmt.Sprintf("account %d does not exist", src))
		}
		return nil, bankerr.Wrap(err, "read source account")
	}
	if srcAcc.Balance < amount.MinorUnits() {
		return nil, bankerr.New(bankerr.InsufficientBalance, fmt.Sprintf("account %d has insufficient balance", src))
	}

	txnID, err := c.ids.Next(ctx, transactions)
	if err != nil {
		return nil, bankerr.Wrap(err, "allocate transaction id")
	}
	txn := models.Transaction{
		ID:          txnID,
		Source:      src,
		Destination: dest,
		Value:       amount.MinorUnits(),
		State:       models.StateInitial,
	}
	if err := c.db.Insert(ctx, transactions, txn); err != nil {
		return nil, bankerr.Wrap(err, "insert transaction")
	}

	if err := Transition(ctx, c.db, txnID, models.StateInitial, models.StatePending); err != nil {
		return nil, err
	}
	txn.State = models.StatePending

	if err := ApplyToSource(ctx, c.db, txnID, src, amount); err != nil {
		return nil, err
	}
	if o.failAt == StagePending {
		return nil, bankerr.New(bankerr.DBError, "injected failure after reaching pending")
	}

	if err := ApplyToDestination(ctx, c.db, txnID, dest, amount); err != nil {
		return nil, err
	}

	if err := Transition(ctx, c.db, txnID, models.StatePending, models.StateApplied); err != nil {
		return nil, err
	}
	txn.State = models.StateApplied

	if err := PullFromAccount(ctx, c.db, txnID, src); err != nil {
		return nil, err
	}
	if o.failAt == StageApplied {
		return nil, bankerr.New(bankerr.DBError, "injected failure after reaching applied")
	}

	if err := PullFromAccount(ctx, c.db, txnID, dest); err != nil {
		return nil, err
	}

	if err := Transition(ctx, c.db, txnID, models.StateApplied, models.StateDone); err != nil {
		return nil, err
	}
	txn.State = models.StateDone

	telemetry.RecordLedgerOperation("transfer", "success")
	telemetry.RecordTransferAmount(float64(amount.MinorUnits()))

	return &txn, nil
}

// Transition moves txnID from `from` to `to`, keyed on the expected
// current state so a concurrent recoverer racing the same step is a no-op
// rather than a double transition. Exported so the recovery sweeper can
// reuse the exact same idempotent primitive.
func Transition(ctx context.Context, db store.Store, txnID int64, from, to models.State) error {
	_, err := db.Update(ctx, transactions,
		store.And(store.Eq("_id", txnID), store.Eq("state", from)),
		store.Combine(store.Set("state", to), store.CurrentDate("lastModified")))
	if err != nil {
		return bankerr.Wrap(err, fmt.Sprintf("transition txn %d %s->%s", txnID, from, to))
	}
	telemetry.RecordStateTransition(string(from), string(to))
	return nil
}

// ApplyToSource debits amount from the account and adds txnID to its
// pending set, guarded by pendingTransactions not already containing
// txnID so replaying this step after a crash is a no-op.
func ApplyToSource(ctx context.Context, db store.Store, txnID, accountID int64, amount money.Money) error {
	_, err := db.Update(ctx, accounts,
		store.And(store.Eq("_id", accountID), store.Eq("closed", false), store.NotIn("pendingTransactions", txnID)),
		store.Combine(store.Inc("balance", -amount.MinorUnits()), store.Push("pendingTransactions", txnID)))
	if err != nil {
		return bankerr.Wrap(err, fmt.Sprintf("apply txn %d to source %d", txnID, accountID))
	}
	return nil
}

// ApplyToDestination credits amount to the account and adds txnID to its
// pending set, with the same idempotent guard as ApplyToSource.
func ApplyToDestination(ctx context.Context, db store.Store, txnID, accountID int64, amount money.Money) error {
	_, err := db.Update(ctx, accounts,
		store.And(store.Eq("_id", accountID), store.Eq("closed", false), store.NotIn("pendingTransactions", txnID)),
		store.Combine(store.Inc("balance", amount.MinorUnits()), store.Push("pendingTransactions", txnID)))
	if err != nil {
		return bankerr.Wrap(err, fmt.Sprintf("apply txn %d to destination %d", txnID, accountID))
	}
	return nil
}

// PullFromAccount removes txnID from the account's pending set, guarded by
// membership so replaying this step after a crash is a no-op.
func PullFromAccount(ctx context.Context, db store.Store, txnID, accountID int64) error {
	_, err := db.Update(ctx, accounts,
		store.And(store.Eq("_id", accountID), store.In("pendingTransactions", txnID)),
		store.Pull("pendingTransactions", txnID))
	if err != nil {
		return bankerr.Wrap(err, fmt.Sprintf("pull txn %d from account %d", txnID, accountID))
	}
	return nil
}

// CreditAccount applies a signed delta to an account's balance and pulls
// txnID from its pending set in one update, guarded by pending-set
// membership. Used by the roll-back path (cancelPendingTransactions),
// where the compensating delta's sign depends on whether the account was
// the source or the destination of the canceled transfer.
func CreditAccount(ctx context.Context, db store.Store, txnID, accountID int64, delta money.Money) error {
	_, err := db.Update(ctx, accounts,
		store.And(store.Eq("_id", accountID), store.In("pendingTransactions", txnID)),
		store.Combine(store.Inc("balance", delta.MinorUnits()), store.Pull("pendingTransactions", txnID)))
	if err != nil {
		return bankerr.Wrap(err, fmt.Sprintf("compensate txn %d on account %d", txnID, accountID))
	}
	return nil
}
