// Package recovery implements the three sweepers (C5) that notice
// transactions stuck mid-transfer and either finish them (roll-forward) or
// undo them (roll-back). Every step a sweeper takes reuses the same
// conditional updates the transfer coordinator uses, so a sweeper racing
// another sweeper, or racing an in-flight Transfer call, can only ever
// no-op a step that already happened rather than double-apply it.
package recovery

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ledger-core/internal/domain/bankerr"
	"ledger-core/internal/domain/models"
	"ledger-core/internal/domain/transfer"
	"ledger-core/internal/infrastructure/messaging"
	"ledger-core/internal/pkg/money"
	"ledger-core/internal/pkg/telemetry"
	"ledger-core/internal/store"
)

const (
	accounts     = "accounts"
	transactions = "transactions"

	// DefaultAgeThreshold matches spec.md §4.5's default of 5000ms.
	DefaultAgeThreshold = 5 * time.Second
)

// SweepReport summarizes one sweep invocation.
type SweepReport struct {
	Scanned   int `json:"scanned"`
	Recovered int `json:"recovered"`
	Failed    int `json:"failed"`
}

// Sweeper runs the three recovery sweeps against a shared store. The age
// threshold is the only runtime-adjustable knob in the core (spec.md §6).
type Sweeper struct {
	db        store.Store
	mu        sync.Mutex
	age       time.Duration
	now       func() time.Time
	logf      func(string, ...any)
	publisher messaging.EventPublisher
}

// New returns a Sweeper with the given default age threshold. publisher
// gets a PublishTransferRecovered/PublishTransferCanceled call per
// recovered/canceled transaction; pass messaging.NewNoOpEventPublisher()
// when Kafka is disabled. logf receives one line per failed txn recovery,
// or a generic message when no txn has yet been read; pass nil to discard
// it.
func New(db store.Store, defaultAge time.Duration, publisher messaging.EventPublisher, logf func(string, ...any)) *Sweeper {
	if logf == nil {
		logf = func(string, ...any) {}
	}
	if publisher == nil {
		publisher = messaging.NewNoOpEventPublisher()
	}
	return &Sweeper{db: db, age: defaultAge, now: func() time.Time { return time.Now().UTC() }, logf: logf, publisher: publisher}
}

// GetAgeThreshold returns the current age threshold.
func (s *Sweeper) GetAgeThreshold() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.age
}

// SetAgeThreshold updates the age threshold used by all three sweeps.
func (s *Sweeper) SetAgeThreshold(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.age = d
}

func (s *Sweeper) cutoff() time.Time {
	return s.now().Add(-s.GetAgeThreshold())
}

func (s *Sweeper) stuck(ctx context.Context, state models.State) (store.Cursor, error) {
	filter := store.And(store.Eq("state", state), store.Lt("lastModified", s.cutoff()))
	return s.db.FindCursor(ctx, transactions, filter, store.Sort("_id", false))
}

// RecoverPendingTransactions rolls forward every stuck `pending` txn to
// `done`, replaying the money-moving steps that make up the second half of
// the transfer state machine.
func (s *Sweeper) RecoverPendingTransactions(ctx context.Context) (SweepReport, error) {
	start := s.now()
	txns, err := s.scan(ctx, models.StatePending)
	if err != nil {
		return SweepReport{}, err
	}

	var report SweepReport
	for _, txn := range txns {
		report.Scanned++
		if err := s.recoverPending(ctx, txn); err != nil {
			report.Failed++
			s.logf("failed while recovering pending txn %d: %v", txn.ID, err)
			continue
		}
		report.Recovered++
	}
	telemetry.RecordSweepDuration("pending", s.now().Sub(start).Seconds())
	telemetry.RecordStuckTransactions("pending", float64(report.Recovered))
	return report, nil
}

func (s *Sweeper) recoverPending(ctx context.Context, txn models.Transaction) error {
	amount := money.FromMinorUnits(txn.Value)
	if err := transfer.ApplyToSource(ctx, s.db, txn.ID, txn.Source, amount); err != nil {
		return err
	}
	if err := transfer.ApplyToDestination(ctx, s.db, txn.ID, txn.Destination, amount); err != nil {
		return err
	}
	if err := transfer.Transition(ctx, s.db, txn.ID, models.StatePending, models.StateApplied); err != nil {
		return err
	}
	if err := transfer.PullFromAccount(ctx, s.db, txn.ID, txn.Source); err != nil {
		return err
	}
	if err := transfer.PullFromAccount(ctx, s.db, txn.ID, txn.Destination); err != nil {
		return err
	}
	if err := transfer.Transition(ctx, s.db, txn.ID, models.StateApplied, models.StateDone); err != nil {
		return err
	}
	s.publishRecovered(txn, "pending")
	return nil
}

// RecoverAppliedTransactions finishes every stuck `applied` txn: the money
// has already moved, only the pending-set cleanup and the final state
// transition remain.
func (s *Sweeper) RecoverAppliedTransactions(ctx context.Context) (SweepReport, error) {
	start := s.now()
	txns, err := s.scan(ctx, models.StateApplied)
	if err != nil {
		return SweepReport{}, err
	}

	var report SweepReport
	for _, txn := range txns {
		report.Scanned++
		if err := s.recoverApplied(ctx, txn); err != nil {
			report.Failed++
			s.logf("failed while recovering applied txn %d: %v", txn.ID, err)
			continue
		}
		report.Recovered++
	}
	telemetry.RecordSweepDuration("applied", s.now().Sub(start).Seconds())
	telemetry.RecordStuckTransactions("applied", float64(report.Recovered))
	return report, nil
}

func (s *Sweeper) recoverApplied(ctx context.Context, txn models.Transaction) error {
	if err := transfer.PullFromAccount(ctx, s.db, txn.ID, txn.Source); err != nil {
		return err
	}
	if err := transfer.PullFromAccount(ctx, s.db, txn.ID, txn.Destination); err != nil {
		return err
	}
	if err := transfer.Transition(ctx, s.db, txn.ID, models.StateApplied, models.StateDone); err != nil {
		return err
	}
	s.publishRecovered(txn, "applied")
	return nil
}

// publishRecovered notifies the event publisher that txn, previously stuck
// in fromState, reached done. Publishing failures are logged and
// swallowed, same policy as the HTTP transfer handler's event publishing:
// a Kafka hiccup never undoes a recovery that already landed in the store.
func (s *Sweeper) publishRecovered(txn models.Transaction, fromState string) {
	if err := s.publisher.PublishTransferRecovered(messaging.TransferRecoveredEvent{
		TransactionID: txn.ID,
		FromState:     fromState,
		Timestamp:     s.now(),
	}); err != nil {
		s.logf("failed to publish recovered event for txn %d: %v", txn.ID, err)
	}
}

// CancelPendingTransactions rolls back every stuck `pending` txn: first a
// bulk transition to `canceling` so concurrent sweeps don't double-claim a
// txn, then per-txn compensation and a final transition to `canceled`.
func (s *Sweeper) CancelPendingTransactions(ctx context.Context) (SweepReport, error) {
	start := s.now()
	claimFilter := store.And(store.Eq("state", models.StatePending), store.Lt("lastModified", s.cutoff()))
	claimed, err := s.db.UpdateMany(ctx, transactions, claimFilter,
		store.Combine(store.Set("state", models.StateCanceling), store.CurrentDate("lastModified")))
	if err != nil {
		return SweepReport{}, bankerr.Wrap(err, "claim pending transactions for cancellation")
	}

	txns, err := s.scanState(ctx, models.StateCanceling)
	if err != nil {
		return SweepReport{}, err
	}

	var report SweepReport
	report.Scanned = int(claimed)
	for _, txn := range txns {
		if err := s.cancelOne(ctx, txn); err != nil {
			report.Failed++
			s.logf("failed while canceling txn %d: %v", txn.ID, err)
			continue
		}
		report.Recovered++
	}
	telemetry.RecordSweepDuration("cancel", s.now().Sub(start).Seconds())
	telemetry.RecordStuckTransactions("canceled", float64(report.Recovered))
	return report, nil
}

func (s *Sweeper) cancelOne(ctx context.Context, txn models.Transaction) error {
	amount := money.FromMinorUnits(txn.Value)
	if err := transfer.CreditAccount(ctx, s.db, txn.ID, txn.Destination, amount.Neg()); err != nil {
		return err
	}
	if err := transfer.CreditAccount(ctx, s.db, txn.ID, txn.Source, amount); err != nil {
		return err
	}
	if err := transfer.Transition(ctx, s.db, txn.ID, models.StateCanceling, models.StateCanceled); err != nil {
		return err
	}
	if err := s.publisher.PublishTransferCanceled(messaging.TransferCanceledEvent{
		TransactionID: txn.ID,
		Source:        txn.Source,
		Destination:   txn.Destination,
		Amount:        txn.Value,
		Timestamp:     s.now(),
	}); err != nil {
		s.logf("failed to publish canceled event for txn %d: %v", txn.ID, err)
	}
	return nil
}

// scan returns every transaction stuck in state, ordered by ID for
// deterministic, lowest-ID-first sweep progress.
func (s *Sweeper) scan(ctx context.Context, state models.State) ([]models.Transaction, error) {
	cur, err := s.stuck(ctx, state)
	if err != nil {
		return nil, bankerr.Wrap(err, fmt.Sprintf("scan %s transactions", state))
	}
	return drain(ctx, cur)
}

// scanState returns every transaction currently in state, regardless of
// age — used right after a bulk claim to pick up exactly what this call
// just claimed.
func (s *Sweeper) scanState(ctx context.Context, state models.State) ([]models.Transaction, error) {
	cur, err := s.db.FindCursor(ctx, transactions, store.Eq("state", state), store.Sort("_id", false))
	if err != nil {
		return nil, bankerr.Wrap(err, fmt.Sprintf("scan %s transactions", state))
	}
	return drain(ctx, cur)
}

func drain(ctx context.Context, cur store.Cursor) ([]models.Transaction, error) {
	defer cur.Close(ctx)
	var out []models.Transaction
	for cur.Next(ctx) {
		var txn models.Transaction
		if err := cur.Decode(&txn); err != nil {
			return nil, bankerr.Wrap(err, "decode transaction")
		}
		out = append(out, txn)
	}
	if err := cur.Err(); err != nil {
		return nil, bankerr.Wrap(err, "iterate transactions")
	}
	return out, nil
}
