// Package account implements the core's single-account operations (C3):
// create, close, balance, closed, deposit, withdraw, reset. Each store write
// is a single-document update, atomic on its own; Withdraw's read-then-write
// and Reset's two deletes are not atomic as a whole, and the package
// coordinates no cross-account locking.
package account

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

// Service is the account half of the core's public API surface.
type Service interface {
	CreateAccount(ctx context.Context) (int64, error)
	CloseAccount(ctx context.Context, id int64) error
	GetBalance(ctx context.Context, id int64) (money.Money, error)
	IsClosed(ctx context.Context, id int64) (bool, error)
	Deposit(ctx context.Context, id int64, amount money.Money) (money.Money, error)
	Withdraw(ctx context.Context, id int64, amount money.Money) (money.Money, error)
	Reset(ctx context.Context) error
}

const collection = "accounts"

type service struct {
	db    store.Store
	ids   *sequence.Allocator
	txns  string
	warnf func(string, ...any)
}

// New returns the account Service backed by db. warnf receives the
// already-closed-account warning from CloseAccount; pass nil to discard it.
func New(db store.Store, ids *sequence.Allocator, warnf func(string, ...any)) Service {
	if warnf == nil {
		warnf = func(string, ...any) {}
	}
	return &service{db: db, ids: ids, txns: "transactions", warnf: warnf}
}

func (s *service) CreateAccount(ctx context.Context) (int64, error) {
	id, err := s.ids.Next(ctx, collection)
	if err != nil {
		return 0, bankerr.Wrap(err, "allocate account id")
	}
	if err := s.db.Insert(ctx, collection, models.NewAccount(id)); err != nil {
		return 0, bankerr.Wrap(err, "insert account")
	}
	telemetry.RecordAccountCreation()
	return id, nil
}

func (s *service) CloseAccount(ctx context.Context, id int64) error {
	acc, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if acc.Closed {
		s.warnf("account %d already closed", id)
		return nil
	}
	if _, err := s.db.Update(ctx, collection, store.Eq("_id", id), store.Set("closed", true)); err != nil {
		return bankerr.Wrap(err, "close account")
	}
	return nil
}

func (s *service) GetBalance(ctx context.Context, id int64) (money.Money, error) {
	acc, err := s.load(ctx, id)
	if err != nil {
		return money.Zero, err
	}
	return money.FromMinorUnits(acc.Balance), nil
}

func (s *service) IsClosed(ctx context.Context, id int64) (bool, error) {
	acc, err := s.load(ctx, id)
	if err != nil {
		return false, err
	}
	return acc.Closed, nil
}

// Deposit unconditionally increments balance. It intentionally does not
// check Closed — the account service preserves that gap rather than
// silently closing it (see SPEC_FULL.md §9 for why).
func (s *service) Deposit(ctx context.Context, id int64, amount money.Money) (money.Money, error) {
	matched, err := s.db.Update(ctx, collection, store.Eq("_id", id), store.Inc("balance", amount.MinorUnits()))
	if err != nil {
		return money.Zero, bankerr.Wrap(err, "deposit")
	}
	if matched == 0 {
		telemetry.RecordLedgerOperation("deposit", "error")
		return money.Zero, bankerr.New(bankerr.NonExistingAccount, fmt.Sprintf("account %d does not exist", id))
	}
	telemetry.RecordLedgerOperation("deposit", "success")
	return s.GetBalance(ctx, id)
}

// Withdraw reads the account, validates it, and then issues a $inc matched
// on the account id alone. The read and the write are not atomic: a concurrent withdrawal on
// the same account between the two can oversubscribe the balance. This
// mirrors the account service's documented limitation rather than
// introducing a lock the store doesn't give us for free.
func (s *service) Withdraw(ctx context.Context, id int64, amount money.Money) (money.Money, error) {
	acc, err := s.load(ctx, id)
	if err != nil {
		return money.Zero, err
	}
	if acc.Closed {
		telemetry.RecordLedgerOperation("withdraw", "error")
		return money.Zero, bankerr.New(bankerr.ClosedAccount, fmt.Sprintf("account %d is closed", id))
	}
	if amount.MinorUnits() > acc.Balance {
		telemetry.RecordLedgerOperation("withdraw", "error")
		return money.Zero, bankerr.New(bankerr.InsufficientBalance, fmt.Sprintf("account %d has insufficient balance", id))
	}
	if _, err := s.db.Update(ctx, collection, store.Eq("_id", id), store.Inc("balance", -amount.MinorUnits())); err != nil {
		return money.Zero, bankerr.Wrap(err, "withdraw")
	}
	telemetry.RecordLedgerOperation("withdraw", "success")
	return s.GetBalance(ctx, id)
}

func (s *service) Reset(ctx context.Context) error {
	if err := s.db.Delete(ctx, collection, nil); err != nil {
		return bankerr.Wrap(err, "reset accounts")
	}
	if err := s.db.Delete(ctx, s.txns, nil); err != nil {
		return bankerr.Wrap(err, "reset transactions")
	}
	return nil
}

func (s *service) load(ctx context.Context, id int64) (models.Account, error) {
	var acc models.Account
	err := s.db.FindOne(ctx, collection, store.Eq("_id", id), &acc)
	if err == store.ErrNotFound {
		return models.Account{}, bankerr.New(bankerr.NonExistingAccount, fmt.Sprintf("account %d does not exist", id))
	}
	if err != nil {
		return models.Account{}, bankerr.Wrap(err, "load account")
	}
	return acc, nil
}
