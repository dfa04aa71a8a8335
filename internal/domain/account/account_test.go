package account_test

import (
	"context"
	"testing"

	"ledger-core/internal/domain/account"
	"ledger-core/internal/domain/bankerr"
	"ledger-core/internal/pkg/money"
	"ledger-core/internal/store/memstore"
	"ledger-core/internal/store/sequence"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService() account.Service {
	db := memstore.New()
	return account.New(db, sequence.New(db), nil)
}

func TestCreateAccountAllocatesSequentialIDs(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	first, err := svc.CreateAccount(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), first)

	second, err := svc.CreateAccount(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), second)
}

func TestDepositAndWithdraw(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	id, err := svc.CreateAccount(ctx)
	require.NoError(t, err)

	balance, err := svc.Deposit(ctx, id, money.Money(12350))
	require.NoError(t, err)
	assert.Equal(t, "123.50", balance.String())

	balance, err = svc.Withdraw(ctx, id, money.Money(2350))
	require.NoError(t, err)
	assert.Equal(t, "100.00", balance.String())
}

func TestWithdrawInsufficientBalance(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	id, err := svc.CreateAccount(ctx)
	require.NoError(t, err)

	_, err = svc.Withdraw(ctx, id, money.Money(100))
	require.ErrorIs(t, err, bankerr.ErrInsufficientBalance)
}

func TestWithdrawClosedAccount(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	id, err := svc.CreateAccount(ctx)
	require.NoError(t, err)
	require.NoError(t, svc.CloseAccount(ctx, id))

	_, err = svc.Withdraw(ctx, id, money.Money(100))
	require.ErrorIs(t, err, bankerr.ErrClosedAccount)
}

func TestDepositIntoClosedAccountIsNotRejected(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	id, err := svc.CreateAccount(ctx)
	require.NoError(t, err)
	require.NoError(t, svc.CloseAccount(ctx, id))

	_, err = svc.Deposit(ctx, id, money.Money(500))
	require.NoError(t, err)
}

func TestCloseAccountIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	id, err := svc.CreateAccount(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.CloseAccount(ctx, id))
	require.NoError(t, svc.CloseAccount(ctx, id))

	closed, err := svc.IsClosed(ctx, id)
	require.NoError(t, err)
	assert.True(t, closed)
}

func TestCloseNonExistingAccount(t *testing.T) {
	svc := newService()
	err := svc.CloseAccount(context.Background(), 999)
	require.ErrorIs(t, err, bankerr.ErrNonExistingAccount)
}

func TestGetBalanceNonExistingAccount(t *testing.T) {
	svc := newService()
	_, err := svc.GetBalance(context.Background(), 999)
	require.ErrorIs(t, err, bankerr.ErrNonExistingAccount)
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	id, err := svc.CreateAccount(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.Reset(ctx))

	_, err = svc.GetBalance(ctx, id)
	require.ErrorIs(t, err, bankerr.ErrNonExistingAccount)

	freshID, err := svc.CreateAccount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), freshID)
}
