package apierr_test

import (
	"net/http"
	"testing"

	"ledger-core/internal/domain/bankerr"
	"ledger-core/internal/pkg/apierr"

	"github.com/stretchr/testify/assert"
)

func TestFromMapsEachBankErrCode(t *testing.T) {
	cases := []struct {
		err    error
		code   string
		status int
	}{
		{bankerr.New(bankerr.InsufficientBalance, "not enough"), apierr.CodeInsufficientBalance, http.StatusBadRequest},
		{bankerr.New(bankerr.NonExistingAccount, "no such account"), apierr.CodeNonExistingAccount, http.StatusNotFound},
		{bankerr.New(bankerr.NonExistingTransaction, "no such txn"), apierr.CodeNonExistingTransaction, http.StatusNotFound},
		{bankerr.New(bankerr.ClosedAccount, "closed"), apierr.CodeClosedAccount, http.StatusConflict},
		{bankerr.New(bankerr.DBError, "boom"), apierr.CodeDB, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		got := apierr.From(tc.err)
		assert.Equal(t, tc.code, got.Code)
		assert.Equal(t, tc.status, got.Status)
	}
}

func TestFromUnknownErrorFallsBackToDBError(t *testing.T) {
	got := apierr.From(assertErr{})
	assert.Equal(t, apierr.CodeDB, got.Code)
	assert.Equal(t, http.StatusInternalServerError, got.Status)
}

type assertErr struct{}

func (assertErr) Error() string { return "boom" }
