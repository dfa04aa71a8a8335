package idempotency_test

import (
	"testing"

	"ledger-core/internal/pkg/idempotency"

	"github.com/stretchr/testify/assert"
)

func TestTransactionKeyIsDeterministic(t *testing.T) {
	a := idempotency.TransactionKey("done", 42)
	b := idempotency.TransactionKey("done", 42)
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
}

func TestTransactionKeyDiffersByState(t *testing.T) {
	done := idempotency.TransactionKey("done", 42)
	canceled := idempotency.TransactionKey("canceled", 42)
	assert.NotEqual(t, done, canceled)
}
