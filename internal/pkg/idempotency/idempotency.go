// Package idempotency derives deterministic keys used as Kafka message
// keys for the transfer/recovery lifecycle events, so retried publishes of
// the same event (same transaction, same state) land on the same partition
// and a consumer can deduplicate them.
package idempotency

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// TransactionKey derives the Kafka message key for an event about txnID
// reaching state. The key is a SHA-256 hash of the event's identity, so
// republishing the same event (e.g. after a producer retry) always maps to
// the same key.
//
// Examples:
//   - ("done", 42) -> same hash every time
//   - ("canceled", 42) -> a different hash than "done", even for the same txn
func TransactionKey(state string, txnID int64) string {
	data := fmt.Sprintf("%s:%d", state, txnID)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
