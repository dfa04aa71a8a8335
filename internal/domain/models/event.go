package models

import "time"

// TransactionEvent is broadcast over the legacy SSE feed (see
// internal/infrastructure/events) by the deposit and withdraw handlers.
// Transfers and recovery sweeps do not publish to this feed.
type TransactionEvent struct {
	Type          string    `json:"type"`
	TransactionID int64     `json:"transaction_id"`
	Source        int64     `json:"source,omitempty"`
	Destination   int64     `json:"destination,omitempty"`
	Amount        int64     `json:"amount"`
	State         State     `json:"state"`
	Timestamp     time.Time `json:"timestamp"`
}
