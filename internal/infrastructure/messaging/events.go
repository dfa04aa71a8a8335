package messaging

import "time"

// TransferStartedEvent marks the creation of a transfer, before the first
// state transition is durable.
type TransferStartedEvent struct {
	TransactionID int64     `json:"transaction_id"`
	Source        int64     `json:"source"`
	Destination   int64     `json:"destination"`
	Amount        int64     `json:"amount"` // minor units
	Timestamp     time.Time `json:"timestamp"`
}

// TransferCompletedEvent marks a transfer request that reached the done
// state; transactions the recovery sweeper finishes get a
// TransferRecoveredEvent instead.
type TransferCompletedEvent struct {
	TransactionID int64     `json:"transaction_id"`
	Source        int64     `json:"source"`
	Destination   int64     `json:"destination"`
	Amount        int64     `json:"amount"`
	Timestamp     time.Time `json:"timestamp"`
}

// TransferRecoveredEvent marks a stuck transaction the sweeper rolled
// forward to completion.
type TransferRecoveredEvent struct {
	TransactionID int64     `json:"transaction_id"`
	FromState     string    `json:"from_state"`
	Timestamp     time.Time `json:"timestamp"`
}

// TransferCanceledEvent marks a transaction the sweeper rolled back
// instead of completing.
type TransferCanceledEvent struct {
	TransactionID int64     `json:"transaction_id"`
	Source        int64     `json:"source"`
	Destination   int64     `json:"destination"`
	Amount        int64     `json:"amount"`
	Timestamp     time.Time `json:"timestamp"`
}
