package models

import "time"

// State is one of the six states a Transaction can occupy. State names are
// the literal strings persisted in the store, since they appear in queries.
type State string

const (
	StateInitial   State = "initial"
	StatePending   State = "pending"
	StateApplied   State = "applied"
	StateDone      State = "done"
	StateCanceling State = "canceling"
	StateCanceled  State = "canceled"
)

// Terminal reports whether no further transition is legal from this state.
func (s State) Terminal() bool {
	return s == StateDone || s == StateCanceled
}

// Transaction is one document in the `transactions` collection. It advances
// monotonically along one of two paths and is never reversed:
//
//	roll-forward: initial -> pending -> applied -> done
//	roll-back:    pending -> canceling -> canceled
type Transaction struct {
	ID           int64     `bson:"_id"`
	Source       int64     `bson:"source"`
	Destination  int64     `bson:"destination"`
	Value        int64     `bson:"value"`
	State        State     `bson:"state"`
	LastModified time.Time `bson:"lastModified"`
}
