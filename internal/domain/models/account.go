package models

// Account is one document in the `accounts` collection.
//
// Invariants: Balance is modified only by conditional $inc updates keyed
// on PendingTransactions membership; a Closed account never again gains a
// new pending transaction; PendingTransactions holds exactly the IDs of
// transactions pending or applied against this account, modulo in-flight
// writes.
type Account struct {
	ID                  int64   `bson:"_id"`
	Closed              bool    `bson:"closed"`
	Balance             int64   `bson:"balance"`
	PendingTransactions []int64 `bson:"pendingTransactions"`
}

// NewAccount returns the default document for a newly allocated account ID.
func NewAccount(id int64) Account {
	return Account{
		ID:                  id,
		Closed:              false,
		Balance:             0,
		PendingTransactions: []int64{},
	}
}

// HasPending reports whether txnID is in the account's pending set.
func (a Account) HasPending(txnID int64) bool {
	for _, id := range a.PendingTransactions {
		if id == txnID {
			return true
		}
	}
	return false
}
