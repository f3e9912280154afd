package ledger

import (
	"github.com/sirupsen/logrus"

	"github.com/tellerbank/teller/internal/model"
)

// DefaultLogCapacity is the default number of entries an account log holds.
const DefaultLogCapacity = 100

// Log is a capacity-bounded, append-only transaction history.
// Once full, further entries are dropped; nothing is evicted.
type Log struct {
	account  int
	capacity int
	entries  []model.Transaction
}

// NewLog creates an empty log for account. A non-positive capacity uses DefaultLogCapacity.
func NewLog(account, capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultLogCapacity
	}
	return &Log{account: account, capacity: capacity}
}

// Append records txn, reporting false if the log is full.
func (l *Log) Append(txn model.Transaction) bool {
	if len(l.entries) >= l.capacity {
		logrus.WithFields(logrus.Fields{
			"account":     l.account,
			"transaction": txn.ID,
		}).Warn("Transaction history full. Cannot record transaction.")
		return false
	}
	l.entries = append(l.entries, txn)
	return true
}

// Entries returns a copy of the recorded transactions in insertion order.
func (l *Log) Entries() []model.Transaction {
	out := make([]model.Transaction, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of recorded transactions.
func (l *Log) Len() int { return len(l.entries) }

// Full reports whether the log is at capacity.
func (l *Log) Full() bool { return len(l.entries) >= l.capacity }
