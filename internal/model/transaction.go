package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a ledger entry.
type TransactionType string

const (
	TransactionDeposit          TransactionType = "Deposit"
	TransactionWithdrawal       TransactionType = "Withdrawal"
	TransactionInterest         TransactionType = "Interest"
	TransactionTransfer         TransactionType = "Transfer"
	TransactionLoanDisbursement TransactionType = "Loan Disbursement"
)

// NoAccount marks a transaction without a destination account.
const NoAccount = -1

// TimeFormat is the layout of transaction timestamps on disk and on screen.
const TimeFormat = "2006-01-02 15:04:05"

// Transaction is an immutable record of one balance-affecting event.
type Transaction struct {
	ID     int
	Time   time.Time
	Type   TransactionType
	Amount decimal.Decimal
	From   int
	To     int // NoAccount unless Type is TransactionTransfer
}

// HasDestination reports whether the transaction names a destination account.
func (t Transaction) HasDestination() bool {
	return t.To != NoAccount
}

// Accounts renders the account linkage, e.g. "101" or "101 -> 102".
func (t Transaction) Accounts() string {
	if t.HasDestination() {
		return fmt.Sprintf("%d -> %d", t.From, t.To)
	}
	return fmt.Sprintf("%d", t.From)
}

// Timestamp formats Time with TimeFormat.
func (t Transaction) Timestamp() string {
	return t.Time.Format(TimeFormat)
}
