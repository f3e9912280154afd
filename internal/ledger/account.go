// Package ledger implements the account variants and their transaction logs.
package ledger

import (
	"errors"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/tellerbank/teller/internal/model"
)

// Kind tags an account variant. The values double as the on-disk tags.
type Kind string

const (
	KindSavings Kind = "Savings"
	KindCurrent Kind = "Current"
)

var (
	ErrInvalidAmount  = errors.New("amount must be positive")
	ErrMinimumBalance = errors.New("withdrawal would breach minimum balance")
	ErrOverdraftLimit = errors.New("withdrawal would exceed overdraft limit")
	ErrUnknownKind    = errors.New("unknown account type")
)

// ParseKind maps an account type tag to its Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindSavings, KindCurrent:
		return Kind(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Issuer stamps new transactions with an ID and a time.
type Issuer interface {
	Issue(typ model.TransactionType, amount decimal.Decimal, from, to int) model.Transaction
}

// Account is the capability set shared by every account variant.
type Account interface {
	Number() int
	Kind() Kind
	Balance() decimal.Decimal
	Customer() model.Customer
	Transactions() []model.Transaction

	// Deposit credits amount and records a Deposit. Returns the new balance.
	Deposit(iss Issuer, amount decimal.Decimal) (decimal.Decimal, error)
	// Credit is Deposit with a caller-chosen transaction type.
	Credit(iss Issuer, typ model.TransactionType, amount decimal.Decimal) (decimal.Decimal, error)
	// Withdraw debits amount if the variant's floor allows it.
	Withdraw(iss Issuer, amount decimal.Decimal) error
	// Record appends an already-issued transaction to the log.
	Record(txn model.Transaction) bool

	Display(w io.Writer)
	State() State
}

// State is the persisted form of any account variant.
type State struct {
	Kind         Kind
	Number       int
	Balance      decimal.Decimal
	Customer     model.Customer
	Transactions []model.Transaction

	InterestRate   decimal.Decimal // Savings only
	MinimumBalance decimal.Decimal // Savings only
	OverdraftLimit decimal.Decimal // Current only
}

// FromState rebuilds an account from its persisted form.
func FromState(s State, logCapacity int) (Account, error) {
	b := base{
		number:   s.Number,
		balance:  s.Balance,
		customer: s.Customer,
		log:      NewLog(s.Number, logCapacity),
	}
	for _, txn := range s.Transactions {
		b.log.Append(txn)
	}

	switch s.Kind {
	case KindSavings:
		return &Savings{base: b, interestRate: s.InterestRate, minimumBalance: s.MinimumBalance}, nil
	case KindCurrent:
		return &Current{base: b, overdraftLimit: s.OverdraftLimit}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, string(s.Kind))
}

// base holds the fields and behavior every variant shares.
type base struct {
	number   int
	balance  decimal.Decimal
	customer model.Customer
	log      *Log
}

func (b *base) Number() int                       { return b.number }
func (b *base) Balance() decimal.Decimal          { return b.balance }
func (b *base) Customer() model.Customer          { return b.customer }
func (b *base) Transactions() []model.Transaction { return b.log.Entries() }
func (b *base) Record(txn model.Transaction) bool { return b.log.Append(txn) }

func (b *base) Deposit(iss Issuer, amount decimal.Decimal) (decimal.Decimal, error) {
	return b.Credit(iss, model.TransactionDeposit, amount)
}

func (b *base) Credit(iss Issuer, typ model.TransactionType, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return b.balance, fmt.Errorf("%w: deposit of %s", ErrInvalidAmount, amount)
	}
	b.balance = b.balance.Add(amount)
	b.log.Append(iss.Issue(typ, amount, b.number, model.NoAccount))
	return b.balance, nil
}

// debit applies a withdrawal that the variant has already approved.
func (b *base) debit(iss Issuer, amount decimal.Decimal) {
	b.balance = b.balance.Sub(amount)
	b.log.Append(iss.Issue(model.TransactionWithdrawal, amount, b.number, model.NoAccount))
}

func (b *base) state(kind Kind) State {
	return State{
		Kind:         kind,
		Number:       b.number,
		Balance:      b.balance,
		Customer:     b.customer,
		Transactions: b.log.Entries(),
	}
}

func (b *base) displayCommon(w io.Writer) {
	fmt.Fprintf(w, "Current Balance: $%s\n", b.balance.StringFixed(2))
	fmt.Fprintln(w, "\n--- Customer Details ---")
	b.customer.Display(w)
}

// percent renders a rate such as 0.025 as "2.5".
func percent(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).String()
}
