// Package bank owns every account and loan and enforces the policies that
// span them: PIN checks, transfers, loan eligibility and account closure.
package bank

import (
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tellerbank/teller/internal/config"
	"github.com/tellerbank/teller/internal/id"
	"github.com/tellerbank/teller/internal/ledger"
	"github.com/tellerbank/teller/internal/loans"
	"github.com/tellerbank/teller/internal/model"
)

// Policy holds the limits and rates the bank applies.
type Policy struct {
	MaxAccounts     int
	MaxLoans        int
	MaxTransactions int // per account log

	SavingsInterestRate decimal.Decimal
	MinimumBalance      decimal.Decimal
	OverdraftLimit      decimal.Decimal

	LoanInterestRate    decimal.Decimal
	MinPrincipal        decimal.Decimal
	MaxPrincipal        decimal.Decimal
	LoanBalanceMultiple decimal.Decimal
	MinLoanMonths       int
	MaxLoanMonths       int
}

// DefaultPolicy returns the policy of config.Default.
func DefaultPolicy() Policy {
	return PolicyFromConfig(config.Default(""))
}

// PolicyFromConfig converts configured limits and rates into a Policy.
func PolicyFromConfig(cfg *config.Config) Policy {
	return Policy{
		MaxAccounts:         cfg.Limits.MaxAccounts,
		MaxLoans:            cfg.Limits.MaxLoans,
		MaxTransactions:     cfg.Limits.MaxTransactions,
		SavingsInterestRate: decimal.NewFromFloat(cfg.Savings.InterestRate),
		MinimumBalance:      decimal.NewFromFloat(cfg.Savings.MinimumBalance),
		OverdraftLimit:      decimal.NewFromFloat(cfg.Current.OverdraftLimit),
		LoanInterestRate:    decimal.NewFromFloat(cfg.Loans.InterestRate),
		MinPrincipal:        decimal.NewFromFloat(cfg.Loans.MinPrincipal),
		MaxPrincipal:        decimal.NewFromFloat(cfg.Loans.MaxPrincipal),
		LoanBalanceMultiple: decimal.NewFromFloat(cfg.Loans.BalanceMultiple),
		MinLoanMonths:       cfg.Loans.MinMonths,
		MaxLoanMonths:       cfg.Loans.MaxMonths,
	}
}

// Option configures a Bank.
type Option func(*Bank)

// WithPolicy replaces the default policy.
func WithPolicy(p Policy) Option {
	return func(b *Bank) { b.policy = p }
}

// WithClock sets the time source used to stamp transactions.
func WithClock(now func() time.Time) Option {
	return func(b *Bank) { b.now = now }
}

// Bank is the session's single registry of accounts and loans.
// All state is mutated only through its methods.
type Bank struct {
	mu       sync.Mutex
	name     string
	policy   Policy
	seq      *id.Sequencer
	accounts []ledger.Account
	loans    []*loans.Loan
	now      func() time.Time
}

// New creates an empty bank.
func New(name string, opts ...Option) *Bank {
	b := &Bank{
		name:   name,
		policy: DefaultPolicy(),
		seq:    id.NewSequencer(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Name returns the bank's name.
func (b *Bank) Name() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.name
}

// Policy returns the limits and rates in force.
func (b *Bank) Policy() Policy {
	return b.policy
}

// Counters returns the position of every ID sequencer.
func (b *Bank) Counters() id.Counters {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.seq.Counters()
}

// clerk stamps transactions with the bank's sequencer and clock.
type clerk struct {
	seq *id.Sequencer
	now func() time.Time
}

func (c clerk) Issue(typ model.TransactionType, amount decimal.Decimal, from, to int) model.Transaction {
	return model.Transaction{
		ID:     c.seq.Next(id.Transaction),
		Time:   c.now().Truncate(time.Second),
		Type:   typ,
		Amount: amount,
		From:   from,
		To:     to,
	}
}

func (b *Bank) clerk() clerk {
	return clerk{seq: b.seq, now: b.now}
}

// find returns the registry index of an account, or -1.
func (b *Bank) find(number int) int {
	for i, a := range b.accounts {
		if a.Number() == number {
			return i
		}
	}
	return -1
}

func (b *Bank) account(number int) (ledger.Account, error) {
	i := b.find(number)
	if i < 0 {
		return nil, fmt.Errorf("account %d: %w", number, ErrAccountNotFound)
	}
	return b.accounts[i], nil
}

// authorize resolves an account and checks pin against its customer.
func (b *Bank) authorize(number int, pin string) (ledger.Account, error) {
	a, err := b.account(number)
	if err != nil {
		return nil, err
	}
	if a.Customer().PIN != pin {
		return nil, fmt.Errorf("account %d: %w", number, ErrPINMismatch)
	}
	return a, nil
}

func (b *Bank) pinInUse(pin string) bool {
	for _, a := range b.accounts {
		if a.Customer().PIN == pin {
			return true
		}
	}
	return false
}

func (b *Bank) activeLoan(customerID int) *loans.Loan {
	for _, l := range b.loans {
		if l.CustomerID == customerID && l.Active() {
			return l
		}
	}
	return nil
}

func (b *Bank) findLoan(loanID int) *loans.Loan {
	for _, l := range b.loans {
		if l.ID == loanID {
			return l
		}
	}
	return nil
}

// VerifyPIN checks pin against the customer of account number.
func (b *Bank) VerifyPIN(number int, pin string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, err := b.authorize(number, pin)
	return err
}

// PINInUse reports whether any customer already holds pin.
func (b *Bank) PINInUse(pin string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pinInUse(pin)
}

// Account returns a copy of one account's state.
func (b *Bank) Account(number int) (ledger.State, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	a, err := b.account(number)
	if err != nil {
		return ledger.State{}, err
	}
	return a.State(), nil
}

// Accounts returns a copy of every account's state in registry order.
func (b *Bank) Accounts() []ledger.State {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]ledger.State, len(b.accounts))
	for i, a := range b.accounts {
		out[i] = a.State()
	}
	return out
}

// Loans returns a copy of every loan, active or closed, in issue order.
func (b *Bank) Loans() []loans.Loan {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]loans.Loan, len(b.loans))
	for i, l := range b.loans {
		out[i] = *l
	}
	return out
}
