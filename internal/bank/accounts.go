package bank

import (
	"fmt"
	"regexp"
	"slices"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/tellerbank/teller/internal/id"
	"github.com/tellerbank/teller/internal/ledger"
	"github.com/tellerbank/teller/internal/model"
)

var singleLine = regexp.MustCompile(`^[^\r\n]*$`)

// CreateAccountParams holds the inputs for opening an account.
type CreateAccountParams struct {
	Name           string
	Address        string
	Phone          string
	PIN            string
	Kind           ledger.Kind
	InitialDeposit decimal.Decimal
}

// Validate checks the customer fields. Snapshot lines cannot hold line breaks.
func (p CreateAccountParams) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required, validation.Match(singleLine)),
		validation.Field(&p.Address, validation.Match(singleLine)),
		validation.Field(&p.Phone, validation.Match(singleLine)),
	)
}

// InterestResult reports interest credited to one savings account.
type InterestResult struct {
	Account  int
	Interest decimal.Decimal
	Balance  decimal.Decimal
}

// CreateAccount opens a savings or current account for a new customer.
// A positive initial deposit is recorded as the first Deposit transaction.
func (b *Bank) CreateAccount(p CreateAccountParams) (ledger.State, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.accounts) >= b.policy.MaxAccounts {
		return ledger.State{}, ErrAccountCapacity
	}
	if !model.ValidPIN(p.PIN) {
		return ledger.State{}, ErrInvalidPIN
	}
	if b.pinInUse(p.PIN) {
		return ledger.State{}, fmt.Errorf("%w: please choose a different PIN", ErrPINInUse)
	}
	if p.Kind != ledger.KindSavings && p.Kind != ledger.KindCurrent {
		return ledger.State{}, fmt.Errorf("%w: %q", ErrInvalidAccountType, string(p.Kind))
	}
	if err := p.Validate(); err != nil {
		return ledger.State{}, fmt.Errorf("%w: %v", ErrInvalidCustomer, err)
	}
	if p.InitialDeposit.IsNegative() {
		return ledger.State{}, fmt.Errorf("%w: initial deposit of %s", ErrInvalidAmount, p.InitialDeposit)
	}

	customer := model.Customer{
		ID:      b.seq.Next(id.Customer),
		Name:    p.Name,
		Address: p.Address,
		Phone:   p.Phone,
		PIN:     p.PIN,
	}
	number := b.seq.Next(id.Account)

	var acct ledger.Account
	switch p.Kind {
	case ledger.KindSavings:
		acct = ledger.NewSavings(number, customer, ledger.SavingsTerms{
			InterestRate:   b.policy.SavingsInterestRate,
			MinimumBalance: b.policy.MinimumBalance,
			LogCapacity:    b.policy.MaxTransactions,
		})
	case ledger.KindCurrent:
		acct = ledger.NewCurrent(number, customer, ledger.CurrentTerms{
			OverdraftLimit: b.policy.OverdraftLimit,
			LogCapacity:    b.policy.MaxTransactions,
		})
	}

	if p.InitialDeposit.IsPositive() {
		if _, err := acct.Deposit(b.clerk(), p.InitialDeposit); err != nil {
			return ledger.State{}, err
		}
	}

	b.accounts = append(b.accounts, acct)
	logrus.WithFields(logrus.Fields{"account": number, "type": p.Kind, "customer": customer.ID}).Debug("account created")
	return acct.State(), nil
}

// CloseAccount removes an account whose customer has no active loan.
// Remaining accounts keep their relative order.
func (b *Bank) CloseAccount(number int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.find(number)
	if i < 0 {
		return fmt.Errorf("account %d: %w", number, ErrAccountNotFound)
	}
	if l := b.activeLoan(b.accounts[i].Customer().ID); l != nil {
		return fmt.Errorf("cannot close account %d: %w (loan %d)", number, ErrActiveLoan, l.ID)
	}

	b.accounts = slices.Delete(b.accounts, i, i+1)
	logrus.WithField("account", number).Debug("account closed")
	return nil
}

// Deposit credits an account after verifying pin. Returns the new balance.
func (b *Bank) Deposit(number int, pin string, amount decimal.Decimal) (decimal.Decimal, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	a, err := b.authorize(number, pin)
	if err != nil {
		return decimal.Zero, err
	}
	bal, err := a.Deposit(b.clerk(), amount)
	if err != nil {
		return bal, err
	}
	logrus.WithFields(logrus.Fields{"account": number, "amount": amount.String()}).Debug("deposit")
	return bal, nil
}

// Withdraw debits an account after verifying pin. Returns the new balance.
func (b *Bank) Withdraw(number int, pin string, amount decimal.Decimal) (decimal.Decimal, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	a, err := b.authorize(number, pin)
	if err != nil {
		return decimal.Zero, err
	}
	if err := a.Withdraw(b.clerk(), amount); err != nil {
		return a.Balance(), err
	}
	logrus.WithFields(logrus.Fields{"account": number, "amount": amount.String()}).Debug("withdrawal")
	return a.Balance(), nil
}

// Transfer moves amount between two accounts, authorized by the source
// account's pin. The source records a Withdrawal, the destination a Deposit,
// and both record the same Transfer entry. If the withdrawal is rejected
// nothing changes on either side.
func (b *Bank) Transfer(from, to int, pin string, amount decimal.Decimal) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if from == to {
		return ErrSameAccount
	}
	src, err := b.account(from)
	if err != nil {
		return fmt.Errorf("source %w", err)
	}
	dst, err := b.account(to)
	if err != nil {
		return fmt.Errorf("destination %w", err)
	}
	if src.Customer().PIN != pin {
		return fmt.Errorf("account %d: %w", from, ErrPINMismatch)
	}

	c := b.clerk()
	if err := src.Withdraw(c, amount); err != nil {
		return err
	}
	if _, err := dst.Deposit(c, amount); err != nil {
		return err
	}
	txn := c.Issue(model.TransactionTransfer, amount, from, to)
	src.Record(txn)
	dst.Record(txn)

	logrus.WithFields(logrus.Fields{"from": from, "to": to, "amount": amount.String()}).Debug("transfer")
	return nil
}

// ApplyInterest credits interest to every savings account in registry order.
// An empty result means no savings accounts exist.
func (b *Bank) ApplyInterest() []InterestResult {
	b.mu.Lock()
	defer b.mu.Unlock()

	var results []InterestResult
	c := b.clerk()
	for _, a := range b.accounts {
		s, ok := a.(*ledger.Savings)
		if !ok {
			continue
		}
		interest := s.ApplyInterest(c)
		results = append(results, InterestResult{Account: s.Number(), Interest: interest, Balance: s.Balance()})
	}
	return results
}
