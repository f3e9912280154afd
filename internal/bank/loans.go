package bank

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/tellerbank/teller/internal/id"
	"github.com/tellerbank/teller/internal/ledger"
	"github.com/tellerbank/teller/internal/loans"
	"github.com/tellerbank/teller/internal/model"
)

// PaymentResult reports the outcome of a loan payment.
type PaymentResult struct {
	LoanID    int
	Applied   decimal.Decimal
	Remaining decimal.Decimal
	Repaid    bool
}

// CheckLoanAmount reports whether principal is an acceptable loan amount for
// account number, before any duration is known.
func (b *Bank) CheckLoanAmount(number int, principal decimal.Decimal) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	a, err := b.account(number)
	if err != nil {
		return err
	}
	return b.checkLoanAmount(a, principal)
}

func (b *Bank) checkLoanAmount(a ledger.Account, principal decimal.Decimal) error {
	p := b.policy
	if principal.LessThan(p.MinPrincipal) || principal.GreaterThan(p.MaxPrincipal) {
		return fmt.Errorf("%w: amount must be between $%s and $%s",
			ErrInvalidLoanTerms, p.MinPrincipal.StringFixed(0), p.MaxPrincipal.StringFixed(0))
	}
	if principal.GreaterThan(p.LoanBalanceMultiple.Mul(a.Balance())) {
		return fmt.Errorf("%w: %sx account balance ($%s)",
			ErrLoanExceedsBalance, p.LoanBalanceMultiple.String(), a.Balance().StringFixed(2))
	}
	return nil
}

// ApplyForLoan issues a loan to the customer of account number and credits
// the principal to that account as a Loan Disbursement.
func (b *Bank) ApplyForLoan(number int, pin string, principal decimal.Decimal, months int) (loans.Loan, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	a, err := b.authorize(number, pin)
	if err != nil {
		return loans.Loan{}, err
	}
	customerID := a.Customer().ID
	p := b.policy

	if l := b.activeLoan(customerID); l != nil {
		return loans.Loan{}, fmt.Errorf("%w: loan %d", ErrActiveLoan, l.ID)
	}
	if err := b.checkLoanAmount(a, principal); err != nil {
		return loans.Loan{}, err
	}
	if months < p.MinLoanMonths || months > p.MaxLoanMonths {
		return loans.Loan{}, fmt.Errorf("%w: duration must be between %d and %d months",
			ErrInvalidLoanTerms, p.MinLoanMonths, p.MaxLoanMonths)
	}
	if len(b.loans) >= p.MaxLoans {
		return loans.Loan{}, ErrLoanCapacity
	}

	l := loans.New(b.seq.Next(id.Loan), customerID, principal, p.LoanInterestRate, months)
	if _, err := a.Credit(b.clerk(), model.TransactionLoanDisbursement, principal); err != nil {
		return loans.Loan{}, err
	}
	b.loans = append(b.loans, l)

	logrus.WithFields(logrus.Fields{"loan": l.ID, "account": number, "principal": principal.String()}).Debug("loan issued")
	return *l, nil
}

// LoanDetails returns a copy of a loan, active or closed, after verifying
// the pin of account number.
func (b *Bank) LoanDetails(number int, pin string, loanID int) (loans.Loan, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, err := b.authorize(number, pin); err != nil {
		return loans.Loan{}, err
	}
	l := b.findLoan(loanID)
	if l == nil {
		return loans.Loan{}, fmt.Errorf("loan %d: %w", loanID, ErrLoanNotFound)
	}
	return *l, nil
}

// PayLoan applies a payment to a loan after verifying the pin of account
// number. Payments above the remaining balance are clamped. No account
// balance is touched.
func (b *Bank) PayLoan(number int, pin string, loanID int, amount decimal.Decimal) (PaymentResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, err := b.authorize(number, pin); err != nil {
		return PaymentResult{}, err
	}
	l := b.findLoan(loanID)
	if l == nil {
		return PaymentResult{}, fmt.Errorf("loan %d: %w", loanID, ErrLoanNotFound)
	}

	applied, err := l.MakePayment(amount)
	if err != nil {
		return PaymentResult{}, err
	}

	logrus.WithFields(logrus.Fields{"loan": loanID, "applied": applied.String()}).Debug("loan payment")
	return PaymentResult{
		LoanID:    loanID,
		Applied:   applied,
		Remaining: l.RemainingBalance,
		Repaid:    !l.Active(),
	}, nil
}
