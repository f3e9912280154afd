// Package loans implements simple-interest, fixed-payment loans.
package loans

import (
	"errors"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

// ErrInvalidPayment is returned for non-positive payment amounts.
var ErrInvalidPayment = errors.New("payment amount must be positive")

var monthsPerYear = decimal.NewFromInt(12)

// Loan is a fixed-rate loan whose schedule is computed once at creation.
type Loan struct {
	ID               int
	CustomerID       int
	Principal        decimal.Decimal
	InterestRate     decimal.Decimal // annual, e.g. 0.05
	DurationMonths   int
	MonthlyPayment   decimal.Decimal
	RemainingBalance decimal.Decimal
}

// New computes the repayment schedule for a loan. Terms are not validated here.
//
//	totalInterest    = principal × rate × months/12
//	remainingBalance = principal + totalInterest
//	monthlyPayment   = remainingBalance / months
func New(id, customerID int, principal, rate decimal.Decimal, months int) *Loan {
	m := decimal.NewFromInt(int64(months))
	totalInterest := principal.Mul(rate).Mul(m).Div(monthsPerYear)
	remaining := principal.Add(totalInterest)

	monthly := decimal.Zero
	if months > 0 {
		monthly = remaining.Div(m)
	}

	return &Loan{
		ID:               id,
		CustomerID:       customerID,
		Principal:        principal,
		InterestRate:     rate,
		DurationMonths:   months,
		MonthlyPayment:   monthly,
		RemainingBalance: remaining,
	}
}

// TotalInterest returns the simple interest charged over the whole term.
func (l *Loan) TotalInterest() decimal.Decimal {
	return l.Principal.Mul(l.InterestRate).Mul(decimal.NewFromInt(int64(l.DurationMonths))).Div(monthsPerYear)
}

// Active reports whether any balance remains.
func (l *Loan) Active() bool {
	return l.RemainingBalance.IsPositive()
}

// MakePayment reduces the remaining balance by amount, clamped so the balance
// never goes below zero. It returns the amount actually applied.
func (l *Loan) MakePayment(amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrInvalidPayment, amount)
	}
	if amount.GreaterThan(l.RemainingBalance) {
		amount = l.RemainingBalance
	}
	l.RemainingBalance = l.RemainingBalance.Sub(amount)
	return amount, nil
}

// Display writes the loan's terms and current balance.
func (l *Loan) Display(w io.Writer) {
	fmt.Fprintln(w, "\n--- Loan Details ---")
	fmt.Fprintf(w, "Loan ID: %d\n", l.ID)
	fmt.Fprintf(w, "Customer ID: %d\n", l.CustomerID)
	fmt.Fprintf(w, "Principal: $%s\n", l.Principal.StringFixed(2))
	fmt.Fprintf(w, "Interest Rate: %s%%\n", l.InterestRate.Mul(decimal.NewFromInt(100)).String())
	fmt.Fprintf(w, "Duration: %d months\n", l.DurationMonths)
	fmt.Fprintf(w, "Monthly Payment: $%s\n", l.MonthlyPayment.StringFixed(2))
	fmt.Fprintf(w, "Remaining Balance: $%s\n", l.RemainingBalance.StringFixed(2))
}
