package ledger

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/tellerbank/teller/internal/model"
)

// Savings accounts earn interest and must stay at or above a minimum balance.
type Savings struct {
	base
	interestRate   decimal.Decimal
	minimumBalance decimal.Decimal
}

// SavingsTerms configures a new savings account.
type SavingsTerms struct {
	InterestRate   decimal.Decimal
	MinimumBalance decimal.Decimal
	LogCapacity    int
}

// NewSavings opens an empty savings account.
func NewSavings(number int, customer model.Customer, terms SavingsTerms) *Savings {
	return &Savings{
		base: base{
			number:   number,
			customer: customer,
			log:      NewLog(number, terms.LogCapacity),
		},
		interestRate:   terms.InterestRate,
		minimumBalance: terms.MinimumBalance,
	}
}

func (s *Savings) Kind() Kind { return KindSavings }

// InterestRate returns the per-application interest rate.
func (s *Savings) InterestRate() decimal.Decimal { return s.interestRate }

// MinimumBalance returns the withdrawal floor.
func (s *Savings) MinimumBalance() decimal.Decimal { return s.minimumBalance }

func (s *Savings) Withdraw(iss Issuer, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: withdrawal of %s", ErrInvalidAmount, amount)
	}
	if s.balance.Sub(amount).LessThan(s.minimumBalance) {
		return fmt.Errorf("%w: must maintain minimum balance of $%s", ErrMinimumBalance, s.minimumBalance.StringFixed(2))
	}
	s.debit(iss, amount)
	return nil
}

// ApplyInterest credits balance × rate and records an Interest transaction.
// Returns the interest credited.
func (s *Savings) ApplyInterest(iss Issuer) decimal.Decimal {
	interest := s.balance.Mul(s.interestRate)
	s.balance = s.balance.Add(interest)
	s.log.Append(iss.Issue(model.TransactionInterest, interest, s.number, model.NoAccount))
	return interest
}

func (s *Savings) Display(w io.Writer) {
	fmt.Fprintln(w, "\n--- Savings Account Details ---")
	fmt.Fprintf(w, "Account Number: %d\n", s.number)
	fmt.Fprintln(w, "Account Type: Savings")
	fmt.Fprintf(w, "Interest Rate: %s%%\n", percent(s.interestRate))
	fmt.Fprintf(w, "Minimum Balance: $%s\n", s.minimumBalance.StringFixed(2))
	s.displayCommon(w)
}

func (s *Savings) State() State {
	st := s.state(KindSavings)
	st.InterestRate = s.interestRate
	st.MinimumBalance = s.minimumBalance
	return st
}
