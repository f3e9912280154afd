package ledger

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/tellerbank/teller/internal/model"
)

// Current accounts may go negative down to their overdraft limit.
type Current struct {
	base
	overdraftLimit decimal.Decimal
}

// CurrentTerms configures a new current account.
type CurrentTerms struct {
	OverdraftLimit decimal.Decimal
	LogCapacity    int
}

// NewCurrent opens an empty current account.
func NewCurrent(number int, customer model.Customer, terms CurrentTerms) *Current {
	return &Current{
		base: base{
			number:   number,
			customer: customer,
			log:      NewLog(number, terms.LogCapacity),
		},
		overdraftLimit: terms.OverdraftLimit,
	}
}

func (c *Current) Kind() Kind { return KindCurrent }

// OverdraftLimit returns how far below zero the balance may go.
func (c *Current) OverdraftLimit() decimal.Decimal { return c.overdraftLimit }

func (c *Current) Withdraw(iss Issuer, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: withdrawal of %s", ErrInvalidAmount, amount)
	}
	if c.balance.Sub(amount).LessThan(c.overdraftLimit.Neg()) {
		return fmt.Errorf("%w of $%s", ErrOverdraftLimit, c.overdraftLimit.StringFixed(2))
	}
	c.debit(iss, amount)
	return nil
}

func (c *Current) Display(w io.Writer) {
	fmt.Fprintln(w, "\n--- Current Account Details ---")
	fmt.Fprintf(w, "Account Number: %d\n", c.number)
	fmt.Fprintln(w, "Account Type: Current")
	fmt.Fprintf(w, "Overdraft Limit: $%s\n", c.overdraftLimit.StringFixed(2))
	c.displayCommon(w)
}

func (c *Current) State() State {
	st := c.state(KindCurrent)
	st.OverdraftLimit = c.overdraftLimit
	return st
}
