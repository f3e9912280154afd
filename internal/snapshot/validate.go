package snapshot

import (
	"fmt"

	"github.com/tellerbank/teller/internal/model"
)

// ValidationError describes a single consistency violation in a snapshot.
type ValidationError struct {
	Invariant   int
	Subject     string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invariant %d [%s]: %s", e.Invariant, e.Subject, e.Description)
}

// Validate checks cross-entity consistency of a loaded snapshot.
// logCapacity bounds per-account transaction counts; zero skips that check.
func Validate(s Snapshot, logCapacity int) []ValidationError {
	var errs []ValidationError

	maxAccount, maxCustomer, maxTxn, maxLoan := -1, -1, -1, -1
	seenAccount := make(map[int]bool)
	seenPIN := make(map[string]int)

	for _, a := range s.Accounts {
		subject := fmt.Sprintf("account %d", a.Number)

		// Invariant 1: Account numbers are unique.
		if seenAccount[a.Number] {
			errs = append(errs, ValidationError{
				Invariant:   1,
				Subject:     subject,
				Description: "duplicate account number",
			})
		}
		seenAccount[a.Number] = true

		// Invariant 2: PINs are well-formed and unique across customers.
		if !model.ValidPIN(a.Customer.PIN) {
			errs = append(errs, ValidationError{
				Invariant:   2,
				Subject:     subject,
				Description: "customer PIN is not exactly 4 digits",
			})
		} else if other, dup := seenPIN[a.Customer.PIN]; dup {
			errs = append(errs, ValidationError{
				Invariant:   2,
				Subject:     subject,
				Description: fmt.Sprintf("customer PIN also used by account %d", other),
			})
		} else {
			seenPIN[a.Customer.PIN] = a.Number
		}

		// Invariant 3: Transaction logs fit their capacity.
		if logCapacity > 0 && len(a.Transactions) > logCapacity {
			errs = append(errs, ValidationError{
				Invariant:   3,
				Subject:     subject,
				Description: fmt.Sprintf("%d transactions exceed capacity %d", len(a.Transactions), logCapacity),
			})
		}

		maxAccount = max(maxAccount, a.Number)
		maxCustomer = max(maxCustomer, a.Customer.ID)
		for _, txn := range a.Transactions {
			maxTxn = max(maxTxn, txn.ID)
		}
	}

	seenLoan := make(map[int]bool)
	for _, l := range s.Loans {
		subject := fmt.Sprintf("loan %d", l.ID)

		// Invariant 4: Loan IDs are unique.
		if seenLoan[l.ID] {
			errs = append(errs, ValidationError{
				Invariant:   4,
				Subject:     subject,
				Description: "duplicate loan ID",
			})
		}
		seenLoan[l.ID] = true

		// Invariant 5: Remaining balance lies within [0, principal + interest].
		ceiling := l.Principal.Add(l.TotalInterest())
		if l.RemainingBalance.IsNegative() || l.RemainingBalance.GreaterThan(ceiling) {
			errs = append(errs, ValidationError{
				Invariant:   5,
				Subject:     subject,
				Description: fmt.Sprintf("remaining balance %s outside [0, %s]", l.RemainingBalance, ceiling.StringFixed(2)),
			})
		}

		maxLoan = max(maxLoan, l.ID)
	}

	// Invariant 6: Every counter is ahead of the IDs it has issued.
	counters := []struct {
		name   string
		next   int
		issued int
	}{
		{"next account number", s.Counters.NextAccount, maxAccount},
		{"next customer ID", s.Counters.NextCustomer, maxCustomer},
		{"next transaction ID", s.Counters.NextTransaction, maxTxn},
		{"next loan ID", s.Counters.NextLoan, maxLoan},
	}
	for _, c := range counters {
		if c.issued >= 0 && c.next <= c.issued {
			errs = append(errs, ValidationError{
				Invariant:   6,
				Subject:     c.name,
				Description: fmt.Sprintf("counter %d would reissue %d", c.next, c.issued),
			})
		}
	}

	return errs
}
