package shell

import (
	"errors"
	"fmt"

	"github.com/tellerbank/teller/internal/bank"
)

const loanMenu = `
--- Loan Management ---
1. Apply for a Loan
2. View Loan Details
3. Make Loan Payment
4. Back to Main Menu
`

func (s *Shell) manageLoans() error {
	n, err := s.in.number("Enter account number: ")
	if err != nil {
		return err
	}
	if !s.exists(n, "Account") {
		return nil
	}
	pin, err := s.in.pin()
	if err != nil {
		return err
	}
	if err := s.bank.VerifyPIN(n, pin); err != nil {
		fmt.Fprintln(s.out, "Invalid PIN!")
		return nil
	}

	fmt.Fprint(s.out, loanMenu)
	choice, err := s.in.number("Enter choice (1-4): ")
	if err != nil {
		return err
	}
	switch choice {
	case 1:
		return s.applyForLoan(n, pin)
	case 2:
		return s.viewLoan(n, pin)
	case 3:
		return s.payLoan(n, pin)
	case 4:
	default:
		fmt.Fprintln(s.out, "Invalid choice!")
	}
	return nil
}

func (s *Shell) hasActiveLoan(number int) bool {
	st, err := s.bank.Account(number)
	if err != nil {
		return false
	}
	for _, l := range s.bank.Loans() {
		if l.CustomerID == st.Customer.ID && l.Active() {
			return true
		}
	}
	return false
}

func (s *Shell) applyForLoan(number int, pin string) error {
	if s.hasActiveLoan(number) {
		fmt.Fprintln(s.out, "Customer already has an active loan!")
		return nil
	}

	p := s.bank.Policy()
	principal, err := s.in.amount(fmt.Sprintf("Enter loan amount ($%s-$%s): $",
		p.MinPrincipal.String(), p.MaxPrincipal.String()))
	if err != nil {
		return err
	}
	if err := s.bank.CheckLoanAmount(number, principal); err != nil {
		s.report(err)
		return nil
	}
	months, err := s.in.number(fmt.Sprintf("Enter loan duration (%d-%d months): ", p.MinLoanMonths, p.MaxLoanMonths))
	if err != nil {
		return err
	}

	l, err := s.bank.ApplyForLoan(number, pin, principal, months)
	if err != nil {
		s.report(err)
		return nil
	}
	fmt.Fprintf(s.out, "Loan approved! $%s deposited to account %d\n", principal.StringFixed(2), number)
	l.Display(s.out)
	return nil
}

func (s *Shell) viewLoan(number int, pin string) error {
	loanID, err := s.in.number("Enter loan ID: ")
	if err != nil {
		return err
	}
	l, err := s.bank.LoanDetails(number, pin, loanID)
	if err != nil {
		s.loanError(loanID, err)
		return nil
	}
	l.Display(s.out)
	return nil
}

func (s *Shell) payLoan(number int, pin string) error {
	loanID, err := s.in.number("Enter loan ID: ")
	if err != nil {
		return err
	}
	if _, err := s.bank.LoanDetails(number, pin, loanID); err != nil {
		s.loanError(loanID, err)
		return nil
	}
	amt, err := s.in.amount("Enter payment amount: $")
	if err != nil {
		return err
	}

	res, err := s.bank.PayLoan(number, pin, loanID, amt)
	if err != nil {
		s.report(err)
		return nil
	}
	if res.Applied.LessThan(amt) {
		fmt.Fprintf(s.out, "Payment exceeds remaining balance. Paying off $%s\n", res.Applied.StringFixed(2))
	}
	fmt.Fprintf(s.out, "Payment of $%s applied to loan %d\n", res.Applied.StringFixed(2), loanID)
	fmt.Fprintf(s.out, "Remaining balance: $%s\n", res.Remaining.StringFixed(2))
	if res.Repaid {
		fmt.Fprintln(s.out, "Loan fully repaid!")
	}
	return nil
}

func (s *Shell) loanError(loanID int, err error) {
	if errors.Is(err, bank.ErrLoanNotFound) {
		fmt.Fprintf(s.out, "Loan %d not found!\n", loanID)
		return
	}
	s.report(err)
}
