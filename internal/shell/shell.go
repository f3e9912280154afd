// Package shell runs the interactive numbered menu over a Bank.
package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/tellerbank/teller/internal/bank"
	"github.com/tellerbank/teller/internal/ledger"
	"github.com/tellerbank/teller/internal/model"
)

// Shell reads menu choices from an input stream and drives a Bank.
type Shell struct {
	bank *bank.Bank
	in   *input
	out  io.Writer

	// AfterSave, if set, runs after each successful save.
	AfterSave func(path string)
}

// New creates a shell over b reading from r and writing to w.
func New(b *bank.Bank, r io.Reader, w io.Writer) *Shell {
	return &Shell{
		bank: b,
		in:   &input{sc: bufio.NewScanner(r), out: w},
		out:  w,
	}
}

const menu = `
=== %s ===
1. Create New Account
2. Display Account Details
3. Deposit Money
4. Withdraw Money
5. Transfer Money
6. Close an Account
7. Display All Accounts
8. Display Transaction History
9. Apply Interest to Savings Accounts
10. Save Data to File
11. Load Data from File
12. Manage Loans
0. Exit
`

// Run shows the menu until the user exits or input ends. Rejected
// operations are reported and the loop continues.
func (s *Shell) Run() error {
	name := s.bank.Name()
	fmt.Fprintf(s.out, "Welcome to %s!\n", name)

	for {
		fmt.Fprintf(s.out, menu, name)
		choice, err := s.in.number("Enter your choice (0-12): ")
		if err != nil {
			return s.finish(err)
		}
		if choice == 0 {
			fmt.Fprintf(s.out, "Thank you for using %s. Goodbye!\n", name)
			return nil
		}
		if err := s.dispatch(choice); err != nil {
			return s.finish(err)
		}
	}
}

func (s *Shell) finish(err error) error {
	if errors.Is(err, errQuit) {
		return nil
	}
	return err
}

func (s *Shell) dispatch(choice int) error {
	switch choice {
	case 1:
		return s.createAccount()
	case 2:
		return s.displayAccount()
	case 3:
		return s.deposit()
	case 4:
		return s.withdraw()
	case 5:
		return s.transfer()
	case 6:
		return s.closeAccount()
	case 7:
		s.bank.DisplayAll(s.out)
	case 8:
		return s.history()
	case 9:
		s.applyInterest()
	case 10:
		return s.save()
	case 11:
		return s.load()
	case 12:
		return s.manageLoans()
	default:
		fmt.Fprintln(s.out, "Invalid choice. Please try again.")
	}
	return nil
}

func (s *Shell) report(err error) {
	fmt.Fprintf(s.out, "Error: %v\n", err)
}

// exists reports a missing account and returns false.
func (s *Shell) exists(number int, label string) bool {
	if _, err := s.bank.Account(number); err != nil {
		fmt.Fprintf(s.out, "%s %d not found!\n", label, number)
		return false
	}
	return true
}

func (s *Shell) createAccount() error {
	if len(s.bank.Accounts()) >= s.bank.Policy().MaxAccounts {
		fmt.Fprintln(s.out, "Maximum number of accounts reached!")
		return nil
	}

	var p bank.CreateAccountParams
	var err error
	if p.Name, err = s.in.line("Enter name: "); err != nil {
		return err
	}
	if p.Address, err = s.in.line("Enter address: "); err != nil {
		return err
	}
	if p.Phone, err = s.in.line("Enter phone number: "); err != nil {
		return err
	}
	for {
		if p.PIN, err = s.in.pin(); err != nil {
			return err
		}
		if !model.ValidPIN(p.PIN) {
			fmt.Fprintln(s.out, "PIN must be exactly 4 digits!")
			continue
		}
		if s.bank.PINInUse(p.PIN) {
			fmt.Fprintln(s.out, "PIN already in use! Please choose a different PIN.")
			continue
		}
		break
	}

	fmt.Fprintln(s.out, "\nSelect Account Type:")
	fmt.Fprintln(s.out, "1. Savings Account")
	fmt.Fprintln(s.out, "2. Current Account")
	kind, err := s.in.number("Enter choice (1-2): ")
	if err != nil {
		return err
	}
	if p.InitialDeposit, err = s.in.amount("Enter initial deposit amount: $"); err != nil {
		return err
	}
	switch kind {
	case 1:
		p.Kind = ledger.KindSavings
	case 2:
		p.Kind = ledger.KindCurrent
	default:
		fmt.Fprintln(s.out, "Invalid choice! Account creation failed.")
		return nil
	}

	st, err := s.bank.CreateAccount(p)
	if err != nil {
		s.report(err)
		return nil
	}
	fmt.Fprintf(s.out, "\n%s Account created successfully!\n", st.Kind)
	fmt.Fprintf(s.out, "Account Number: %d\n", st.Number)
	return nil
}

func (s *Shell) displayAccount() error {
	n, err := s.in.number("Enter account number: ")
	if err != nil {
		return err
	}
	if err := s.bank.DisplayAccount(s.out, n); err != nil {
		fmt.Fprintf(s.out, "Account %d not found!\n", n)
	}
	return nil
}

func (s *Shell) history() error {
	n, err := s.in.number("Enter account number: ")
	if err != nil {
		return err
	}
	if err := s.bank.DisplayTransactions(s.out, n); err != nil {
		fmt.Fprintf(s.out, "Account %d not found!\n", n)
	}
	return nil
}

func (s *Shell) deposit() error {
	n, err := s.in.number("Enter account number: ")
	if err != nil {
		return err
	}
	amt, err := s.in.amount("Enter deposit amount: $")
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

	bal, err := s.bank.Deposit(n, pin, amt)
	if err != nil {
		s.report(err)
		return nil
	}
	fmt.Fprintf(s.out, "Deposit of $%s to account %d successful.\n", amt.StringFixed(2), n)
	fmt.Fprintf(s.out, "New balance: $%s\n", bal.StringFixed(2))
	return nil
}

func (s *Shell) withdraw() error {
	n, err := s.in.number("Enter account number: ")
	if err != nil {
		return err
	}
	amt, err := s.in.amount("Enter withdrawal amount: $")
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

	bal, err := s.bank.Withdraw(n, pin, amt)
	if err != nil {
		s.report(err)
		return nil
	}
	fmt.Fprintf(s.out, "Withdrawal of $%s from account %d successful.\n", amt.StringFixed(2), n)
	fmt.Fprintf(s.out, "New balance: $%s\n", bal.StringFixed(2))
	return nil
}

func (s *Shell) transfer() error {
	from, err := s.in.number("Enter source account number: ")
	if err != nil {
		return err
	}
	to, err := s.in.number("Enter destination account number: ")
	if err != nil {
		return err
	}
	amt, err := s.in.amount("Enter transfer amount: $")
	if err != nil {
		return err
	}
	if from == to {
		fmt.Fprintln(s.out, "Cannot transfer to the same account!")
		return nil
	}
	if !s.exists(from, "Source account") || !s.exists(to, "Destination account") {
		return nil
	}
	pin, err := s.in.pin()
	if err != nil {
		return err
	}

	if err := s.bank.Transfer(from, to, pin, amt); err != nil {
		s.report(err)
		return nil
	}
	fmt.Fprintf(s.out, "Transfer of $%s from account %d to account %d completed successfully.\n",
		amt.StringFixed(2), from, to)
	return nil
}

func (s *Shell) closeAccount() error {
	n, err := s.in.number("Enter account number to close: ")
	if err != nil {
		return err
	}
	switch err := s.bank.CloseAccount(n); {
	case errors.Is(err, bank.ErrAccountNotFound):
		fmt.Fprintf(s.out, "Account %d not found!\n", n)
	case errors.Is(err, bank.ErrActiveLoan):
		fmt.Fprintln(s.out, "Cannot close account. Customer has an active loan.")
	case err != nil:
		s.report(err)
	default:
		fmt.Fprintf(s.out, "Account %d closed.\n", n)
	}
	return nil
}

func (s *Shell) applyInterest() {
	results := s.bank.ApplyInterest()
	if len(results) == 0 {
		fmt.Fprintln(s.out, "No savings accounts found to apply interest.")
		return
	}
	for _, r := range results {
		fmt.Fprintf(s.out, "Account %d: interest applied: $%s, new balance: $%s\n",
			r.Account, r.Interest.StringFixed(2), r.Balance.StringFixed(2))
	}
	fmt.Fprintln(s.out, "Interest applied to all savings accounts.")
}

func (s *Shell) save() error {
	path, err := s.in.line("Enter filename to save data: ")
	if err != nil {
		return err
	}
	if err := s.bank.Save(path); err != nil {
		logrus.WithError(err).Debug("save failed")
		fmt.Fprintln(s.out, "Error opening file for writing!")
		return nil
	}
	fmt.Fprintf(s.out, "Data saved successfully to %s\n", path)
	if s.AfterSave != nil {
		s.AfterSave(path)
	}
	return nil
}

func (s *Shell) load() error {
	path, err := s.in.line("Enter filename to load data: ")
	if err != nil {
		return err
	}
	if err := s.bank.Load(path); err != nil {
		logrus.WithError(err).Debug("load failed")
		fmt.Fprintln(s.out, "Error opening file for reading!")
		return nil
	}
	fmt.Fprintf(s.out, "Data loaded successfully from %s\n", path)
	return nil
}
