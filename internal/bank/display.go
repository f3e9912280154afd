package bank

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// cell pads s to width, truncating when it does not fit.
func cell(s string, width int) string {
	if len(s) >= width {
		return s[:width]
	}
	return s + strings.Repeat(" ", width-len(s))
}

// DisplayAccount writes an account's details.
func (b *Bank) DisplayAccount(w io.Writer, number int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	a, err := b.account(number)
	if err != nil {
		return err
	}
	a.Display(w)
	return nil
}

// DisplayTransactions writes an account's transaction history as a table.
func (b *Bank) DisplayTransactions(w io.Writer, number int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	a, err := b.account(number)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "\n--- Transaction History for Account %d ---\n\n", number)
	fmt.Fprintf(w, "%s | %s | %s | %s | %s\n",
		cell("ID", 5), cell("Date & Time", 20), cell("Type", 12), cell("Amount", 10), cell("Account(s)", 15))
	fmt.Fprintln(w, strings.Repeat("-", 70))

	txns := a.Transactions()
	for _, t := range txns {
		fmt.Fprintf(w, "%s | %s | %s | %s | %s\n",
			cell(strconv.Itoa(t.ID), 5),
			cell(t.Timestamp(), 20),
			cell(string(t.Type), 12),
			cell("$"+t.Amount.StringFixed(2), 10),
			t.Accounts())
	}
	if len(txns) == 0 {
		fmt.Fprintln(w, "No transactions recorded.")
	}
	return nil
}

// DisplayAll writes a one-line summary of every account in registry order.
func (b *Bank) DisplayAll(w io.Writer) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.accounts) == 0 {
		fmt.Fprintln(w, "No accounts found in the system!")
		return
	}

	fmt.Fprintln(w, "\n--- All Accounts ---")
	fmt.Fprintf(w, "%s | %s | %s | %s\n", cell("Acc No.", 10), cell("Type", 10), cell("Customer Name", 20), cell("Balance", 12))
	fmt.Fprintln(w, strings.Repeat("-", 60))
	for _, a := range b.accounts {
		fmt.Fprintf(w, "%s | %s | %s | %s\n",
			cell(strconv.Itoa(a.Number()), 10),
			cell(string(a.Kind()), 10),
			cell(a.Customer().Name, 20),
			cell("$"+a.Balance().StringFixed(2), 12))
	}
}
