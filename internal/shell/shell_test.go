package shell

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tellerbank/teller/internal/bank"
)

func script(lines ...string) *strings.Reader {
	return strings.NewReader(strings.Join(lines, "\n") + "\n")
}

func run(t *testing.T, b *bank.Bank, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	require.NoError(t, New(b, script(lines...), &out).Run())
	return out.String()
}

var openSavings = []string{"1", "Ada Lovelace", "12 Analytical Way", "555-0100", "12", "1234", "1", "1000"}

func TestRun_ExitAndInvalidChoice(t *testing.T) {
	out := run(t, bank.New("Test Bank"), "99", "x", "0")

	assert.Contains(t, out, "Welcome to Test Bank!")
	assert.Contains(t, out, "=== Test Bank ===")
	assert.Contains(t, out, "Invalid choice. Please try again.")
	assert.Contains(t, out, "Invalid input. Please enter a number: ")
	assert.Contains(t, out, "Thank you for using Test Bank. Goodbye!")
}

func TestRun_EndOfInput(t *testing.T) {
	out := run(t, bank.New("Test Bank"), "7")
	assert.Contains(t, out, "No accounts found in the system!")
}

func TestRun_SavingsSession(t *testing.T) {
	b := bank.New("Test Bank")
	lines := append([]string{}, openSavings...)
	lines = append(lines,
		"4", "100", "600", "1234",
		"4", "100", "abc", "400", "1234",
		"3", "100", "50", "9999",
		"2", "100",
		"8", "100",
		"0",
	)
	out := run(t, b, lines...)

	assert.Contains(t, out, "PIN must be exactly 4 digits!")
	assert.Contains(t, out, "Savings Account created successfully!")
	assert.Contains(t, out, "Account Number: 100")
	assert.Contains(t, out, "Error: withdrawal would breach minimum balance")
	assert.Contains(t, out, "Withdrawal of $400.00 from account 100 successful.")
	assert.Contains(t, out, "New balance: $600.00")
	assert.Contains(t, out, "Error: account 100: invalid PIN")
	assert.Contains(t, out, "--- Savings Account Details ---")
	assert.Contains(t, out, "Transaction History for Account 100")

	st, err := b.Account(100)
	require.NoError(t, err)
	assert.Equal(t, "600.00", st.Balance.StringFixed(2))
}

func TestRun_DuplicatePINReprompts(t *testing.T) {
	b := bank.New("Test Bank")
	lines := append([]string{}, openSavings...)
	lines = append(lines, "1", "Charles Babbage", "1 Difference St", "555-0101", "1234", "4321", "2", "0", "7", "0")
	out := run(t, b, lines...)

	assert.Contains(t, out, "PIN already in use! Please choose a different PIN.")
	assert.Contains(t, out, "Current Account created successfully!")
	assert.Contains(t, out, "Charles Babbage")
	assert.Len(t, b.Accounts(), 2)
}

func TestRun_InvalidAccountType(t *testing.T) {
	b := bank.New("Test Bank")
	out := run(t, b, "1", "Ada", "Street", "555", "1234", "3", "100", "0")

	assert.Contains(t, out, "Invalid choice! Account creation failed.")
	assert.Empty(t, b.Accounts())
}

func TestRun_TransferAndClose(t *testing.T) {
	b := bank.New("Test Bank")
	lines := append([]string{}, openSavings...)
	lines = append(lines,
		"1", "Charles Babbage", "1 Difference St", "555-0101", "4321", "2", "0",
		"5", "100", "100", "10",
		"5", "100", "555", "10",
		"5", "100", "101", "250", "1234",
		"6", "555",
		"6", "101",
		"0",
	)
	out := run(t, b, lines...)

	assert.Contains(t, out, "Cannot transfer to the same account!")
	assert.Contains(t, out, "Destination account 555 not found!")
	assert.Contains(t, out, "Transfer of $250.00 from account 100 to account 101 completed successfully.")
	assert.Contains(t, out, "Account 555 not found!")
	assert.Contains(t, out, "Account 101 closed.")
	assert.Len(t, b.Accounts(), 1)
}

func TestRun_Loans(t *testing.T) {
	b := bank.New("Test Bank")
	lines := append([]string{}, openSavings...)
	lines = append(lines,
		"12", "100", "0000",
		"12", "100", "1234", "1", "1000", "12",
		"12", "100", "1234", "1",
		"12", "100", "1234", "2", "100000",
		"12", "100", "1234", "2", "42",
		"6", "100",
		"12", "100", "1234", "3", "100000", "2000",
		"12", "100", "1234", "4",
		"6", "100",
		"0",
	)
	out := run(t, b, lines...)

	assert.Contains(t, out, "Invalid PIN!")
	assert.Contains(t, out, "--- Loan Management ---")
	assert.Contains(t, out, "Loan approved! $1000.00 deposited to account 100")
	assert.Contains(t, out, "Customer already has an active loan!")
	assert.Contains(t, out, "Loan ID: 100000")
	assert.Contains(t, out, "Loan 42 not found!")
	assert.Contains(t, out, "Cannot close account. Customer has an active loan.")
	assert.Contains(t, out, "Payment exceeds remaining balance. Paying off $1050.00")
	assert.Contains(t, out, "Remaining balance: $0.00")
	assert.Contains(t, out, "Loan fully repaid!")
	assert.Contains(t, out, "Account 100 closed.")
}

func TestRun_LoanAmountCheckedBeforeDuration(t *testing.T) {
	b := bank.New("Test Bank")
	lines := append([]string{}, openSavings...)
	lines = append(lines,
		"12", "100", "1234", "1", "500",
		"12", "100", "1234", "1", "6000",
		"0",
	)
	out := run(t, b, lines...)

	assert.Contains(t, out, "amount must be between $1000 and $50000")
	assert.Contains(t, out, "5x account balance ($1000.00)")
	assert.NotContains(t, out, "Enter loan duration")
	assert.Empty(t, b.Loans())
}

func TestRun_InterestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank_data.txt")

	b := bank.New("Test Bank")
	var saved []string
	lines := append([]string{}, openSavings...)
	lines = append(lines, "9", "10", path, "0")

	var out bytes.Buffer
	sh := New(b, script(lines...), &out)
	sh.AfterSave = func(p string) { saved = append(saved, p) }
	require.NoError(t, sh.Run())

	assert.Contains(t, out.String(), "Interest applied to all savings accounts.")
	assert.Contains(t, out.String(), "Data saved successfully to "+path)
	assert.Equal(t, []string{path}, saved)

	fresh := bank.New("Other Bank")
	got := run(t, fresh, "11", filepath.Join(t.TempDir(), "missing.txt"), "11", path, "7", "0")
	assert.Contains(t, got, "Error opening file for reading!")
	assert.Contains(t, got, "Data loaded successfully from "+path)
	assert.Contains(t, got, "$1025.00")
}

func TestRun_NoSavingsForInterest(t *testing.T) {
	out := run(t, bank.New("Test Bank"), "9", "0")
	assert.Contains(t, out, "No savings accounts found to apply interest.")
}
