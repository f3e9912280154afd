package bank

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tellerbank/teller/internal/ledger"
	"github.com/tellerbank/teller/internal/model"
	"github.com/tellerbank/teller/internal/snapshot"
)

var testTime = time.Date(2025, 1, 15, 10, 30, 0, 0, time.Local)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestBank(opts ...Option) *Bank {
	return New("Test Bank", append([]Option{WithClock(func() time.Time { return testTime })}, opts...)...)
}

func params(kind ledger.Kind, pin, deposit string) CreateAccountParams {
	return CreateAccountParams{
		Name:           gofakeit.Name(),
		Address:        gofakeit.Street(),
		Phone:          gofakeit.Phone(),
		PIN:            pin,
		Kind:           kind,
		InitialDeposit: dec(deposit),
	}
}

func open(t *testing.T, b *Bank, kind ledger.Kind, pin, deposit string) ledger.State {
	t.Helper()
	st, err := b.CreateAccount(params(kind, pin, deposit))
	require.NoError(t, err)
	return st
}

func balance(t *testing.T, b *Bank, number int) decimal.Decimal {
	t.Helper()
	st, err := b.Account(number)
	require.NoError(t, err)
	return st.Balance
}

func snapshotText(t *testing.T, b *Bank) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, snapshot.Write(&buf, b.Snapshot()))
	return buf.String()
}

func TestCreateAccount_AssignsIDs(t *testing.T) {
	b := newTestBank()

	a := open(t, b, ledger.KindSavings, "1111", "1000")
	c := open(t, b, ledger.KindCurrent, "2222", "0")

	assert.Equal(t, 100, a.Number)
	assert.Equal(t, 1000, a.Customer.ID)
	assert.Equal(t, 101, c.Number)
	assert.Equal(t, 1001, c.Customer.ID)

	require.Len(t, a.Transactions, 1)
	assert.Equal(t, 10000, a.Transactions[0].ID)
	assert.Equal(t, model.TransactionDeposit, a.Transactions[0].Type)
	assert.Equal(t, testTime, a.Transactions[0].Time)
	assert.Empty(t, c.Transactions, "a zero initial deposit records nothing")

	assert.True(t, a.InterestRate.Equal(dec("0.025")))
	assert.True(t, a.MinimumBalance.Equal(dec("500")))
	assert.True(t, c.OverdraftLimit.Equal(dec("1000")))
}

func TestCreateAccount_Rejections(t *testing.T) {
	b := newTestBank()
	open(t, b, ledger.KindSavings, "1234", "1000")

	tests := []struct {
		name string
		p    CreateAccountParams
		want error
	}{
		{"short PIN", params(ledger.KindSavings, "123", "0"), ErrInvalidPIN},
		{"letters in PIN", params(ledger.KindSavings, "12ab", "0"), ErrInvalidPIN},
		{"PIN in use", params(ledger.KindCurrent, "1234", "0"), ErrPINInUse},
		{"bad type", params(ledger.Kind("Checking"), "5678", "0"), ErrInvalidAccountType},
		{"negative deposit", params(ledger.KindCurrent, "5678", "-1"), ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.CreateAccount(tt.p)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	noName := params(ledger.KindSavings, "5678", "0")
	noName.Name = ""
	_, err := b.CreateAccount(noName)
	assert.ErrorIs(t, err, ErrInvalidCustomer)

	multiLine := params(ledger.KindSavings, "5678", "0")
	multiLine.Address = "1 Main St\nApt 2"
	_, err = b.CreateAccount(multiLine)
	assert.ErrorIs(t, err, ErrInvalidCustomer)

	assert.Len(t, b.Accounts(), 1)
	counters := b.Counters()
	assert.Equal(t, 101, counters.NextAccount, "rejected requests consume no account numbers")
	assert.Equal(t, 1001, counters.NextCustomer, "rejected requests consume no customer IDs")
}

func TestCreateAccount_Capacity(t *testing.T) {
	p := DefaultPolicy()
	p.MaxAccounts = 2
	b := newTestBank(WithPolicy(p))

	open(t, b, ledger.KindSavings, "0001", "0")
	open(t, b, ledger.KindSavings, "0002", "0")
	_, err := b.CreateAccount(params(ledger.KindSavings, "0003", "0"))
	assert.ErrorIs(t, err, ErrAccountCapacity)
	assert.Len(t, b.Accounts(), 2)
}

func TestPINUniqueness(t *testing.T) {
	b := newTestBank()
	for i := 0; i < 200; i++ {
		_, _ = b.CreateAccount(params(ledger.KindCurrent, gofakeit.Numerify("1###"), "0"))
	}
	accts := b.Accounts()
	require.NotEmpty(t, accts)
	seen := map[string]bool{}
	for _, a := range accts {
		assert.False(t, seen[a.Customer.PIN], "PIN %s issued twice", a.Customer.PIN)
		seen[a.Customer.PIN] = true
	}
}

func TestSavingsScenario(t *testing.T) {
	b := newTestBank()
	a := open(t, b, ledger.KindSavings, "1234", "1000")

	_, err := b.Withdraw(a.Number, "1234", dec("600"))
	assert.ErrorIs(t, err, ErrMinimumBalance)
	assert.True(t, balance(t, b, a.Number).Equal(dec("1000")))

	bal, err := b.Withdraw(a.Number, "1234", dec("400"))
	require.NoError(t, err)
	assert.True(t, bal.Equal(dec("600")))
}

func TestCurrentScenario(t *testing.T) {
	b := newTestBank()
	a := open(t, b, ledger.KindCurrent, "1234", "0")

	bal, err := b.Withdraw(a.Number, "1234", dec("800"))
	require.NoError(t, err)
	assert.True(t, bal.Equal(dec("-800")))

	_, err = b.Withdraw(a.Number, "1234", dec("300"))
	assert.ErrorIs(t, err, ErrOverdraftLimit)
	assert.True(t, balance(t, b, a.Number).Equal(dec("-800")))
}

func TestDepositWithdraw_Authorization(t *testing.T) {
	b := newTestBank()
	a := open(t, b, ledger.KindCurrent, "1234", "100")

	_, err := b.Deposit(a.Number, "9999", dec("50"))
	assert.ErrorIs(t, err, ErrPINMismatch)
	_, err = b.Withdraw(a.Number, "9999", dec("50"))
	assert.ErrorIs(t, err, ErrPINMismatch)
	_, err = b.Deposit(999, "1234", dec("50"))
	assert.ErrorIs(t, err, ErrAccountNotFound)
	_, err = b.Withdraw(999, "1234", dec("50"))
	assert.ErrorIs(t, err, ErrAccountNotFound)

	st, err := b.Account(a.Number)
	require.NoError(t, err)
	assert.True(t, st.Balance.Equal(dec("100")))
	assert.Len(t, st.Transactions, 1)

	bal, err := b.Deposit(a.Number, "1234", dec("50"))
	require.NoError(t, err)
	assert.True(t, bal.Equal(dec("150")))

	_, err = b.Deposit(a.Number, "1234", dec("0"))
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestTransferScenario(t *testing.T) {
	b := newTestBank()
	a := open(t, b, ledger.KindCurrent, "1111", "1000")
	c := open(t, b, ledger.KindSavings, "2222", "600")

	require.NoError(t, b.Transfer(a.Number, c.Number, "1111", dec("500")))

	src, err := b.Account(a.Number)
	require.NoError(t, err)
	dst, err := b.Account(c.Number)
	require.NoError(t, err)
	assert.True(t, src.Balance.Equal(dec("500")))
	assert.True(t, dst.Balance.Equal(dec("1100")))

	srcLast := src.Transactions[len(src.Transactions)-1]
	dstLast := dst.Transactions[len(dst.Transactions)-1]
	assert.Equal(t, model.TransactionTransfer, srcLast.Type)
	assert.Equal(t, srcLast, dstLast, "both logs share the same transfer record")
	assert.Equal(t, a.Number, srcLast.From)
	assert.Equal(t, c.Number, srcLast.To)

	assert.Equal(t, model.TransactionWithdrawal, src.Transactions[len(src.Transactions)-2].Type)
	assert.Equal(t, model.TransactionDeposit, dst.Transactions[len(dst.Transactions)-2].Type)
}

func TestTransfer_Rejections(t *testing.T) {
	b := newTestBank()
	a := open(t, b, ledger.KindSavings, "1111", "1000")
	c := open(t, b, ledger.KindCurrent, "2222", "0")

	assert.ErrorIs(t, b.Transfer(a.Number, a.Number, "1111", dec("10")), ErrSameAccount)
	assert.ErrorIs(t, b.Transfer(999, c.Number, "1111", dec("10")), ErrAccountNotFound)
	assert.ErrorIs(t, b.Transfer(a.Number, 999, "1111", dec("10")), ErrAccountNotFound)
	assert.ErrorIs(t, b.Transfer(a.Number, c.Number, "2222", dec("10")), ErrPINMismatch)
}

func TestTransfer_FailedWithdrawalChangesNothing(t *testing.T) {
	b := newTestBank()
	a := open(t, b, ledger.KindSavings, "1111", "1000")
	c := open(t, b, ledger.KindCurrent, "2222", "250")
	before := snapshotText(t, b)

	err := b.Transfer(a.Number, c.Number, "1111", dec("600"))
	assert.ErrorIs(t, err, ErrMinimumBalance)
	err = b.Transfer(a.Number, c.Number, "1111", dec("-5"))
	assert.ErrorIs(t, err, ErrInvalidAmount)

	assert.Equal(t, before, snapshotText(t, b))
}

func TestCloseAccount(t *testing.T) {
	b := newTestBank()
	a := open(t, b, ledger.KindCurrent, "1111", "0")
	c := open(t, b, ledger.KindCurrent, "2222", "0")
	d := open(t, b, ledger.KindCurrent, "3333", "0")

	assert.ErrorIs(t, b.CloseAccount(999), ErrAccountNotFound)
	require.NoError(t, b.CloseAccount(c.Number))

	accts := b.Accounts()
	require.Len(t, accts, 2)
	assert.Equal(t, a.Number, accts[0].Number)
	assert.Equal(t, d.Number, accts[1].Number)

	_, err := b.Account(c.Number)
	assert.ErrorIs(t, err, ErrAccountNotFound)

	// A closed account's PIN is free again.
	open(t, b, ledger.KindSavings, "2222", "0")
}

func TestCloseAccount_ActiveLoan(t *testing.T) {
	b := newTestBank()
	a := open(t, b, ledger.KindSavings, "1111", "2000")
	l, err := b.ApplyForLoan(a.Number, "1111", dec("5000"), 12)
	require.NoError(t, err)

	assert.ErrorIs(t, b.CloseAccount(a.Number), ErrActiveLoan)
	assert.Len(t, b.Accounts(), 1)

	res, err := b.PayLoan(a.Number, "1111", l.ID, l.RemainingBalance)
	require.NoError(t, err)
	require.True(t, res.Repaid)

	require.NoError(t, b.CloseAccount(a.Number))
	assert.Empty(t, b.Accounts())
	assert.Len(t, b.Loans(), 1, "closed loans stay in the registry")
}

func TestApplyInterest(t *testing.T) {
	b := newTestBank()
	assert.Empty(t, b.ApplyInterest())

	s1 := open(t, b, ledger.KindSavings, "1111", "1000")
	open(t, b, ledger.KindCurrent, "2222", "1000")
	s2 := open(t, b, ledger.KindSavings, "3333", "2000")

	res := b.ApplyInterest()
	require.Len(t, res, 2)
	assert.Equal(t, s1.Number, res[0].Account)
	assert.True(t, res[0].Interest.Equal(dec("25")))
	assert.True(t, res[0].Balance.Equal(dec("1025")))
	assert.Equal(t, s2.Number, res[1].Account)
	assert.True(t, res[1].Balance.Equal(dec("2050")))

	st, err := b.Account(s1.Number)
	require.NoError(t, err)
	assert.Equal(t, model.TransactionInterest, st.Transactions[len(st.Transactions)-1].Type)
}

func TestLoanScenario(t *testing.T) {
	b := newTestBank()
	a := open(t, b, ledger.KindSavings, "1111", "2000")

	l, err := b.ApplyForLoan(a.Number, "1111", dec("10000"), 24)
	require.NoError(t, err)
	assert.Equal(t, 100000, l.ID)
	assert.Equal(t, a.Customer.ID, l.CustomerID)
	assert.True(t, l.RemainingBalance.Equal(dec("11000")))
	assert.Equal(t, "458.33", l.MonthlyPayment.StringFixed(2))

	st, err := b.Account(a.Number)
	require.NoError(t, err)
	assert.True(t, st.Balance.Equal(dec("12000")))
	last := st.Transactions[len(st.Transactions)-1]
	assert.Equal(t, model.TransactionLoanDisbursement, last.Type)
	assert.True(t, last.Amount.Equal(dec("10000")))

	res, err := b.PayLoan(a.Number, "1111", l.ID, dec("20000"))
	require.NoError(t, err)
	assert.True(t, res.Applied.Equal(dec("11000")))
	assert.True(t, res.Remaining.IsZero())
	assert.True(t, res.Repaid)

	got, err := b.LoanDetails(a.Number, "1111", l.ID)
	require.NoError(t, err)
	assert.False(t, got.Active())

	assert.True(t, balance(t, b, a.Number).Equal(dec("12000")), "loan payments do not touch the account")
}

func TestLoan_SingleActive(t *testing.T) {
	b := newTestBank()
	a := open(t, b, ledger.KindCurrent, "1111", "4000")

	first, err := b.ApplyForLoan(a.Number, "1111", dec("2000"), 12)
	require.NoError(t, err)

	_, err = b.ApplyForLoan(a.Number, "1111", dec("2000"), 12)
	assert.ErrorIs(t, err, ErrActiveLoan)

	_, err = b.PayLoan(a.Number, "1111", first.ID, dec("1000"))
	require.NoError(t, err)
	_, err = b.ApplyForLoan(a.Number, "1111", dec("2000"), 12)
	assert.ErrorIs(t, err, ErrActiveLoan, "a partly repaid loan is still active")

	_, err = b.PayLoan(a.Number, "1111", first.ID, dec("5000"))
	require.NoError(t, err)
	second, err := b.ApplyForLoan(a.Number, "1111", dec("2000"), 12)
	require.NoError(t, err)
	assert.Equal(t, first.ID+1, second.ID)
}

func TestLoan_Rejections(t *testing.T) {
	b := newTestBank()
	a := open(t, b, ledger.KindSavings, "1111", "1000")

	tests := []struct {
		name      string
		pin       string
		principal string
		months    int
		want      error
	}{
		{"wrong PIN", "2222", "2000", 12, ErrPINMismatch},
		{"below minimum", "1111", "999.99", 12, ErrInvalidLoanTerms},
		{"above maximum", "1111", "50000.01", 12, ErrInvalidLoanTerms},
		{"over balance multiple", "1111", "5000.01", 12, ErrLoanExceedsBalance},
		{"too short", "1111", "2000", 11, ErrInvalidLoanTerms},
		{"too long", "1111", "2000", 61, ErrInvalidLoanTerms},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.ApplyForLoan(a.Number, tt.pin, dec(tt.principal), tt.months)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := b.ApplyForLoan(999, "1111", dec("2000"), 12)
	assert.ErrorIs(t, err, ErrAccountNotFound)

	assert.Empty(t, b.Loans())
	assert.True(t, balance(t, b, a.Number).Equal(dec("1000")))
	assert.Equal(t, 100000, b.Counters().NextLoan)

	// Boundaries are inclusive.
	_, err = b.ApplyForLoan(a.Number, "1111", dec("5000"), 60)
	require.NoError(t, err)
}

func TestLoan_Capacity(t *testing.T) {
	p := DefaultPolicy()
	p.MaxLoans = 1
	b := newTestBank(WithPolicy(p))
	a := open(t, b, ledger.KindSavings, "1111", "1000")
	c := open(t, b, ledger.KindSavings, "2222", "1000")

	_, err := b.ApplyForLoan(a.Number, "1111", dec("1000"), 12)
	require.NoError(t, err)
	_, err = b.ApplyForLoan(c.Number, "2222", dec("1000"), 12)
	assert.ErrorIs(t, err, ErrLoanCapacity)
}

func TestLoan_NotFoundAndInvalidPayment(t *testing.T) {
	b := newTestBank()
	a := open(t, b, ledger.KindSavings, "1111", "1000")
	l, err := b.ApplyForLoan(a.Number, "1111", dec("1000"), 12)
	require.NoError(t, err)

	_, err = b.LoanDetails(a.Number, "1111", 42)
	assert.ErrorIs(t, err, ErrLoanNotFound)
	_, err = b.PayLoan(a.Number, "1111", 42, dec("10"))
	assert.ErrorIs(t, err, ErrLoanNotFound)
	_, err = b.PayLoan(a.Number, "1111", l.ID, dec("0"))
	assert.ErrorIs(t, err, ErrInvalidPayment)
	_, err = b.PayLoan(a.Number, "0000", l.ID, dec("10"))
	assert.ErrorIs(t, err, ErrPINMismatch)
}

func TestLogOverflowStillMovesMoney(t *testing.T) {
	p := DefaultPolicy()
	p.MaxTransactions = 2
	b := newTestBank(WithPolicy(p))
	a := open(t, b, ledger.KindCurrent, "1111", "10")

	for i := 0; i < 3; i++ {
		_, err := b.Deposit(a.Number, "1111", dec("10"))
		require.NoError(t, err)
	}
	st, err := b.Account(a.Number)
	require.NoError(t, err)
	assert.True(t, st.Balance.Equal(dec("40")))
	assert.Len(t, st.Transactions, 2)
}

func populated(t *testing.T) *Bank {
	t.Helper()
	b := newTestBank()
	a := open(t, b, ledger.KindSavings, "1111", "3000")
	c := open(t, b, ledger.KindCurrent, "2222", "150.25")
	d := open(t, b, ledger.KindCurrent, "3333", "0")

	require.NoError(t, b.Transfer(a.Number, c.Number, "1111", dec("700")))
	_, err := b.Withdraw(d.Number, "3333", dec("999.99"))
	require.NoError(t, err)
	b.ApplyInterest()
	l, err := b.ApplyForLoan(a.Number, "1111", dec("10000"), 36)
	require.NoError(t, err)
	_, err = b.PayLoan(a.Number, "1111", l.ID, dec("1234.56"))
	require.NoError(t, err)
	_, err = b.ApplyForLoan(c.Number, "2222", dec("1000"), 12)
	require.NoError(t, err)
	return b
}

func TestCheckLoanAmount(t *testing.T) {
	b := newTestBank()
	a := open(t, b, ledger.KindCurrent, "1111", "1000")

	assert.NoError(t, b.CheckLoanAmount(a.Number, dec("5000")))
	assert.ErrorIs(t, b.CheckLoanAmount(a.Number, dec("999")), ErrInvalidLoanTerms)
	assert.ErrorIs(t, b.CheckLoanAmount(a.Number, dec("5001")), ErrLoanExceedsBalance)
	assert.ErrorIs(t, b.CheckLoanAmount(999, dec("2000")), ErrAccountNotFound)
	assert.Empty(t, b.Loans())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	b := populated(t)
	path := filepath.Join(t.TempDir(), "bank_data.txt")
	require.NoError(t, b.Save(path))

	loaded := New("placeholder")
	require.NoError(t, loaded.Load(path))

	assert.Equal(t, "Test Bank", loaded.Name())
	assert.Equal(t, b.Counters(), loaded.Counters())
	assert.Equal(t, snapshotText(t, b), snapshotText(t, loaded))

	for _, want := range b.Accounts() {
		got, err := loaded.Account(want.Number)
		require.NoError(t, err)
		assert.True(t, want.Balance.Equal(got.Balance), "account %d", want.Number)
		assert.Len(t, got.Transactions, len(want.Transactions))
	}
	require.Len(t, loaded.Loans(), 2)
	assert.True(t, b.Loans()[0].RemainingBalance.Equal(loaded.Loans()[0].RemainingBalance))
}

func TestLoad_CountersResumeFromSnapshot(t *testing.T) {
	b := newTestBank()
	open(t, b, ledger.KindCurrent, "1111", "10")
	c := open(t, b, ledger.KindCurrent, "2222", "10")
	require.NoError(t, b.CloseAccount(c.Number))

	path := filepath.Join(t.TempDir(), "bank_data.txt")
	require.NoError(t, b.Save(path))

	loaded := newTestBank()
	require.NoError(t, loaded.Load(path))
	next := open(t, loaded, ledger.KindSavings, "3333", "10")

	assert.Equal(t, 102, next.Number, "closed account number is not reused")
	assert.Equal(t, 1002, next.Customer.ID)
	assert.Equal(t, 10002, next.Transactions[0].ID)
}

func TestLoad_Failures(t *testing.T) {
	b := populated(t)
	before := snapshotText(t, b)
	dir := t.TempDir()

	err := b.Load(filepath.Join(dir, "missing.txt"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.txt")
	require.NoError(t, os.WriteFile(bad, []byte("Bank\n1\n100\n"), 0o644))
	require.Error(t, b.Load(bad))

	assert.Equal(t, before, snapshotText(t, b), "failed loads leave state untouched")
}

func TestSave_FileMode(t *testing.T) {
	b := populated(t)
	path := filepath.Join(t.TempDir(), "bank_data.txt")
	require.NoError(t, b.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestSave_Failure(t *testing.T) {
	b := populated(t)
	err := b.Save(filepath.Join(t.TempDir(), "no", "such", "dir", "bank.txt"))
	require.Error(t, err)
}

func TestDisplay(t *testing.T) {
	b := newTestBank()
	var buf bytes.Buffer

	b.DisplayAll(&buf)
	assert.Contains(t, buf.String(), "No accounts found in the system!")

	a := open(t, b, ledger.KindSavings, "1111", "1000")
	c := open(t, b, ledger.KindCurrent, "2222", "0")

	buf.Reset()
	b.DisplayAll(&buf)
	out := buf.String()
	assert.Contains(t, out, "--- All Accounts ---")
	assert.Contains(t, out, fmt.Sprintf("%-10d | Savings    |", a.Number))
	assert.Contains(t, out, "$1000.00")

	buf.Reset()
	require.NoError(t, b.DisplayTransactions(&buf, c.Number))
	assert.Contains(t, buf.String(), "No transactions recorded.")

	require.NoError(t, b.Transfer(a.Number, c.Number, "1111", dec("100")))
	buf.Reset()
	require.NoError(t, b.DisplayTransactions(&buf, c.Number))
	out = buf.String()
	assert.Contains(t, out, "Transaction History for Account 101")
	assert.Contains(t, out, "Transfer")
	assert.Contains(t, out, "100 -> 101")
	assert.Contains(t, out, "2025-01-15 10:30:00")

	buf.Reset()
	require.NoError(t, b.DisplayAccount(&buf, a.Number))
	assert.Contains(t, buf.String(), "Account Number: 100")

	assert.ErrorIs(t, b.DisplayAccount(&buf, 999), ErrAccountNotFound)
	assert.ErrorIs(t, b.DisplayTransactions(&buf, 999), ErrAccountNotFound)
}
