// Package snapshot reads and writes the whole-bank text snapshot.
//
// The format is line-oriented and positional:
//
//	bankName
//	accountCount
//	nextAccountNumber
//	nextCustomerID
//	nextTransactionID
//	loanCount
//	nextLoanID
//	accountCount × account record
//	loanCount × loan record
//
// An account record is its type tag, number, balance, the tag again,
// transaction count, five customer lines, six lines per transaction, then
// interest rate and minimum balance (Savings) or overdraft limit (Current).
// A loan record is seven lines: ID, customer ID, principal, rate, months,
// monthly payment, remaining balance.
package snapshot

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/tellerbank/teller/internal/id"
	"github.com/tellerbank/teller/internal/ledger"
	"github.com/tellerbank/teller/internal/loans"
	"github.com/tellerbank/teller/internal/model"
)

const (
	customerLines    = 5
	transactionLines = 6
	loanLines        = 7
)

// Snapshot is the complete persisted state of a bank.
type Snapshot struct {
	BankName string
	Counters id.Counters
	Accounts []ledger.State
	Loans    []loans.Loan
}

// Write serializes s in the snapshot text format.
func Write(w io.Writer, s Snapshot) error {
	bw := bufio.NewWriter(w)
	p := func(v any) {
		fmt.Fprintln(bw, v)
	}

	p(s.BankName)
	p(len(s.Accounts))
	p(s.Counters.NextAccount)
	p(s.Counters.NextCustomer)
	p(s.Counters.NextTransaction)
	p(len(s.Loans))
	p(s.Counters.NextLoan)

	for _, a := range s.Accounts {
		p(string(a.Kind))
		p(a.Number)
		p(a.Balance.String())
		p(string(a.Kind))
		p(len(a.Transactions))

		p(a.Customer.ID)
		p(a.Customer.Name)
		p(a.Customer.Address)
		p(a.Customer.Phone)
		p(a.Customer.PIN)

		for _, txn := range a.Transactions {
			p(txn.ID)
			p(txn.Timestamp())
			p(string(txn.Type))
			p(txn.Amount.String())
			p(txn.From)
			p(txn.To)
		}

		switch a.Kind {
		case ledger.KindSavings:
			p(a.InterestRate.String())
			p(a.MinimumBalance.String())
		case ledger.KindCurrent:
			p(a.OverdraftLimit.String())
		default:
			return fmt.Errorf("account %d: %w: %q", a.Number, ledger.ErrUnknownKind, string(a.Kind))
		}
	}

	for _, l := range s.Loans {
		p(l.ID)
		p(l.CustomerID)
		p(l.Principal.String())
		p(l.InterestRate.String())
		p(l.DurationMonths)
		p(l.MonthlyPayment.String())
		p(l.RemainingBalance.String())
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

// Read parses a snapshot. Account records with an unrecognized type tag are
// skipped with a warning; any other malformed field fails the whole read.
func Read(r io.Reader) (Snapshot, error) {
	lr, err := newLineReader(r)
	if err != nil {
		return Snapshot{}, err
	}

	var s Snapshot
	s.BankName = lr.readLine()

	accountCount := lr.readInt("account count")
	s.Counters.NextAccount = lr.readInt("next account number")
	s.Counters.NextCustomer = lr.readInt("next customer ID")
	s.Counters.NextTransaction = lr.readInt("next transaction ID")
	loanCount := lr.readInt("loan count")
	s.Counters.NextLoan = lr.readInt("next loan ID")
	if lr.err != nil {
		return Snapshot{}, lr.err
	}

	for i := 0; i < accountCount; i++ {
		tag := lr.readLine()
		kind, kerr := ledger.ParseKind(tag)

		st := readAccountCommon(lr)
		if lr.err != nil {
			return Snapshot{}, fmt.Errorf("account record %d: %w", i+1, lr.err)
		}

		if kerr != nil {
			logrus.WithField("tag", tag).Warnf("Unknown account type: %s", tag)
			lr.resync(loanCount * loanLines)
			continue
		}

		st.Kind = kind
		switch kind {
		case ledger.KindSavings:
			st.InterestRate = lr.readDecimal("interest rate")
			st.MinimumBalance = lr.readDecimal("minimum balance")
		case ledger.KindCurrent:
			st.OverdraftLimit = lr.readDecimal("overdraft limit")
		}
		if lr.err != nil {
			return Snapshot{}, fmt.Errorf("account %d: %w", st.Number, lr.err)
		}
		s.Accounts = append(s.Accounts, st)
	}

	for i := 0; i < loanCount; i++ {
		l := loans.Loan{
			ID:               lr.readInt("loan ID"),
			CustomerID:       lr.readInt("loan customer ID"),
			Principal:        lr.readDecimal("principal"),
			InterestRate:     lr.readDecimal("loan interest rate"),
			DurationMonths:   lr.readInt("duration"),
			MonthlyPayment:   lr.readDecimal("monthly payment"),
			RemainingBalance: lr.readDecimal("remaining balance"),
		}
		if lr.err != nil {
			return Snapshot{}, fmt.Errorf("loan record %d: %w", i+1, lr.err)
		}
		s.Loans = append(s.Loans, l)
	}

	return s, nil
}

func readAccountCommon(lr *lineReader) ledger.State {
	var st ledger.State
	st.Number = lr.readInt("account number")
	st.Balance = lr.readDecimal("balance")
	lr.readLine() // redundant type tag
	txnCount := lr.readInt("transaction count")

	st.Customer = model.Customer{
		ID:      lr.readInt("customer ID"),
		Name:    lr.readLine(),
		Address: lr.readLine(),
		Phone:   lr.readLine(),
		PIN:     lr.readLine(),
	}
	if st.Customer.PIN == "" {
		st.Customer.PIN = model.DefaultPIN
	}

	for j := 0; j < txnCount && lr.err == nil; j++ {
		txn := model.Transaction{
			ID:     lr.readInt("transaction ID"),
			Time:   lr.readTime("transaction time"),
			Type:   model.TransactionType(lr.readLine()),
			Amount: lr.readDecimal("transaction amount"),
			From:   lr.readInt("from account"),
			To:     lr.readInt("to account"),
		}
		st.Transactions = append(st.Transactions, txn)
	}
	return st
}

// lineReader walks snapshot lines, remembering the first error it hits so
// callers can read a whole record before checking.
type lineReader struct {
	lines []string
	pos   int
	err   error
}

func newLineReader(r io.Reader) (*lineReader, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	var lines []string
	for sc.Scan() {
		lines = append(lines, strings.TrimSuffix(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	return &lineReader{lines: lines}, nil
}

func (lr *lineReader) remaining() int {
	return len(lr.lines) - lr.pos
}

func (lr *lineReader) readLine() string {
	if lr.err != nil {
		return ""
	}
	if lr.pos >= len(lr.lines) {
		lr.err = fmt.Errorf("line %d: unexpected end of snapshot", lr.pos+1)
		return ""
	}
	s := lr.lines[lr.pos]
	lr.pos++
	return s
}

func (lr *lineReader) readInt(field string) int {
	s := strings.TrimSpace(lr.readLine())
	if lr.err != nil {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		lr.err = fmt.Errorf("line %d: parsing %s %q: %w", lr.pos, field, s, err)
	}
	return v
}

func (lr *lineReader) readDecimal(field string) decimal.Decimal {
	s := strings.TrimSpace(lr.readLine())
	if lr.err != nil {
		return decimal.Zero
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		lr.err = fmt.Errorf("line %d: parsing %s %q: %w", lr.pos, field, s, err)
	}
	return v
}

func (lr *lineReader) readTime(field string) time.Time {
	s := strings.TrimSpace(lr.readLine())
	if lr.err != nil {
		return time.Time{}
	}
	v, err := time.ParseInLocation(model.TimeFormat, s, time.Local)
	if err != nil {
		lr.err = fmt.Errorf("line %d: parsing %s %q: %w", lr.pos, field, s, err)
	}
	return v
}

// resync skips the numeric variant tail of an unrecognized account record.
// It stops at the first non-numeric line, which is the next record's tag,
// and never consumes the reserved trailing loan lines.
func (lr *lineReader) resync(reserved int) {
	for lr.remaining() > reserved {
		if _, err := decimal.NewFromString(strings.TrimSpace(lr.lines[lr.pos])); err != nil {
			return
		}
		lr.pos++
	}
}
