// Package batch applies a CSV file of deposits, withdrawals and transfers
// to a bank in one run.
package batch

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// OpKind names a batch operation.
type OpKind string

const (
	OpDeposit  OpKind = "deposit"
	OpWithdraw OpKind = "withdraw"
	OpTransfer OpKind = "transfer"
)

// ErrUnknownOp is returned for an op column this package does not handle.
var ErrUnknownOp = errors.New("unknown operation")

// Header is the CSV header of a batch file.
const Header = "op,account,to,amount,pin"

const (
	numFields  = 5
	colOp      = 0
	colAccount = 1
	colTo      = 2
	colAmount  = 3
	colPIN     = 4
)

// Op is one row of a batch file.
type Op struct {
	Line    int // 1-based line in the source file
	Kind    OpKind
	Account int
	To      int // transfers only
	Amount  decimal.Decimal
	PIN     string
}

// Parse reads every operation from a batch file. The header row is
// required. Parsing stops at the first malformed row.
func Parse(r io.Reader) ([]Op, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading batch CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	if got := strings.Join(records[0], ","); got != Header {
		return nil, fmt.Errorf("unexpected header %q, want %q", got, Header)
	}

	ops := make([]Op, 0, len(records)-1)
	for i, rec := range records[1:] {
		op, err := UnmarshalOp(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		op.Line = i + 2
		ops = append(ops, op)
	}
	return ops, nil
}

// UnmarshalOp converts a CSV row to an Op.
func UnmarshalOp(record []string) (Op, error) {
	if len(record) != numFields {
		return Op{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	kind := OpKind(strings.ToLower(record[colOp]))
	switch kind {
	case OpDeposit, OpWithdraw, OpTransfer:
	default:
		return Op{}, fmt.Errorf("%q: %w", record[colOp], ErrUnknownOp)
	}

	account, err := strconv.Atoi(record[colAccount])
	if err != nil {
		return Op{}, fmt.Errorf("parsing account %q: %w", record[colAccount], err)
	}

	var to int
	if kind == OpTransfer {
		to, err = strconv.Atoi(record[colTo])
		if err != nil {
			return Op{}, fmt.Errorf("parsing to %q: %w", record[colTo], err)
		}
	}

	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return Op{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	return Op{
		Kind:    kind,
		Account: account,
		To:      to,
		Amount:  amount,
		PIN:     record[colPIN],
	}, nil
}
