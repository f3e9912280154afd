// Package statement exports an account's transaction log as CSV.
package statement

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tellerbank/teller/internal/model"
)

// Header is the CSV header of a statement file.
const Header = "transaction_id,timestamp,type,amount,from_account,to_account"

const (
	numFields = 6
	colID     = 0
	colTime   = 1
	colType   = 2
	colAmount = 3
	colFrom   = 4
	colTo     = 5
)

// Write writes txns to w, header first.
func Write(w io.Writer, txns []model.Transaction) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, t := range txns {
		if err := cw.Write(Marshal(t)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read reads every transaction from a statement file.
func Read(r io.Reader) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading statement CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	txns := make([]model.Transaction, 0, len(records)-1)
	for i, rec := range records[1:] {
		t, err := Unmarshal(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		txns = append(txns, t)
	}
	return txns, nil
}

// Marshal converts a transaction to a CSV row. A missing destination is
// left blank.
func Marshal(t model.Transaction) []string {
	row := make([]string, numFields)
	row[colID] = strconv.Itoa(t.ID)
	row[colTime] = t.Timestamp()
	row[colType] = string(t.Type)
	row[colAmount] = t.Amount.StringFixed(2)
	row[colFrom] = strconv.Itoa(t.From)
	if t.HasDestination() {
		row[colTo] = strconv.Itoa(t.To)
	}
	return row
}

// Unmarshal converts a CSV row to a transaction.
func Unmarshal(record []string) (model.Transaction, error) {
	if len(record) != numFields {
		return model.Transaction{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	id, err := strconv.Atoi(record[colID])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing transaction_id %q: %w", record[colID], err)
	}
	ts, err := time.ParseInLocation(model.TimeFormat, record[colTime], time.Local)
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing timestamp %q: %w", record[colTime], err)
	}
	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}
	from, err := strconv.Atoi(record[colFrom])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing from_account %q: %w", record[colFrom], err)
	}

	to := model.NoAccount
	if record[colTo] != "" {
		to, err = strconv.Atoi(record[colTo])
		if err != nil {
			return model.Transaction{}, fmt.Errorf("parsing to_account %q: %w", record[colTo], err)
		}
	}

	return model.Transaction{
		ID:     id,
		Time:   ts,
		Type:   model.TransactionType(record[colType]),
		Amount: amount,
		From:   from,
		To:     to,
	}, nil
}
