// Package auditlog keeps an append-only CSV trail of the operations run
// against a data file.
package auditlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Outcome values.
const (
	OutcomeOK     = "ok"
	OutcomeFailed = "failed"
)

// Entry is one row in the audit log.
type Entry struct {
	Timestamp time.Time
	Command   string
	Account   int // 0 when the command is not tied to one account
	Details   string
	Outcome   string
}

// Header is the CSV header of the audit log.
const Header = "timestamp,command,account,details,outcome"

const (
	numFields    = 5
	colTimestamp = 0
	colCommand   = 1
	colAccount   = 2
	colDetails   = 3
	colOutcome   = 4
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.Format(time.RFC3339)
	row[colCommand] = e.Command
	if e.Account != 0 {
		row[colAccount] = strconv.Itoa(e.Account)
	}
	row[colDetails] = e.Details
	row[colOutcome] = e.Outcome
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	var account int
	if record[colAccount] != "" {
		account, err = strconv.Atoi(record[colAccount])
		if err != nil {
			return Entry{}, fmt.Errorf("parsing account %q: %w", record[colAccount], err)
		}
	}

	return Entry{
		Timestamp: ts,
		Command:   record[colCommand],
		Account:   account,
		Details:   record[colDetails],
		Outcome:   record[colOutcome],
	}, nil
}

// Append writes entries to the log at path, creating it with a header if
// needed.
func Append(path string, entries []Entry) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating audit log dir: %w", err)
		}
	}

	needsHeader := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening audit log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Read returns all entries from the log at path.
// Returns an empty slice if the file does not exist.
func Read(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening audit log: %w", err)
	}
	defer f.Close()

	return readEntries(f)
}

func readEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading audit log CSV: %w", err)
	}
	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}
