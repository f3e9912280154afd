package bank

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/tellerbank/teller/internal/ledger"
	"github.com/tellerbank/teller/internal/loans"
	"github.com/tellerbank/teller/internal/snapshot"
)

// Snapshot captures the whole bank, including sequencer positions.
func (b *Bank) Snapshot() snapshot.Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := snapshot.Snapshot{
		BankName: b.name,
		Counters: b.seq.Counters(),
		Accounts: make([]ledger.State, len(b.accounts)),
		Loans:    make([]loans.Loan, len(b.loans)),
	}
	for i, a := range b.accounts {
		s.Accounts[i] = a.State()
	}
	for i, l := range b.loans {
		s.Loans[i] = *l
	}
	return s
}

// Restore replaces all state with s. Nothing changes if any account
// cannot be rebuilt.
func (b *Bank) Restore(s snapshot.Snapshot) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	accounts := make([]ledger.Account, 0, len(s.Accounts))
	for _, st := range s.Accounts {
		a, err := ledger.FromState(st, b.policy.MaxTransactions)
		if err != nil {
			return fmt.Errorf("restoring account %d: %w", st.Number, err)
		}
		accounts = append(accounts, a)
	}
	restored := make([]*loans.Loan, len(s.Loans))
	for i := range s.Loans {
		l := s.Loans[i]
		restored[i] = &l
	}

	b.name = s.BankName
	b.accounts = accounts
	b.loans = restored
	b.seq.Restore(s.Counters)
	return nil
}

// Save writes a snapshot of the bank to path.
func (b *Bank) Save(path string) error {
	s := b.Snapshot()

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("opening %s for writing: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if err := snapshot.Write(tmp, s); err != nil {
		tmp.Close()
		return fmt.Errorf("saving %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

// Load replaces all state with the snapshot at path. On any error the bank
// is left unchanged. Consistency findings are logged, not fatal.
func (b *Bank) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s for reading: %w", path, err)
	}
	defer f.Close()

	s, err := snapshot.Read(f)
	if err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	for _, verr := range snapshot.Validate(s, b.policy.MaxTransactions) {
		logrus.WithField("file", path).Warn(verr.Error())
	}
	return b.Restore(s)
}
