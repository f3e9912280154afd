package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tellerbank/teller/internal/auditlog"
	"github.com/tellerbank/teller/internal/bank"
	"github.com/tellerbank/teller/internal/config"
	"github.com/tellerbank/teller/internal/vcs"
)

// session is one command's view of the bank: the resolved config and the
// bank loaded from the data file.
type session struct {
	cfg     *config.Config
	bank    *bank.Bank
	command string
}

// openSession resolves the config and loads the data file if it exists.
func openSession(cmd *cobra.Command, g *globals) (*session, error) {
	cfg, err := config.Resolve(g.configPath)
	if err != nil {
		return nil, err
	}
	if g.logLevel == "" {
		if err := setLogLevel(cfg.Log.Level); err != nil {
			return nil, err
		}
	}

	b := bank.New(cfg.Bank.Name, bank.WithPolicy(bank.PolicyFromConfig(cfg)))
	if _, err := os.Stat(cfg.Bank.DataFile); err == nil {
		if err := b.Load(cfg.Bank.DataFile); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("checking data file: %w", err)
	}

	return &session{
		cfg:     cfg,
		bank:    b,
		command: strings.TrimPrefix(cmd.CommandPath(), cmd.Root().Name()+" "),
	}, nil
}

// commit saves the bank after a successful operation and records the
// outcome in the audit log. It returns opErr, or the save error.
func (s *session) commit(account int, details string, opErr error) error {
	if opErr == nil {
		if err := s.bank.Save(s.cfg.Bank.DataFile); err != nil {
			opErr = err
		} else {
			s.version(s.cfg.Bank.DataFile, account)
		}
	}
	s.audit(account, details, opErr)
	return opErr
}

func (s *session) audit(account int, details string, opErr error) {
	if s.cfg.Audit.Path == "" {
		return
	}
	e := auditlog.Entry{
		Timestamp: time.Now(),
		Command:   s.command,
		Account:   account,
		Details:   details,
		Outcome:   auditlog.OutcomeOK,
	}
	if opErr != nil {
		e.Outcome = auditlog.OutcomeFailed
		e.Details = strings.TrimSpace(details + " " + opErr.Error())
	}
	if err := auditlog.Append(s.cfg.Audit.Path, []auditlog.Entry{e}); err != nil {
		logrus.WithError(err).Warn("failed to write audit log")
	}
}

// version commits the data file when git.auto_commit is on.
func (s *session) version(path string, account int) {
	if !s.cfg.Git.AutoCommit {
		return
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		logrus.WithError(err).Warn("resolving data file")
		return
	}
	dir := filepath.Dir(abs)
	if err := vcs.EnsureRepo(dir); err != nil {
		logrus.WithError(err).Warn("failed to initialize git repository")
		return
	}

	msg := s.command
	if account != 0 {
		msg = fmt.Sprintf("%s: account %d", s.command, account)
	}
	author := vcs.Author{Name: s.cfg.Git.AuthorName, Email: s.cfg.Git.AuthorEmail}
	hash, err := vcs.CommitFile(dir, filepath.Base(abs), msg, author)
	switch {
	case errors.Is(err, vcs.ErrNothingToCommit):
	case err != nil:
		logrus.WithError(err).Warn("failed to commit data file")
	default:
		logrus.WithField("commit", hash).Debug("data file committed")
	}
}

func parseAccount(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid account number %q", s)
	}
	return n, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimPrefix(s, "$"))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	return d, nil
}
