package config

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Snapshot fields are stored one per line.
var singleLine = regexp.MustCompile(`^[^\r\n]*$`)

var logLevels = []any{"panic", "fatal", "error", "warn", "warning", "info", "debug", "trace"}

// Validate checks every section of the config.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Bank),
		validation.Field(&c.Limits),
		validation.Field(&c.Savings),
		validation.Field(&c.Current),
		validation.Field(&c.Loans),
		validation.Field(&c.Log),
	)
}

func (b BankConfig) Validate() error {
	return validation.ValidateStruct(&b,
		validation.Field(&b.Name, validation.Required, validation.Match(singleLine).Error("must be a single line")),
		validation.Field(&b.DataFile, validation.Required),
	)
}

func (l LimitsConfig) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.MaxAccounts, validation.Required, validation.Min(1)),
		validation.Field(&l.MaxLoans, validation.Required, validation.Min(1)),
		validation.Field(&l.MaxTransactions, validation.Required, validation.Min(1)),
	)
}

func (s SavingsConfig) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.InterestRate, validation.Min(0.0)),
		validation.Field(&s.MinimumBalance, validation.Min(0.0)),
	)
}

func (c CurrentConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.OverdraftLimit, validation.Min(0.0)),
	)
}

func (l LoansConfig) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.InterestRate, validation.Min(0.0)),
		validation.Field(&l.MinPrincipal, validation.Min(0.0)),
		validation.Field(&l.MaxPrincipal, validation.Required, validation.Min(l.MinPrincipal)),
		validation.Field(&l.BalanceMultiple, validation.Min(0.0)),
		validation.Field(&l.MinMonths, validation.Required, validation.Min(1)),
		validation.Field(&l.MaxMonths, validation.Required, validation.Min(l.MinMonths)),
	)
}

func (l LogConfig) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Level, validation.In(logLevels...)),
	)
}
