package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// FileName is the conventional config file name.
const FileName = "teller.yaml"

// Config represents the top-level teller.yaml configuration.
type Config struct {
	Bank    BankConfig    `yaml:"bank"`
	Limits  LimitsConfig  `yaml:"limits"`
	Savings SavingsConfig `yaml:"savings"`
	Current CurrentConfig `yaml:"current"`
	Loans   LoansConfig   `yaml:"loans"`
	Audit   AuditConfig   `yaml:"audit"`
	Git     GitConfig     `yaml:"git"`
	Log     LogConfig     `yaml:"log"`
}

// BankConfig identifies the bank and where its snapshot lives.
type BankConfig struct {
	Name     string `yaml:"name"`
	DataFile string `yaml:"data_file"`
}

// LimitsConfig bounds the registries and per-account transaction logs.
type LimitsConfig struct {
	MaxAccounts     int `yaml:"max_accounts"`
	MaxLoans        int `yaml:"max_loans"`
	MaxTransactions int `yaml:"max_transactions"`
}

// SavingsConfig holds the terms of newly opened savings accounts.
type SavingsConfig struct {
	InterestRate   float64 `yaml:"interest_rate"`
	MinimumBalance float64 `yaml:"minimum_balance"`
}

// CurrentConfig holds the terms of newly opened current accounts.
type CurrentConfig struct {
	OverdraftLimit float64 `yaml:"overdraft_limit"`
}

// LoansConfig controls loan eligibility and pricing.
type LoansConfig struct {
	InterestRate    float64 `yaml:"interest_rate"`
	MinPrincipal    float64 `yaml:"min_principal"`
	MaxPrincipal    float64 `yaml:"max_principal"`
	BalanceMultiple float64 `yaml:"balance_multiple"` // principal may not exceed balance × multiple
	MinMonths       int     `yaml:"min_months"`
	MaxMonths       int     `yaml:"max_months"`
}

// AuditConfig controls the CSV audit trail. An empty path disables it.
type AuditConfig struct {
	Path string `yaml:"path"`
}

// GitConfig controls committing the data file after each save.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// LogConfig controls logrus output.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads a teller.yaml file from disk. Keys absent from the file keep
// their Default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default("")
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Resolve loads path if it exists (defaults otherwise), applies TELLER_*
// environment overrides and validates the result.
func Resolve(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg, err = Default(""), nil
	}
	if err != nil {
		return nil, err
	}
	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// envOverrides lists the settings that may come from the environment.
type envOverrides struct {
	BankName   *string `envconfig:"BANK_NAME"`
	DataFile   *string `envconfig:"DATA_FILE"`
	AuditPath  *string `envconfig:"AUDIT_PATH"`
	LogLevel   *string `envconfig:"LOG_LEVEL"`
	AutoCommit *bool   `envconfig:"GIT_AUTO_COMMIT"`
}

// ApplyEnv overlays TELLER_* environment variables onto cfg.
func ApplyEnv(cfg *Config) error {
	var env envOverrides
	if err := envconfig.Process("teller", &env); err != nil {
		return fmt.Errorf("reading environment: %w", err)
	}
	if env.BankName != nil {
		cfg.Bank.Name = *env.BankName
	}
	if env.DataFile != nil {
		cfg.Bank.DataFile = *env.DataFile
	}
	if env.AuditPath != nil {
		cfg.Audit.Path = *env.AuditPath
	}
	if env.LogLevel != nil {
		cfg.Log.Level = *env.LogLevel
	}
	if env.AutoCommit != nil {
		cfg.Git.AutoCommit = *env.AutoCommit
	}
	return nil
}

// Default returns a Config with the standard bank policy. An empty name
// uses "OOP Banking System".
func Default(bankName string) *Config {
	if bankName == "" {
		bankName = "OOP Banking System"
	}
	return &Config{
		Bank: BankConfig{
			Name:     bankName,
			DataFile: "bank_data.txt",
		},
		Limits: LimitsConfig{
			MaxAccounts:     100,
			MaxLoans:        100,
			MaxTransactions: 100,
		},
		Savings: SavingsConfig{
			InterestRate:   0.025,
			MinimumBalance: 500,
		},
		Current: CurrentConfig{
			OverdraftLimit: 1000,
		},
		Loans: LoansConfig{
			InterestRate:    0.05,
			MinPrincipal:    1000,
			MaxPrincipal:    50000,
			BalanceMultiple: 5,
			MinMonths:       12,
			MaxMonths:       60,
		},
		Audit: AuditConfig{
			Path: "teller-audit.csv",
		},
		Git: GitConfig{
			AutoCommit:  false,
			AuthorName:  "Teller",
			AuthorEmail: "teller@localhost",
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}
