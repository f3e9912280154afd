package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tellerbank/teller/internal/bank"
	"github.com/tellerbank/teller/internal/config"
)

func newInitCommand(g *globals) *cobra.Command {
	var name string
	var git bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file and an empty data file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, g, name, git)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", `bank name (default "OOP Banking System")`)
	cmd.Flags().BoolVar(&git, "git", false, "version the data file in git after each save")

	return cmd
}

func runInit(cmd *cobra.Command, g *globals, name string, git bool) error {
	if _, err := os.Stat(g.configPath); err == nil {
		return fmt.Errorf("%s already exists", g.configPath)
	}

	cfg := config.Default(name)
	cfg.Git.AutoCommit = git
	if err := config.ApplyEnv(cfg); err != nil {
		return err
	}
	if err := config.Save(g.configPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	if _, err := os.Stat(cfg.Bank.DataFile); err == nil {
		printInit(cmd.OutOrStdout(), cfg, "kept existing")
		return nil
	}

	s := &session{
		cfg:     cfg,
		bank:    bank.New(cfg.Bank.Name, bank.WithPolicy(bank.PolicyFromConfig(cfg))),
		command: "init",
	}
	if err := s.commit(0, "bank="+cfg.Bank.Name, nil); err != nil {
		return fmt.Errorf("writing data file: %w", err)
	}
	printInit(cmd.OutOrStdout(), cfg, "created")
	return nil
}

func printInit(w io.Writer, cfg *config.Config, dataState string) {
	fmt.Fprintf(w, "Initialized %s\n", cfg.Bank.Name)
	fmt.Fprintf(w, "Data file: %s (%s)\n", cfg.Bank.DataFile, dataState)
}
