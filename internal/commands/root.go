package commands

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tellerbank/teller/internal/buildinfo"
	"github.com/tellerbank/teller/internal/config"
)

// globals holds the persistent flags shared by every subcommand.
type globals struct {
	configPath string
	logLevel   string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	g := &globals{}

	rootCmd := &cobra.Command{
		Use:     "teller",
		Short:   "Retail bank ledger: accounts, transfers and loans",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logrus.SetOutput(cmd.ErrOrStderr())
			logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
			if g.logLevel == "" {
				return nil
			}
			return setLogLevel(g.logLevel)
		},
	}

	rootCmd.PersistentFlags().StringVar(&g.configPath, "config", config.FileName, "config file")
	rootCmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "log level (overrides log.level in the config)")

	rootCmd.AddCommand(
		newInitCommand(g),
		newOpenCommand(g),
		newShowCommand(g),
		newDepositCommand(g),
		newWithdrawCommand(g),
		newTransferCommand(g),
		newCloseCommand(g),
		newListCommand(g),
		newHistoryCommand(g),
		newInterestCommand(g),
		newLoanCommand(g),
		newStatementCommand(g),
		newBatchCommand(g),
		newCheckCommand(g),
		newShellCommand(g),
	)

	return rootCmd
}

func setLogLevel(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	logrus.SetLevel(lvl)
	return nil
}
