package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tellerbank/teller/internal/config"
	"github.com/tellerbank/teller/internal/snapshot"
)

func newCheckCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the consistency of the data file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Resolve(g.configPath)
			if err != nil {
				return err
			}

			f, err := os.Open(cfg.Bank.DataFile)
			if err != nil {
				return fmt.Errorf("opening data file: %w", err)
			}
			defer f.Close()

			s, err := snapshot.Read(f)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			errs := snapshot.Validate(s, cfg.Limits.MaxTransactions)
			for _, e := range errs {
				fmt.Fprintln(w, e.Error())
			}
			if len(errs) > 0 {
				return fmt.Errorf("%d problems found", len(errs))
			}
			fmt.Fprintf(w, "OK: %d accounts, %d loans\n", len(s.Accounts), len(s.Loans))
			return nil
		},
	}
}
