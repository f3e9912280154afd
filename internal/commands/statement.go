package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tellerbank/teller/internal/statement"
)

func newStatementCommand(g *globals) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "statement <account>",
		Short: "Export an account's transactions as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseAccount(args[0])
			if err != nil {
				return err
			}
			s, err := openSession(cmd, g)
			if err != nil {
				return err
			}
			st, err := s.bank.Account(n)
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				return statement.Write(cmd.OutOrStdout(), st.Transactions)
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating statement: %w", err)
			}
			if err := statement.Write(f, st.Transactions); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("writing statement: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d transactions to %s\n", len(st.Transactions), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}
