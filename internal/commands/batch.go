package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tellerbank/teller/internal/batch"
)

func newBatchCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "batch <file.csv>",
		Short: "Apply a CSV file of deposits, withdrawals and transfers",
		Long: "Apply a CSV file of deposits, withdrawals and transfers.\n\n" +
			"Columns: " + batch.Header + ". Failed rows are reported and skipped.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening batch file: %w", err)
			}
			defer f.Close()

			ops, err := batch.Parse(f)
			if err != nil {
				return err
			}
			s, err := openSession(cmd, g)
			if err != nil {
				return err
			}
			return runBatch(cmd.OutOrStdout(), s, args[0], ops)
		},
	}
}

func runBatch(w io.Writer, s *session, file string, ops []batch.Op) error {
	results := batch.Apply(s.bank, ops)
	failed := batch.Failed(results)

	for _, r := range failed {
		fmt.Fprintf(w, "line %d: %s %d: %v\n", r.Op.Line, r.Op.Kind, r.Op.Account, r.Err)
		s.audit(r.Op.Account, fmt.Sprintf("file=%s, line=%d, op=%s", file, r.Op.Line, r.Op.Kind), r.Err)
	}

	applied := len(results) - len(failed)
	details := fmt.Sprintf("file=%s, applied=%d, failed=%d", file, applied, len(failed))
	if err := s.commit(0, details, nil); err != nil {
		return err
	}
	fmt.Fprintf(w, "Applied %d of %d operations.\n", applied, len(results))
	return nil
}
