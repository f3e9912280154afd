package commands

import (
	"github.com/spf13/cobra"

	"github.com/tellerbank/teller/internal/shell"
)

func newShellCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Run the interactive menu",
		Long: "Run the interactive menu. The configured data file is loaded first if it exists; " +
			"use menu option 10 to save.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, g)
			if err != nil {
				return err
			}

			sh := shell.New(s.bank, cmd.InOrStdin(), cmd.OutOrStdout())
			sh.AfterSave = func(path string) {
				s.version(path, 0)
				s.audit(0, "file="+path, nil)
			}
			return sh.Run()
		},
	}
}
