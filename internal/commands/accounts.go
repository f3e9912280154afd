package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/tellerbank/teller/internal/bank"
	"github.com/tellerbank/teller/internal/ledger"
)

func newOpenCommand(g *globals) *cobra.Command {
	var p bank.CreateAccountParams
	var kind, deposit string

	cmd := &cobra.Command{
		Use:   "open",
		Short: "Open a savings or current account for a new customer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := ledger.ParseKind(titleCase(kind))
			if err != nil {
				return fmt.Errorf("%w: %q (want savings or current)", bank.ErrInvalidAccountType, kind)
			}
			p.Kind = k
			if p.InitialDeposit, err = parseAmount(deposit); err != nil {
				return err
			}

			s, err := openSession(cmd, g)
			if err != nil {
				return err
			}
			return runOpen(cmd.OutOrStdout(), s, p)
		},
	}

	cmd.Flags().StringVar(&p.Name, "name", "", "customer name (required)")
	cmd.Flags().StringVar(&p.Address, "address", "", "customer address (required)")
	cmd.Flags().StringVar(&p.Phone, "phone", "", "customer phone number (required)")
	cmd.Flags().StringVar(&p.PIN, "pin", "", "4-digit PIN (required)")
	cmd.Flags().StringVar(&kind, "type", "savings", "account type: savings or current")
	cmd.Flags().StringVar(&deposit, "deposit", "0", "initial deposit")
	for _, f := range []string{"name", "address", "phone", "pin"} {
		_ = cmd.MarkFlagRequired(f)
	}

	return cmd
}

func titleCase(s string) string {
	s = strings.ToLower(s)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func runOpen(w io.Writer, s *session, p bank.CreateAccountParams) error {
	st, err := s.bank.CreateAccount(p)
	if err != nil {
		return s.commit(0, "type="+string(p.Kind), err)
	}
	details := fmt.Sprintf("type=%s, customer=%d, deposit=%s", st.Kind, st.Customer.ID, p.InitialDeposit.StringFixed(2))
	if err := s.commit(st.Number, details, nil); err != nil {
		return err
	}
	fmt.Fprintf(w, "%s Account created successfully!\n", st.Kind)
	fmt.Fprintf(w, "Account Number: %d\n", st.Number)
	fmt.Fprintf(w, "Customer ID: %d\n", st.Customer.ID)
	return nil
}

func newShowCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "show <account>",
		Short: "Display an account and its customer",
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
			return s.bank.DisplayAccount(cmd.OutOrStdout(), n)
		},
	}
}

func newCloseCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "close <account>",
		Short: "Close an account whose customer has no active loan",
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
			if err := s.commit(n, "", s.bank.CloseAccount(n)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Account %d closed.\n", n)
			return nil
		},
	}
}

func newListCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, g)
			if err != nil {
				return err
			}
			s.bank.DisplayAll(cmd.OutOrStdout())
			return nil
		},
	}
}

func newHistoryCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "history <account>",
		Short: "Display an account's transaction history",
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
			return s.bank.DisplayTransactions(cmd.OutOrStdout(), n)
		},
	}
}

func newInterestCommand(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "interest",
		Short: "Apply interest to every savings account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, g)
			if err != nil {
				return err
			}
			return runInterest(cmd.OutOrStdout(), s)
		},
	}
}

func runInterest(w io.Writer, s *session) error {
	results := s.bank.ApplyInterest()
	if len(results) == 0 {
		fmt.Fprintln(w, "No savings accounts found to apply interest.")
		return nil
	}

	total := decimal.Zero
	for _, r := range results {
		total = total.Add(r.Interest)
		fmt.Fprintf(w, "Account %d: interest $%s, new balance $%s\n",
			r.Account, r.Interest.StringFixed(2), r.Balance.StringFixed(2))
	}
	details := fmt.Sprintf("accounts=%d, total=%s", len(results), total.StringFixed(2))
	if err := s.commit(0, details, nil); err != nil {
		return err
	}
	fmt.Fprintln(w, "Interest applied to all savings accounts.")
	return nil
}
