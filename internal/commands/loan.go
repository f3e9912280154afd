package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newLoanCommand(g *globals) *cobra.Command {
	loanCmd := &cobra.Command{
		Use:   "loan",
		Short: "Loan operations",
	}
	loanCmd.AddCommand(
		newLoanApplyCommand(g),
		newLoanShowCommand(g),
		newLoanPayCommand(g),
	)
	return loanCmd
}

func parseLoanID(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid loan ID %q", s)
	}
	return n, nil
}

func newLoanApplyCommand(g *globals) *cobra.Command {
	var pin string

	cmd := &cobra.Command{
		Use:   "apply <account> <amount> <months>",
		Short: "Apply for a loan and credit the principal to the account",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseAccount(args[0])
			if err != nil {
				return err
			}
			principal, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			months, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid duration %q", args[2])
			}
			s, err := openSession(cmd, g)
			if err != nil {
				return err
			}

			l, err := s.bank.ApplyForLoan(n, pin, principal, months)
			details := fmt.Sprintf("loan=%d, principal=%s, months=%d", l.ID, principal.StringFixed(2), months)
			if err := s.commit(n, details, err); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Loan approved! $%s deposited to account %d\n", principal.StringFixed(2), n)
			l.Display(cmd.OutOrStdout())
			return nil
		},
	}

	cmd.Flags().StringVar(&pin, "pin", "", "customer PIN (required)")
	_ = cmd.MarkFlagRequired("pin")
	return cmd
}

func newLoanShowCommand(g *globals) *cobra.Command {
	var pin string

	cmd := &cobra.Command{
		Use:   "show <account> <loan-id>",
		Short: "Display a loan",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseAccount(args[0])
			if err != nil {
				return err
			}
			loanID, err := parseLoanID(args[1])
			if err != nil {
				return err
			}
			s, err := openSession(cmd, g)
			if err != nil {
				return err
			}

			l, err := s.bank.LoanDetails(n, pin, loanID)
			if err != nil {
				return err
			}
			l.Display(cmd.OutOrStdout())
			return nil
		},
	}

	cmd.Flags().StringVar(&pin, "pin", "", "customer PIN (required)")
	_ = cmd.MarkFlagRequired("pin")
	return cmd
}

func newLoanPayCommand(g *globals) *cobra.Command {
	var pin string

	cmd := &cobra.Command{
		Use:   "pay <account> <loan-id> <amount>",
		Short: "Make a loan payment",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseAccount(args[0])
			if err != nil {
				return err
			}
			loanID, err := parseLoanID(args[1])
			if err != nil {
				return err
			}
			amt, err := parseAmount(args[2])
			if err != nil {
				return err
			}
			s, err := openSession(cmd, g)
			if err != nil {
				return err
			}

			res, err := s.bank.PayLoan(n, pin, loanID, amt)
			details := fmt.Sprintf("loan=%d, amount=%s", loanID, amt.StringFixed(2))
			if err := s.commit(n, details, err); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if res.Applied.LessThan(amt) {
				fmt.Fprintf(w, "Payment exceeds remaining balance. Paying off $%s\n", res.Applied.StringFixed(2))
			}
			fmt.Fprintf(w, "Payment of $%s applied to loan %d\n", res.Applied.StringFixed(2), loanID)
			fmt.Fprintf(w, "Remaining balance: $%s\n", res.Remaining.StringFixed(2))
			if res.Repaid {
				fmt.Fprintln(w, "Loan fully repaid!")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&pin, "pin", "", "customer PIN (required)")
	_ = cmd.MarkFlagRequired("pin")
	return cmd
}
