package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDepositCommand(g *globals) *cobra.Command {
	var pin string

	cmd := &cobra.Command{
		Use:   "deposit <account> <amount>",
		Short: "Deposit money into an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseAccount(args[0])
			if err != nil {
				return err
			}
			amt, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			s, err := openSession(cmd, g)
			if err != nil {
				return err
			}

			bal, err := s.bank.Deposit(n, pin, amt)
			if err := s.commit(n, "amount="+amt.StringFixed(2), err); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deposit of $%s to account %d successful.\n", amt.StringFixed(2), n)
			fmt.Fprintf(cmd.OutOrStdout(), "New balance: $%s\n", bal.StringFixed(2))
			return nil
		},
	}

	cmd.Flags().StringVar(&pin, "pin", "", "customer PIN (required)")
	_ = cmd.MarkFlagRequired("pin")
	return cmd
}

func newWithdrawCommand(g *globals) *cobra.Command {
	var pin string

	cmd := &cobra.Command{
		Use:   "withdraw <account> <amount>",
		Short: "Withdraw money from an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseAccount(args[0])
			if err != nil {
				return err
			}
			amt, err := parseAmount(args[1])
			if err != nil {
				return err
			}
			s, err := openSession(cmd, g)
			if err != nil {
				return err
			}

			bal, err := s.bank.Withdraw(n, pin, amt)
			if err := s.commit(n, "amount="+amt.StringFixed(2), err); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Withdrawal of $%s from account %d successful.\n", amt.StringFixed(2), n)
			fmt.Fprintf(cmd.OutOrStdout(), "New balance: $%s\n", bal.StringFixed(2))
			return nil
		},
	}

	cmd.Flags().StringVar(&pin, "pin", "", "customer PIN (required)")
	_ = cmd.MarkFlagRequired("pin")
	return cmd
}

func newTransferCommand(g *globals) *cobra.Command {
	var pin string

	cmd := &cobra.Command{
		Use:   "transfer <from> <to> <amount>",
		Short: "Move money between two accounts",
		Long:  "Move money between two accounts. The PIN is checked against the source account.",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := parseAccount(args[0])
			if err != nil {
				return err
			}
			to, err := parseAccount(args[1])
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

			details := fmt.Sprintf("to=%d, amount=%s", to, amt.StringFixed(2))
			if err := s.commit(from, details, s.bank.Transfer(from, to, pin, amt)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Transfer of $%s from account %d to account %d completed successfully.\n",
				amt.StringFixed(2), from, to)
			return nil
		},
	}

	cmd.Flags().StringVar(&pin, "pin", "", "PIN of the source account's customer (required)")
	_ = cmd.MarkFlagRequired("pin")
	return cmd
}
