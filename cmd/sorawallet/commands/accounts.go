package commands

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"sorawallet/internal/domain"
)

func createCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:     "create <name>",
		Aliases: []string{"init"},
		Short:   "Create an account from a new recovery phrase",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := st.ctx(cmd)
			defer cancel()
			acct, mnemonic, err := st.wire.App.Accounts.Create(ctx, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printAccount(out, acct)
			fmt.Fprintf(out, "Recovery phrase (write it down, it is shown once):\n  %s\n", mnemonic)
			return nil
		},
	}
}

func recoverCmd(st *rootState) *cobra.Command {
	var mnemonic string
	cmd := &cobra.Command{
		Use:   "recover <name>",
		Short: "Restore an account from its recovery phrase (read from stdin unless --mnemonic)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if mnemonic == "" {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read recovery phrase: %w", err)
				}
				mnemonic = strings.TrimSpace(line)
			}
			ctx, cancel := st.ctx(cmd)
			defer cancel()
			acct, err := st.wire.App.Accounts.Recover(ctx, args[0], mnemonic)
			if err != nil {
				return err
			}
			printAccount(cmd.OutOrStdout(), acct)
			return nil
		},
	}
	cmd.Flags().StringVar(&mnemonic, "mnemonic", "", "recovery phrase")
	return cmd
}

func accountsCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "List local accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := st.ctx(cmd)
			defer cancel()
			list, err := st.wire.Accounts.List(ctx)
			if err != nil {
				return err
			}
			active, _, err := st.wire.Accounts.Active(ctx)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "\tID\tNAME\tADDRESS\tCREATED")
			for _, a := range list {
				mark := ""
				if a.ID == active.ID {
					mark = "*"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", mark, a.ID, a.Name, a.Address,
					time.Unix(a.CreatedUTC, 0).UTC().Format(time.RFC3339))
			}
			return tw.Flush()
		},
	}
}

func switchCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "switch <account-id>",
		Short: "Make another account active",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := st.ctx(cmd)
			defer cancel()
			if err := st.wire.App.Accounts.Switch(ctx, domain.AccountID(args[0])); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Active account: %s\n", args[0])
			return nil
		},
	}
}

func deleteCmd(st *rootState) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <account-id>",
		Short: "Remove an account and every credential stored for it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to delete %s without --yes; export its recovery phrase first", args[0])
			}
			ctx, cancel := st.ctx(cmd)
			defer cancel()
			if err := st.wire.App.Accounts.Delete(ctx, domain.AccountID(args[0])); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")
	return cmd
}

func exportCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "export <account-id>",
		Short: "Print an account's recovery phrase",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := st.ctx(cmd)
			defer cancel()
			m, err := st.wire.App.Accounts.ExportMnemonic(ctx, domain.AccountID(args[0]))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), m)
			return nil
		},
	}
}

func printAccount(w io.Writer, a domain.Account) {
	fmt.Fprintf(w, "Account: %s\nName:    %s\nAddress: %s\n", a.ID, a.Name, a.Address)
}
