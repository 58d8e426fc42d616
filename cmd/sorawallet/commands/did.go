package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"sorawallet/internal/protocol/did"
)

func didCmd(st *rootState) *cobra.Command {
	return &cobra.Command{
		Use:   "did",
		Short: "Print the active DID and its key reference",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := st.ctx(cmd)
			defer cancel()
			ddo, err := st.wire.App.Accounts.ActiveDDO(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "DID:     %s\nKey ref: %s\n", ddo.ID, did.KeyRef(ddo.ID))
			return nil
		},
	}
}

func ddoCmd(st *rootState) *cobra.Command {
	var register bool
	cmd := &cobra.Command{
		Use:   "ddo",
		Short: "Print the active DID document, optionally publishing it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := st.ctx(cmd)
			defer cancel()
			ddo, err := st.wire.App.Accounts.ActiveDDO(ctx)
			if err != nil {
				return err
			}
			if register {
				if err := st.wire.App.Relay.RegisterDDO(ctx, ddo); err != nil {
					return err
				}
				fmt.Fprintln(cmd.ErrOrStderr(), "Registered DDO with backend")
			}
			return writeJSON(cmd.OutOrStdout(), ddo)
		},
	}
	cmd.Flags().BoolVar(&register, "register", false, "publish the document to the backend")
	return cmd
}
