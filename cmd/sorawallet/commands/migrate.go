package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func migrateCmd(st *rootState) *cobra.Command {
	var statusOnly bool
	cmd := &cobra.Command{
		Use:         "migrate",
		Short:       "Show or run the legacy single-account migration",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationNoStart: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := st.ctx(cmd)
			defer cancel()
			out := cmd.OutOrStdout()

			state, err := st.wire.App.Migration.Status(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Status: %s\n", state)
			if statusOnly {
				return nil
			}
			if _, _, err := st.wire.App.Start(ctx); err != nil {
				return err
			}
			state, err = st.wire.App.Migration.Status(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Status: %s\n", state)
			return nil
		},
	}
	cmd.Flags().BoolVar(&statusOnly, "status", false, "only report the migration state")
	return cmd
}
