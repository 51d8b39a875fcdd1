// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tuskdb/tusk/cmd/flags"
	"github.com/tuskdb/tusk/pkg/inventory"
)

func fetchCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "fetch [schemas...]",
		Short: "Reconcile inventory lists from the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			conn, cfg, err := connect(ctx)
			if err != nil {
				return err
			}
			defer conn.Close()

			r := inventory.New(conn.DB(), stdout, conn.Logger())
			if all {
				return r.Run(ctx, cfg)
			}
			return r.Run(ctx, cfg, args...)
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Fetch every uncommented schema (default)")
	flags.ConnectionFlags(cmd)
	return cmd
}
