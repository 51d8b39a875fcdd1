// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/tuskdb/tusk/cmd/flags"
	"github.com/tuskdb/tusk/pkg/puller"
)

func pullCmd() *cobra.Command {
	var (
		functions []string
		tableDDL  []string
		tableData []string
		dataTypes []string
		views     []string
		all       bool
		confirm   bool
	)

	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Extract selected DDL from the database to disk",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			conn, cfg, err := connect(ctx)
			if err != nil {
				return err
			}
			defer conn.Close()

			sel := puller.Selections{
				All:       all,
				Functions: requestFromFlag(cmd, "functions", functions),
				TableDDL:  requestFromFlag(cmd, "table-ddl", tableDDL),
				TableData: requestFromFlag(cmd, "table-data", tableData),
				DataTypes: requestFromFlag(cmd, "data-types", dataTypes),
				Views:     requestFromFlag(cmd, "views", views),
			}

			p := puller.New(conn.DB(), conn.ConnectionString(), conn.DumpBinaryPath(), stdout, conn.Logger())
			return p.Run(ctx, cfg, sel, confirm)
		},
	}

	cmd.Flags().StringSliceVarP(&functions, "functions", "f", nil, "Pull functions matching the given patterns (no patterns = all)")
	cmd.Flags().StringSliceVarP(&tableDDL, "table-ddl", "t", nil, "Pull table DDL matching the given patterns (no patterns = all)")
	cmd.Flags().StringSliceVarP(&tableData, "table-data", "T", nil, "Pull table data matching the given patterns (no patterns = all)")
	cmd.Flags().StringSliceVarP(&dataTypes, "data-types", "d", nil, "Pull data types matching the given patterns (no patterns = all)")
	cmd.Flags().StringSliceVarP(&views, "views", "v", nil, "Pull views matching the given patterns (no patterns = all)")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Pull every kind for every uncommented schema")
	cmd.Flags().BoolVar(&confirm, "confirm", false, "Force a confirmation prompt before pulling, regardless of user config")

	flags.ConnectionFlags(cmd)
	return cmd
}

// requestFromFlag builds a Request from a string-slice flag, distinguishing
// "flag not passed" (nil Patterns) from "flag passed with no values" (empty,
// non-nil Patterns, meaning "everything").
func requestFromFlag(cmd *cobra.Command, name string, values []string) puller.Request {
	if !cmd.Flags().Changed(name) {
		return puller.Request{}
	}
	if values == nil {
		values = []string{}
	}
	return puller.Request{Patterns: values}
}
