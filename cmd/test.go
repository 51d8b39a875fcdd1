// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tuskdb/tusk/cmd/flags"
	"github.com/tuskdb/tusk/internal/layout"
	"github.com/tuskdb/tusk/pkg/inclist"
	"github.com/tuskdb/tusk/pkg/pusher"
	"github.com/tuskdb/tusk/pkg/unittest"
)

func testCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "test [patterns...]",
		Short: "Run unit tests for selected functions",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !all && len(args) == 0 {
				return fmt.Errorf("test requires either patterns or --all")
			}

			ctx := cmd.Context()

			conn, _, err := connect(ctx)
			if err != nil {
				return err
			}
			defer conn.Close()

			tx, err := conn.RawDB().BeginTx(ctx, nil)
			if err != nil {
				return err
			}
			defer tx.Rollback()

			schemas, err := inclist.Uncommented(layout.SchemasConfigFile())
			if err != nil {
				return err
			}

			var counts unittest.Counts
			for _, schema := range schemas {
				names, _, err := pusher.LocalFunctions(schema)
				if err != nil {
					return err
				}

				selected, err := pusher.SelectFunctions(schema, names, args, all)
				if err != nil {
					return err
				}

				for _, name := range selected {
					files, err := unittest.DiscoverTestFiles(layout.FunctionUnitTestsDir(schema, name))
					if err != nil {
						return err
					}

					for _, file := range files {
						results, err := unittest.RunFile(ctx, tx, file)
						if err != nil {
							return err
						}
						counts.Add(results)
						for _, r := range results {
							if r.Passed {
								fmt.Fprintf(stdout, "\t%s.%s: %s Passed\n", schema, name, r.Name)
							} else {
								fmt.Fprintf(stdout, "\t%s.%s: %s Failed\n\t\t%s\n", schema, name, r.Name, r.Message)
							}
						}
					}
				}
			}

			fmt.Fprintf(stdout, "\n%d passed, %d failed\n", counts.NumPassed, counts.NumFailed)
			if counts.NumFailed > 0 {
				return fmt.Errorf("%d test(s) failed", counts.NumFailed)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Run unit tests for every uncommented function")
	flags.ConnectionFlags(cmd)
	return cmd
}
