// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tuskdb/tusk/cmd/flags"
	"github.com/tuskdb/tusk/pkg/pusher"
)

func pushCmd() *cobra.Command {
	var (
		all     bool
		test    bool
		noTest  bool
		confirm bool
	)

	cmd := &cobra.Command{
		Use:   "push [patterns...]",
		Short: "Apply local function files to the database within a transaction",
		RunE: func(cmd *cobra.Command, args []string) error {
			if test && noTest {
				return fmt.Errorf("--test and --no-test are mutually exclusive")
			}
			if !all && len(args) == 0 {
				return fmt.Errorf("push requires either patterns or --all")
			}

			ctx := cmd.Context()

			conn, cfg, err := connect(ctx)
			if err != nil {
				return err
			}
			defer conn.Close()

			p := pusher.New(conn.RawDB(), stdout, conn.Logger())
			return p.Run(ctx, cfg, pusher.Options{
				Patterns:     args,
				All:          all,
				Test:         test,
				NoTest:       noTest,
				ForceConfirm: confirm,
			})
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Push every uncommented function from every uncommended schema")
	cmd.Flags().BoolVar(&test, "test", false, "Force unit tests to run after pushing, rolling back on failure")
	cmd.Flags().BoolVar(&noTest, "no-test", false, "Skip unit tests after pushing, overriding the user-config default")
	cmd.Flags().BoolVar(&confirm, "confirm", false, "Force a confirmation prompt before pushing, regardless of user config")

	flags.ConnectionFlags(cmd)
	return cmd
}
