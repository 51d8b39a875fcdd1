// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is the tusk version.
var Version = "development"

func init() {
	viper.SetEnvPrefix("TUSK")
	viper.AutomaticEnv()
}

var rootCmd = &cobra.Command{
	Use:          "tusk",
	Short:        "Postgres schema-as-code version control",
	SilenceUsage: true,
	Version:      Version,
}

// Execute executes the root command.
func Execute() error {
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(fetchCmd())
	rootCmd.AddCommand(pullCmd())
	rootCmd.AddCommand(pushCmd())
	rootCmd.AddCommand(testCmd())

	return rootCmd.Execute()
}
