// SPDX-License-Identifier: Apache-2.0

package flags

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// EnvFile returns the path to the connection env-block, defaulting to
// ./.tusk/.env.
func EnvFile() string {
	return viper.GetString("ENV_FILE")
}

// ConnectionFlags registers the --env-file flag shared by every command
// that talks to a database.
func ConnectionFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("env-file", "./.tusk/.env", "Path to the connection env-block")
	// Bind when the command runs, so ENV_FILE reads the flag of the command
	// actually invoked rather than that of the last command registered.
	cmd.PreRun = func(cmd *cobra.Command, _ []string) {
		viper.BindPFlag("ENV_FILE", cmd.PersistentFlags().Lookup("env-file"))
	}
}
