// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tuskdb/tusk/internal/layout"
)

const defaultUserConfigYAML = `fetch_options:
  new_items_commented: {}
  delete_items_from_config: false
pull_options:
  clean_ddl_before_pulling: false
  confirm_before_pull: false
  pg_dump_additional_args: []
push_options:
  test_after_push: true
  confirm_before_push: false
`

const envBlockTemplate = `DB_USER=
DB_PASSWORD=
DB_HOST=
DB_PORT=5432
DB_NAME=

# USE_SSH=TRUE
# SSH_HOST=
# SSH_USER=
# SSH_LOCAL_BIND_PORT=
# PG_BIN_PATH=pg_dump
`

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Scaffold ./.tusk/ and ./schemas/ in the working directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit()
		},
	}
}

func runInit() error {
	dirs := []string{
		layout.TuskDir,
		layout.ConfigDir(),
		layout.SchemasRoot,
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	if err := writeIfAbsent(layout.EnvFile(), envBlockTemplate); err != nil {
		return err
	}
	if err := writeIfAbsent(layout.UserConfigFile(), defaultUserConfigYAML); err != nil {
		return err
	}
	if err := writeIfAbsent(layout.SchemasConfigFile(), ""); err != nil {
		return err
	}

	fmt.Println("Initialized tusk in the current directory. Fill in ./.tusk/.env, then run `tusk fetch`.")
	return nil
}

func writeIfAbsent(path, contents string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}
	return os.WriteFile(path, []byte(contents), 0o644)
}
