// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"context"
	"os"

	"github.com/tuskdb/tusk/cmd/flags"
	"github.com/tuskdb/tusk/internal/layout"
	"github.com/tuskdb/tusk/pkg/applog"
	"github.com/tuskdb/tusk/pkg/dbconn"
	"github.com/tuskdb/tusk/pkg/userconfig"
)

// connect loads the user config and opens a database connection shared by
// every command that talks to the database. Callers must Close the
// returned connection.
func connect(ctx context.Context) (*dbconn.DbConnection, *userconfig.Config, error) {
	if err := userconfig.Init(layout.UserConfigFile()); err != nil {
		return nil, nil, err
	}
	cfg, err := userconfig.Get()
	if err != nil {
		return nil, nil, err
	}

	logger := applog.New()
	conn, err := dbconn.Open(ctx, flags.EnvFile(), logger)
	if err != nil {
		return nil, nil, err
	}

	return conn, cfg, nil
}

var stdout = os.Stdout
