// SPDX-License-Identifier: Apache-2.0

package dbconn_test

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuskdb/tusk/pkg/dbconn"
	"github.com/tuskdb/tusk/pkg/testutils"
)

func TestMain(m *testing.M) {
	testutils.SharedTestMain(m)
}

func TestOpenBuildsWorkingPool(t *testing.T) {
	testutils.WithConnectionToContainerAndName(t, func(_ *sql.DB, connStr, dbName string) {
		u, err := url.Parse(connStr)
		require.NoError(t, err)

		user := u.User.Username()
		pass, _ := u.User.Password()
		port, err := strconv.Atoi(u.Port())
		require.NoError(t, err)

		envPath := filepath.Join(t.TempDir(), ".env")
		contents := fmt.Sprintf("DB_USER=%s\nDB_PASSWORD=%s\nDB_HOST=%s\nDB_PORT=%d\nDB_NAME=%s\n",
			user, pass, u.Hostname(), port, dbName)
		require.NoError(t, os.WriteFile(envPath, []byte(contents), 0o644))

		conn, err := dbconn.Open(context.Background(), envPath, nil)
		require.NoError(t, err)
		defer conn.Close()

		_, err = conn.DB().ExecContext(context.Background(), "SELECT 1")
		require.NoError(t, err)
	})
}
