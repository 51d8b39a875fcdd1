// SPDX-License-Identifier: Apache-2.0

package pusher_test

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuskdb/tusk/pkg/pusher"
	"github.com/tuskdb/tusk/pkg/testutils"
	"github.com/tuskdb/tusk/pkg/userconfig"
)

func TestMain(m *testing.M) {
	testutils.SharedTestMain(m)
}

func writeLocalFunction(t *testing.T, schema, name, definition string) {
	t.Helper()
	dir := filepath.Join("schemas", schema, "functions", name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".sql"), []byte(definition), 0o644))
}

func writeSchemaList(t *testing.T, schemas ...string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(".tusk", "config"), 0o755))
	contents := ""
	for _, s := range schemas {
		contents += s + "\n"
	}
	require.NoError(t, os.WriteFile(filepath.Join(".tusk", "config", "schemas_to_include.conf"), []byte(contents), 0o644))
}

func TestPushCommitsOnSuccess(t *testing.T) {
	testutils.WithConnectionToContainer(t, func(conn *sql.DB, _ string) {
		chdirTemp(t)

		_, err := conn.Exec("CREATE SCHEMA widgets")
		require.NoError(t, err)

		writeSchemaList(t, "widgets")
		writeLocalFunction(t, "widgets", "double", "CREATE FUNCTION widgets.double(x int) RETURNS int AS $$ SELECT x * 2 $$ LANGUAGE SQL;")

		p := pusher.New(conn, &discardWriter{}, nil)
		cfg := &userconfig.Config{}
		err = p.Run(context.Background(), cfg, pusher.Options{All: true})
		require.NoError(t, err)

		var exists bool
		err = conn.QueryRow(`SELECT EXISTS (SELECT 1 FROM pg_proc p JOIN pg_namespace n ON p.pronamespace = n.oid WHERE n.nspname = 'widgets' AND p.proname = 'double')`).Scan(&exists)
		require.NoError(t, err)
		assert.True(t, exists)
	})
}

func TestPushRollsBackOnApplyFailure(t *testing.T) {
	testutils.WithConnectionToContainer(t, func(conn *sql.DB, _ string) {
		chdirTemp(t)

		_, err := conn.Exec("CREATE SCHEMA widgets")
		require.NoError(t, err)

		writeSchemaList(t, "widgets")
		writeLocalFunction(t, "widgets", "broken", "THIS IS NOT VALID SQL;")

		p := pusher.New(conn, &discardWriter{}, nil)
		cfg := &userconfig.Config{}
		err = p.Run(context.Background(), cfg, pusher.Options{All: true})
		assert.Error(t, err)

		var exists bool
		err = conn.QueryRow(`SELECT EXISTS (SELECT 1 FROM pg_proc p JOIN pg_namespace n ON p.pronamespace = n.oid WHERE n.nspname = 'widgets' AND p.proname = 'broken')`).Scan(&exists)
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

type discardWriter struct{}

func (*discardWriter) Write(p []byte) (int, error) { return len(p), nil }
