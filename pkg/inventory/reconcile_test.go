// SPDX-License-Identifier: Apache-2.0

package inventory_test

import (
	"bytes"
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuskdb/tusk/pkg/catalog"
	"github.com/tuskdb/tusk/pkg/db"
	"github.com/tuskdb/tusk/pkg/inclist"
	"github.com/tuskdb/tusk/pkg/inventory"
	"github.com/tuskdb/tusk/pkg/testutils"
	"github.com/tuskdb/tusk/pkg/userconfig"
)

func TestMain(m *testing.M) {
	testutils.SharedTestMain(m)
}

func chdirTemp(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(cwd) })
}

func TestFetchSchemasFirstLoad(t *testing.T) {
	testutils.WithConnectionToContainer(t, func(conn *sql.DB, connStr string) {
		chdirTemp(t)

		_, err := conn.Exec("CREATE SCHEMA IF NOT EXISTS widgets")
		require.NoError(t, err)

		var buf bytes.Buffer
		r := inventory.New(&db.RDB{DB: conn}, &buf, nil)

		cfg := &userconfig.Config{}
		firstLoad, err := r.FetchSchemas(context.Background(), cfg)
		require.NoError(t, err)
		assert.True(t, firstLoad)
		assert.Contains(t, buf.String(), "has been initialised at")

		_ = connStr
	})
}

func TestFetchKindReconciles(t *testing.T) {
	testutils.WithConnectionToContainer(t, func(conn *sql.DB, connStr string) {
		chdirTemp(t)

		_, err := conn.Exec(`
			CREATE SCHEMA widgets;
			CREATE FUNCTION widgets.double(x int) RETURNS int AS $$ SELECT x * 2 $$ LANGUAGE SQL;
		`)
		require.NoError(t, err)

		var buf bytes.Buffer
		r := inventory.New(&db.RDB{DB: conn}, &buf, nil)
		cfg := &userconfig.Config{}

		err = r.FetchKind(context.Background(), cfg, "widgets", catalog.KindFunctions)
		require.NoError(t, err)

		items, err := inclist.Uncommented(kindFile(t, "widgets", catalog.KindFunctions))
		require.NoError(t, err)
		assert.Contains(t, items, "double")

		assert.Contains(t, buf.String(), "Functions")

		_ = connStr
	})
}

func kindFile(t *testing.T, schema string, kind catalog.Kind) string {
	t.Helper()
	return filepath.Join(".tusk", "config", "schemas", schema, string(kind)+"_to_include.conf")
}
