// SPDX-License-Identifier: Apache-2.0

package puller_test

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
	"github.com/tuskdb/tusk/pkg/puller"
	"github.com/tuskdb/tusk/pkg/testutils"
)

func TestMain(m *testing.M) {
	testutils.SharedTestMain(m)
}

func TestPullSQLWritesFunctionDefinitionAndWarnsOnMissing(t *testing.T) {
	testutils.WithConnectionToContainer(t, func(conn *sql.DB, _ string) {
		_, err := conn.Exec(`
			CREATE SCHEMA widgets;
			CREATE FUNCTION widgets.double(x int) RETURNS int AS $$ SELECT x * 2 $$ LANGUAGE SQL;
		`)
		require.NoError(t, err)

		cwd, err := os.Getwd()
		require.NoError(t, err)
		require.NoError(t, os.Chdir(t.TempDir()))
		t.Cleanup(func() { _ = os.Chdir(cwd) })

		var buf bytes.Buffer
		rdb := &db.RDB{DB: conn}
		err = puller.PullSQL(context.Background(), rdb, &buf, nil, "widgets", catalog.KindFunctions, []string{"double", "missing_fn"})
		require.NoError(t, err)

		data, err := os.ReadFile(filepath.Join("schemas", "widgets", "functions", "double", "double(integer)"+".sql"))
		require.NoError(t, err)
		assert.Contains(t, string(data), "double")

		assert.Contains(t, buf.String(), "Warning")
		assert.Contains(t, buf.String(), "missing_fn")
	})
}
