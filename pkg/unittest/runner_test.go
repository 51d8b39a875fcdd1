// SPDX-License-Identifier: Apache-2.0

package unittest_test

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuskdb/tusk/pkg/testutils"
	"github.com/tuskdb/tusk/pkg/unittest"
)

func TestMain(m *testing.M) {
	testutils.SharedTestMain(m)
}

func TestRunFilePassesAndRollsBack(t *testing.T) {
	testutils.WithConnectionToContainer(t, func(conn *sql.DB, _ string) {
		_, err := conn.Exec(`CREATE TABLE counters (n int)`)
		require.NoError(t, err)

		path := writeTestFile(t, `
- name: inserts a row
  query: INSERT INTO counters (n) VALUES (1)
- name: counts rows
  query: SELECT count(*)::text AS n FROM counters
  expected_output:
    - n: "0"
`)

		tx, err := conn.BeginTx(context.Background(), nil)
		require.NoError(t, err)
		defer tx.Rollback()

		results, err := unittest.RunFile(context.Background(), tx, path)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.True(t, results[0].Passed)
		assert.True(t, results[1].Passed, results[1].Message)

		var count int
		require.NoError(t, tx.QueryRow("SELECT count(*) FROM counters").Scan(&count))
		assert.Equal(t, 0, count)
	})
}

func TestRunFileFailsOnMismatch(t *testing.T) {
	testutils.WithConnectionToContainer(t, func(conn *sql.DB, _ string) {
		path := writeTestFile(t, `
- name: wrong expectation
  query: SELECT 1 AS n
  expected_output:
    - n: "2"
`)

		tx, err := conn.BeginTx(context.Background(), nil)
		require.NoError(t, err)
		defer tx.Rollback()

		results, err := unittest.RunFile(context.Background(), tx, path)
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.False(t, results[0].Passed)
	})
}

func TestDiscoverTestFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), []byte("- name: a\n  query: SELECT 1"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yml"), []byte("- name: b\n  query: SELECT 1"), 0o644))

	files, err := unittest.DiscoverTestFiles(dir)
	require.NoError(t, err)
	assert.Len(t, files, 2)
}
