// SPDX-License-Identifier: Apache-2.0

package puller_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuskdb/tusk/pkg/catalog"
	"github.com/tuskdb/tusk/pkg/puller"
)

func TestCleanDirNonFunctionRemovesEverything(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "table_ddl")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x.sql"), []byte("x"), 0o644))

	var buf bytes.Buffer
	require.NoError(t, puller.CleanDir(&buf, "public", catalog.KindTableDDL, dir))

	_, err := os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}

func TestCleanDirFunctionsPreservesUnitTests(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "functions")
	withTests := filepath.Join(dir, "has_tests")
	withoutTests := filepath.Join(dir, "no_tests")
	require.NoError(t, os.MkdirAll(filepath.Join(withTests, "unit_tests"), 0o755))
	require.NoError(t, os.MkdirAll(withoutTests, 0o755))

	var buf bytes.Buffer
	require.NoError(t, puller.CleanDir(&buf, "public", catalog.KindFunctions, dir))

	_, err := os.Stat(withTests)
	assert.NoError(t, err)

	_, err = os.Stat(withoutTests)
	assert.True(t, os.IsNotExist(err))
}

func TestCleanDirMissingIsNoop(t *testing.T) {
	var buf bytes.Buffer
	err := puller.CleanDir(&buf, "public", catalog.KindViews, filepath.Join(t.TempDir(), "missing"))
	assert.NoError(t, err)
}
