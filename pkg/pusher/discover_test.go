// SPDX-License-Identifier: Apache-2.0

package pusher_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuskdb/tusk/pkg/pusher"
)

func chdirTemp(t *testing.T) {
	t.Helper()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(cwd) })
}

func TestLocalFunctionsDiscoversFiles(t *testing.T) {
	chdirTemp(t)

	require.NoError(t, os.MkdirAll(filepath.Join("schemas", "widgets", "functions", "double"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join("schemas", "widgets", "functions", "double", "double(int).sql"), []byte("CREATE FUNCTION..."), 0o644))

	names, paths, err := pusher.LocalFunctions("widgets")
	require.NoError(t, err)
	assert.Equal(t, []string{"double"}, names)
	assert.Len(t, paths["double"], 1)
}

func TestLocalFunctionsMissingDirIsEmpty(t *testing.T) {
	chdirTemp(t)

	names, _, err := pusher.LocalFunctions("widgets")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestSelectFunctionsDropsCommentedAndMatchesPatterns(t *testing.T) {
	chdirTemp(t)

	require.NoError(t, os.MkdirAll(filepath.Join(".tusk", "config", "schemas", "widgets"), 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(".tusk", "config", "schemas", "widgets", "functions_to_include.conf"),
		[]byte("double\n//triple\nquadruple\n"), 0o644))

	selected, err := pusher.SelectFunctions("widgets", []string{"double", "triple", "quadruple"}, []string{"d"}, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"double"}, selected)
}

func TestSelectFunctionsAll(t *testing.T) {
	chdirTemp(t)

	require.NoError(t, os.MkdirAll(filepath.Join(".tusk", "config", "schemas", "widgets"), 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(".tusk", "config", "schemas", "widgets", "functions_to_include.conf"),
		[]byte("double\n//triple\n"), 0o644))

	selected, err := pusher.SelectFunctions("widgets", []string{"double", "triple"}, nil, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"double"}, selected)
}
