// SPDX-License-Identifier: Apache-2.0

package inclist_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuskdb/tusk/pkg/inclist"
)

func writeTemp(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "list.conf")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestFormatIsIdempotent(t *testing.T) {
	path := writeTemp(t, "B\n//A\nC_with spaces\n\n#D_hash\n")

	require.NoError(t, inclist.Format(path))
	once, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, inclist.Format(path))
	twice, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, string(once), string(twice))
	assert.Equal(t, "//A\nB\nC_withspaces\n#D_hash", string(once))
}

func TestUncommented(t *testing.T) {
	path := writeTemp(t, "//dont_show\nshould_show\nshould show too with spaces\n   //shouldnt show with spaces\n#shouldn't show either with hash")

	got, err := inclist.Uncommented(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"should_show", "should show too with spaces"}, got)
}

func TestCommented(t *testing.T) {
	path := writeTemp(t, "//should_show\nshould_not_show\nshould not show too with spaces\n   //should show with spaces\n#should show with hash")

	got, err := inclist.Commented(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"should_show", "should show with spaces", "should show with hash"}, got)
}

func TestReconcileFirstLoad(t *testing.T) {
	path := writeTemp(t, "")

	report, err := inclist.Reconcile(path, map[string]bool{"public": true, "analytics": true}, true, false)
	require.NoError(t, err)

	assert.True(t, report.FirstLoad())
	assert.Equal(t, 2, report.Added)

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "//analytics\n//public", string(contents))
}

func TestReconcilePreservesCommentedState(t *testing.T) {
	path := writeTemp(t, "a\n//b\nc")

	report, err := inclist.Reconcile(path, map[string]bool{"a": true, "b": true, "d": true}, false, true)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Added)
	assert.Equal(t, 1, report.Removed)
	assert.Equal(t, 3, report.AmountBeforeChange)

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a\n//b\nd", string(contents))
}

func TestMatch(t *testing.T) {
	items := []string{"Test_One", "Test_Two", "unrelated"}

	assert.Equal(t, []string{"Test_One", "Test_Two"}, inclist.Match(items, []string{"Test"}, ""))
	assert.Equal(t, []string{"Test_One", "Test_Two", "unrelated"}, inclist.Match(items, []string{"Test", "un"}, ""))
	assert.Equal(t, []string{"Test_One", "Test_Two"}, inclist.Match(items, []string{"Test_O", "schema_name.Test_T", "not_match.un"}, "schema_name"))
	assert.Equal(t, []string{"Test_One", "Test_Two", "unrelated"}, inclist.Match(items, []string{"schema_name.%"}, "schema_name"))
}
