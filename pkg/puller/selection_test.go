// SPDX-License-Identifier: Apache-2.0

package puller_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuskdb/tusk/pkg/puller"
)

func writeConfFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "functions_to_include.conf")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestItemsToPullNotRequested(t *testing.T) {
	path := writeConfFile(t, "a\nb\n")
	items, err := puller.ItemsToPull(path, "public", puller.Request{})
	require.NoError(t, err)
	assert.Nil(t, items)
}

func TestItemsToPullAll(t *testing.T) {
	path := writeConfFile(t, "a\n//b\nc\n")
	items, err := puller.ItemsToPull(path, "public", puller.Request{All: true})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "c"}, items)
}

func TestItemsToPullEmptyPatternsMeansAll(t *testing.T) {
	path := writeConfFile(t, "a\nb\n")
	items, err := puller.ItemsToPull(path, "public", puller.Request{Patterns: []string{}})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, items)
}

func TestItemsToPullPatternsIntersect(t *testing.T) {
	path := writeConfFile(t, "foo_one\nfoo_two\nbar\n")
	items, err := puller.ItemsToPull(path, "public", puller.Request{Patterns: []string{"foo"}})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"foo_one", "foo_two"}, items)
}
