// SPDX-License-Identifier: Apache-2.0

// Package pusher implements the Push Engine: local function-file discovery,
// transactional apply, and the commit/rollback decision that folds in the
// Test Runner.
package pusher

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tuskdb/tusk/internal/layout"
	"github.com/tuskdb/tusk/pkg/catalog"
	"github.com/tuskdb/tusk/pkg/inclist"
)

// LocalFunctions walks ./schemas/<schema>/functions/<func>/*.sql and returns
// the function names found along with the list of .sql file paths (in
// lexical order) under each.
func LocalFunctions(schema string) ([]string, map[string][]string, error) {
	root := layout.KindDir(schema, catalog.KindFunctions)

	paths := make(map[string][]string)

	entries, err := os.ReadDir(root)
	if os.IsNotExist(err) {
		return nil, paths, nil
	} else if err != nil {
		return nil, paths, err
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		funcName := entry.Name()
		funcDir := filepath.Join(root, funcName)

		sqlFiles, err := filepath.Glob(filepath.Join(funcDir, "*.sql"))
		if err != nil {
			return nil, paths, err
		}
		if len(sqlFiles) == 0 {
			continue
		}
		sort.Strings(sqlFiles)
		paths[funcName] = sqlFiles
	}

	names := make([]string, 0, len(paths))
	for name := range paths {
		names = append(names, name)
	}
	sort.Strings(names)

	return names, paths, nil
}

// SelectFunctions drops any locally-discovered function that is commented
// out in that schema's functions_to_include.conf, then narrows to the
// subset matching patterns (or everything, when all is true).
func SelectFunctions(schema string, names []string, patterns []string, all bool) ([]string, error) {
	commented, err := inclist.Commented(layout.KindConfigFile(schema, catalog.KindFunctions))
	if err != nil {
		return nil, err
	}
	excluded := make(map[string]bool, len(commented))
	for _, c := range commented {
		excluded[strings.TrimSpace(c)] = true
	}

	var eligible []string
	for _, name := range names {
		if !excluded[name] {
			eligible = append(eligible, name)
		}
	}

	if all {
		return eligible, nil
	}
	return inclist.Match(eligible, patterns, schema), nil
}
