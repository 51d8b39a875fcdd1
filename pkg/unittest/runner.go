// SPDX-License-Identifier: Apache-2.0

package unittest

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/tuskdb/tusk/pkg/dberr"
)

// Result is the outcome of one test case.
type Result struct {
	Name    string
	Passed  bool
	Message string
}

// Counts aggregates Results additively across files and schemas.
type Counts struct {
	NumPassed int
	NumFailed int
}

// Add folds results into the running counts.
func (c *Counts) Add(results []Result) {
	for _, r := range results {
		if r.Passed {
			c.NumPassed++
		} else {
			c.NumFailed++
		}
	}
}

// RunFile loads and runs every test case in a unit_tests/*.yaml file against
// tx. Each case runs under its own rollback-only savepoint, so no test case
// can observe another's effects.
func RunFile(ctx context.Context, tx *sql.Tx, path string) ([]Result, error) {
	cases, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(cases))
	for _, tc := range cases {
		result, err := runCase(ctx, tx, tc)
		if err != nil {
			return nil, fmt.Errorf("running test %q in %s: %w", tc.Name, path, err)
		}
		results = append(results, result)
	}
	return results, nil
}

func runCase(ctx context.Context, tx *sql.Tx, tc TestCase) (Result, error) {
	savepoint := "tusk_" + strings.ReplaceAll(uuid.NewString(), "-", "_")

	if _, err := tx.ExecContext(ctx, "SAVEPOINT "+savepoint); err != nil {
		return Result{}, err
	}
	defer tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+savepoint)

	result := runQueries(ctx, tx, tc)
	result.Name = tc.Name
	return result, nil
}

func runQueries(ctx context.Context, tx *sql.Tx, tc TestCase) Result {
	if tc.ExpectedOutput != nil {
		result := checkRows(ctx, tx, tc.Query, tc.ExpectedOutput, "")
		if !result.Passed {
			return result
		}
	} else {
		if _, err := tx.ExecContext(ctx, tc.Query); err != nil {
			return Result{Passed: false, Message: dberr.Format(err)}
		}
	}

	if tc.ExpectedSideEffect != nil {
		return checkRows(ctx, tx, tc.ExpectedSideEffect.TableQuery, tc.ExpectedSideEffect.ExpectedQueryResults, "Side Effect: ")
	}

	return Result{Passed: true}
}

func checkRows(ctx context.Context, tx *sql.Tx, query string, expected []map[string]string, messagePrefix string) Result {
	rows, err := tx.QueryContext(ctx, query)
	if err != nil {
		return Result{Passed: false, Message: messagePrefix + dberr.Format(err)}
	}
	defer rows.Close()

	actual, err := rowsToMaps(rows)
	if err != nil {
		return Result{Passed: false, Message: messagePrefix + dberr.Format(err)}
	}

	if len(actual) != len(expected) {
		return Result{Passed: false, Message: fmt.Sprintf("%sexpected %d row(s), got %d", messagePrefix, len(expected), len(actual))}
	}

	for i, exp := range expected {
		if !mapsEqual(actual[i], exp) {
			return Result{Passed: false, Message: fmt.Sprintf("%srow %d: expected %v, got %v", messagePrefix, i, exp, actual[i])}
		}
	}

	return Result{Passed: true}
}

// rowsToMaps maps every row to {column_name: string_value}, using raw
// column values and representing SQL NULL as the literal string "NULL".
func rowsToMaps(rows *sql.Rows) ([]map[string]string, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []map[string]string
	for rows.Next() {
		raw := make([]sql.RawBytes, len(cols))
		ptrs := make([]any, len(cols))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := make(map[string]string, len(cols))
		for i, col := range cols {
			if raw[i] == nil {
				row[col] = "NULL"
			} else {
				row[col] = string(raw[i])
			}
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func mapsEqual(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}

// DiscoverTestFiles lists the *.yaml and *.yml files directly under a
// function's unit_tests/ directory: the *.yaml files in lexical order,
// followed by the *.yml files in lexical order.
func DiscoverTestFiles(unitTestsDir string) ([]string, error) {
	yaml, err := filepath.Glob(filepath.Join(unitTestsDir, "*.yaml"))
	if err != nil {
		return nil, err
	}
	yml, err := filepath.Glob(filepath.Join(unitTestsDir, "*.yml"))
	if err != nil {
		return nil, err
	}
	return append(yaml, yml...), nil
}
