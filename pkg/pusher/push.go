// SPDX-License-Identifier: Apache-2.0

package pusher

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/tuskdb/tusk/internal/layout"
	"github.com/tuskdb/tusk/pkg/applog"
	"github.com/tuskdb/tusk/pkg/dberr"
	"github.com/tuskdb/tusk/pkg/inclist"
	"github.com/tuskdb/tusk/pkg/unittest"
	"github.com/tuskdb/tusk/pkg/userconfig"
)

// Options mirrors the push command's flags.
type Options struct {
	Patterns     []string
	All          bool
	Test         bool
	NoTest       bool
	ForceConfirm bool
}

// Pusher runs the Push Engine against one raw *sql.DB. Unlike the rest of
// tusk, push needs direct *sql.Tx access (for the Test Runner's nested
// savepoints), so it bypasses pkg/db.RDB's retry wrapper and owns the
// transaction itself.
type Pusher struct {
	RawDB         *sql.DB
	Out           io.Writer
	ConfirmReader io.Reader
	Logger        applog.Logger
}

// New returns a Pusher ready to run against rawDB and logging through
// logger. A nil logger is replaced with a no-op.
func New(rawDB *sql.DB, out io.Writer, logger applog.Logger) *Pusher {
	if logger == nil {
		logger = applog.NewNoop()
	}
	return &Pusher{RawDB: rawDB, Out: out, ConfirmReader: os.Stdin, Logger: logger}
}

// Run opens a single transaction, applies every selected function's files
// across every uncommented schema, optionally runs unit tests on the same
// transaction, and commits or rolls back as a single unit.
func (p *Pusher) Run(ctx context.Context, cfg *userconfig.Config, opts Options) error {
	tx, err := p.RawDB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	schemas, err := inclist.Uncommented(layout.SchemasConfigFile())
	if err != nil {
		return err
	}

	fmt.Fprintln(p.Out, "\nBeginning Push:")

	for _, schema := range schemas {
		if err := p.pushSchema(ctx, tx, cfg, schema, opts); err != nil {
			return err
		}
	}

	shouldTest := opts.Test || cfg.PushOptions.TestAfterPush
	if shouldTest && !opts.NoTest {
		counts, err := p.runTests(ctx, tx, schemas, opts)
		if err != nil {
			return err
		}
		if counts.NumFailed > 0 {
			fmt.Fprintln(p.Out, "Error: Due to unit test failure, all functions have been rolled back to their original state.")
			p.Logger.LogPushRollback("unit test failure")
			return nil
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func (p *Pusher) pushSchema(ctx context.Context, tx *sql.Tx, cfg *userconfig.Config, schema string, opts Options) error {
	names, paths, err := LocalFunctions(schema)
	if err != nil {
		return err
	}

	selected, err := SelectFunctions(schema, names, opts.Patterns, opts.All)
	if err != nil {
		return err
	}
	if len(selected) == 0 {
		return nil
	}

	if opts.ForceConfirm || cfg.PushOptions.ConfirmBeforePush {
		ok, err := userconfig.Confirm(p.Out, p.ConfirmReader, schema, selected)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("push to schema %s aborted: not confirmed", schema)
		}
	}

	fmt.Fprintf(p.Out, "\nBeginning %s schema push:\n", schema)

	for _, name := range selected {
		for _, path := range paths[name] {
			if err := applyFile(ctx, tx, p.Out, p.Logger, schema, name, path); err != nil {
				return err
			}
		}
	}

	return nil
}

func applyFile(ctx context.Context, tx *sql.Tx, out io.Writer, logger applog.Logger, schema, funcName, path string) error {
	contents, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, string(contents)); err != nil {
		fmt.Fprintf(out, "\t%s: %s Failed\n", funcName, path)
		fmt.Fprintf(out, "\t\t%s\n", dberr.Format(err))
		return fmt.Errorf("applying %s: %w", path, err)
	}

	fmt.Fprintf(out, "\t%s: %s Success\n", funcName, path)
	logger.LogPushApply(schema, funcName, path)
	return nil
}

func (p *Pusher) runTests(ctx context.Context, tx *sql.Tx, schemas []string, opts Options) (unittest.Counts, error) {
	var counts unittest.Counts

	for _, schema := range schemas {
		names, _, err := LocalFunctions(schema)
		if err != nil {
			return counts, err
		}

		selected, err := SelectFunctions(schema, names, opts.Patterns, opts.All)
		if err != nil {
			return counts, err
		}

		for _, name := range selected {
			dir := layout.FunctionUnitTestsDir(schema, name)
			files, err := unittest.DiscoverTestFiles(dir)
			if err != nil {
				return counts, err
			}

			for _, file := range files {
				results, err := unittest.RunFile(ctx, tx, file)
				if err != nil {
					return counts, err
				}
				counts.Add(results)
				for _, r := range results {
					printTestResult(p.Out, name, r)
				}
			}
		}
	}

	return counts, nil
}

func printTestResult(out io.Writer, funcName string, r unittest.Result) {
	if r.Passed {
		fmt.Fprintf(out, "\t%s: %s Passed\n", funcName, r.Name)
		return
	}
	fmt.Fprintf(out, "\t%s: %s Failed\n", funcName, r.Name)
	fmt.Fprintf(out, "\t\t%s\n", r.Message)
}
