// SPDX-License-Identifier: Apache-2.0

package puller

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tuskdb/tusk/pkg/applog"
	"github.com/tuskdb/tusk/pkg/catalog"
)

// PullDump runs the external pg_dump strategy for kind (table_ddl,
// table_data, views) against the given items, fanning out one child process
// per item concurrently. Nonempty stderr from a child is a warning, not a
// fatal error, and does not write the file.
func PullDump(ctx context.Context, out io.Writer, logger applog.Logger, schema, pgBinPath, connStr string, kind catalog.Kind, items []string, extraArgs []string) error {
	if len(items) == 0 {
		return nil
	}

	outDir := filepath.Join("schemas", schema, catalog.OutputDir(kind))
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results = make([]error, len(items))
	)

	for i, item := range items {
		wg.Add(1)
		go func(i int, item string) {
			defer wg.Done()
			err := runPgDump(ctx, out, logger, pgBinPath, connStr, outDir, schema, item, kind, extraArgs)
			if err != nil {
				mu.Lock()
				results[i] = err
				mu.Unlock()
			}
		}(i, item)
	}
	wg.Wait()

	for _, err := range results {
		if err != nil {
			return err
		}
	}
	return nil
}

func runPgDump(ctx context.Context, out io.Writer, logger applog.Logger, pgBinPath, connStr, outDir, schema, item string, kind catalog.Kind, extraArgs []string) error {
	filePath := filepath.Join(outDir, item+".sql")

	args := append([]string{"--dbname=" + connStr}, catalog.PgDumpArgs(kind, schema, item)...)
	args = append(args, extraArgs...)

	cmd := exec.CommandContext(ctx, pgBinPath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if stderr.Len() == 0 {
			return fmt.Errorf("running %s for %s: %w", pgBinPath, filePath, err)
		}
	}

	if stderr.Len() > 0 {
		msg := strings.ReplaceAll(strings.TrimRight(stderr.String(), "\n"), "\n", "\n\t\t")
		fmt.Fprintf(out, "\tWarning (%s): %s\n", filePath, msg)
		if logger != nil {
			logger.LogPullWarning(schema, string(kind), item, msg)
		}
		return nil
	}

	ddl := stripDumpHeader(stdout.Bytes())

	fmt.Fprintf(out, "\tPulling %s\n", filePath)
	if err := os.WriteFile(filePath, ddl, 0o644); err != nil {
		return err
	}
	if logger != nil {
		logger.LogPullItem(schema, string(kind), item)
	}
	return nil
}

// stripDumpHeader discards the pg_dump preamble before the first "SET"
// statement, keeping that statement and everything after it, matching the
// original puller's header-stripping.
func stripDumpHeader(dump []byte) []byte {
	if idx := bytes.Index(dump, []byte("SET")); idx >= 0 {
		return dump[idx:]
	}
	return dump
}
