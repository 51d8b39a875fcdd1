// SPDX-License-Identifier: Apache-2.0

package puller

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/tuskdb/tusk/internal/layout"
	"github.com/tuskdb/tusk/pkg/applog"
	"github.com/tuskdb/tusk/pkg/catalog"
	"github.com/tuskdb/tusk/pkg/db"
	"github.com/tuskdb/tusk/pkg/inclist"
	"github.com/tuskdb/tusk/pkg/userconfig"
)

// Selections holds the per-kind Request gathered from CLI flags.
type Selections struct {
	All       bool
	Functions Request
	TableDDL  Request
	TableData Request
	DataTypes Request
	Views     Request
}

func (s Selections) request(kind catalog.Kind) Request {
	switch kind {
	case catalog.KindFunctions:
		return orAll(s.Functions, s.All)
	case catalog.KindTableDDL:
		return orAll(s.TableDDL, s.All)
	case catalog.KindTableData:
		return orAll(s.TableData, s.All)
	case catalog.KindDataTypes:
		return orAll(s.DataTypes, s.All)
	case catalog.KindViews:
		return orAll(s.Views, s.All)
	default:
		return Request{}
	}
}

func orAll(req Request, all bool) Request {
	if all {
		req.All = true
	}
	return req
}

// Puller runs the Pull Engine for one connection.
type Puller struct {
	DB            db.DB
	ConnStr       string
	PgBinPath     string
	Out           io.Writer
	Logger        applog.Logger
	ConfirmReader io.Reader
}

// New returns a Puller ready to run against conn.
func New(conn db.DB, connStr, pgBinPath string, out io.Writer, logger applog.Logger) *Puller {
	return &Puller{DB: conn, ConnStr: connStr, PgBinPath: pgBinPath, Out: out, Logger: logger, ConfirmReader: os.Stdin}
}

// Run extracts every requested kind for every uncommented schema.
func (p *Puller) Run(ctx context.Context, cfg *userconfig.Config, sel Selections, forceConfirm bool) error {
	schemas, err := inclist.Uncommented(layout.SchemasConfigFile())
	if err != nil {
		return err
	}

	fmt.Fprintln(p.Out, "\nBeginning Pulling:")

	for _, schema := range schemas {
		fmt.Fprintf(p.Out, "\nBeginning %s schema pull:\n", schema)

		if sel.All {
			if err := writeSchemaStub(p.Out, schema); err != nil {
				return err
			}
		}

		for _, kind := range catalog.Kinds {
			req := sel.request(kind)
			if err := p.pullKind(ctx, cfg, schema, kind, req, forceConfirm); err != nil {
				return err
			}
		}
	}

	return nil
}

func (p *Puller) pullKind(ctx context.Context, cfg *userconfig.Config, schema string, kind catalog.Kind, req Request, forceConfirm bool) error {
	if !req.Requested() {
		return nil
	}

	configPath := layout.KindConfigFile(schema, kind)
	items, err := ItemsToPull(configPath, schema, req)
	if err != nil {
		return err
	}

	if len(items) > 0 && (forceConfirm || cfg.PullOptions.ConfirmBeforePull) {
		ok, err := userconfig.Confirm(p.Out, p.ConfirmReader, schema, items)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("pull of %s.%s aborted: not confirmed", schema, kind)
		}
	}

	outDir := layout.KindDir(schema, kind)
	if req.isAllSelection() && cfg.PullOptions.CleanDDLBeforePulling {
		if err := CleanDir(p.Out, schema, kind, outDir); err != nil {
			return err
		}
	}

	switch catalog.PullStrategy(kind) {
	case catalog.StrategySQL:
		return PullSQL(ctx, p.DB, p.Out, p.Logger, schema, kind, items)
	default:
		return PullDump(ctx, p.Out, p.Logger, schema, p.PgBinPath, p.ConnStr, kind, items, cfg.PullOptions.PgDumpAdditionalArgs)
	}
}

func writeSchemaStub(out io.Writer, schema string) error {
	path := layout.SchemaStubFile(schema)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	w, err := os.Create(path)
	if err != nil {
		return err
	}
	defer w.Close()

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "CREATE SCHEMA IF NOT EXISTS %s;\n", schema)
	if err := bw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\tPulling %s\n", path)
	return nil
}
