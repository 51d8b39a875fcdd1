// SPDX-License-Identifier: Apache-2.0

// Package inventory implements the Inventory Reconciler (the fetch
// command): for each object kind, run its catalog query and reconcile the
// returned names with the local inclusion list.
package inventory

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pterm/pterm"

	"github.com/tuskdb/tusk/internal/layout"
	"github.com/tuskdb/tusk/pkg/applog"
	"github.com/tuskdb/tusk/pkg/catalog"
	"github.com/tuskdb/tusk/pkg/db"
	"github.com/tuskdb/tusk/pkg/inclist"
	"github.com/tuskdb/tusk/pkg/userconfig"
)

// Reconciler runs fetch against a single connection.
type Reconciler struct {
	DB     db.DB
	Out    io.Writer
	Logger applog.Logger
}

// New returns a Reconciler that writes its progress lines to w and logs
// through logger. A nil logger is replaced with a no-op.
func New(conn db.DB, w io.Writer, logger applog.Logger) *Reconciler {
	if logger == nil {
		logger = applog.NewNoop()
	}
	return &Reconciler{DB: conn, Out: w, Logger: logger}
}

// FetchSchemas reconciles the top-level schema inclusion list. It reports
// whether this was a first-load (the list was empty before the change),
// in which case the caller must stop without recursing into per-schema
// kinds.
func (r *Reconciler) FetchSchemas(ctx context.Context, cfg *userconfig.Config) (firstLoad bool, err error) {
	path := layout.SchemasConfigFile()
	if err := os.MkdirAll(layout.ConfigDir(), 0o755); err != nil {
		return false, err
	}
	if err := inclist.EnsureExists(path); err != nil {
		return false, err
	}

	fromDB, err := r.queryNames(ctx, catalog.ListQuery(catalog.KindSchemas))
	if err != nil {
		return false, err
	}

	addCommented := cfg.FetchOptions.NewItemsCommented["schemas"]
	report, err := inclist.Reconcile(path, fromDB, addCommented, cfg.FetchOptions.DeleteItemsFromConfig)
	if err != nil {
		return false, err
	}

	r.printReport("\nSchema", report)

	if report.FirstLoad() {
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		fmt.Fprintf(r.Out, "\n\nThe list of schemas has been initialised at %s\n\nPlease comment out using // any schemas you do not wish to back up before running fetch again. This will create the lists of functions and tables for you to configure\n", pterm.Bold.Sprint(abs))
		return true, nil
	}

	return false, nil
}

// FetchKind reconciles a single per-schema kind's inclusion list.
func (r *Reconciler) FetchKind(ctx context.Context, cfg *userconfig.Config, schema string, kind catalog.Kind) error {
	r.Logger.LogFetchStart(schema, string(kind))

	if err := os.MkdirAll(layout.SchemaConfigDir(schema), 0o755); err != nil {
		return err
	}

	path := layout.KindConfigFile(schema, kind)
	if err := inclist.EnsureExists(path); err != nil {
		return err
	}

	fromDB, err := r.queryNamesForSchema(ctx, catalog.ListQuery(kind), schema)
	if err != nil {
		return err
	}

	addCommented := cfg.FetchOptions.NewItemsCommented[string(kind)]
	report, err := inclist.Reconcile(path, fromDB, addCommented, cfg.FetchOptions.DeleteItemsFromConfig)
	if err != nil {
		return err
	}

	r.printReport(fmt.Sprintf("\t%s: %s", pterm.FgMagenta.Sprint(schema), catalog.FetchLabel(kind)), report)
	r.Logger.LogFetchComplete(schema, string(kind), report.Added, report.Removed)
	return nil
}

// Run executes the full fetch command: reconcile the schema list, and
// unless this was a first-load, reconcile every per-schema kind for each
// uncommented schema. When only is nonempty, it restricts the per-schema
// pass to the named schemas (the schema-list reconciliation itself always
// runs in full).
func (r *Reconciler) Run(ctx context.Context, cfg *userconfig.Config, only ...string) error {
	fmt.Fprintln(r.Out, "\nBeginning Inventory Fetch:")

	firstLoad, err := r.FetchSchemas(ctx, cfg)
	if err != nil {
		return err
	}
	if firstLoad {
		return nil
	}

	schemas, err := inclist.Uncommented(layout.SchemasConfigFile())
	if err != nil {
		return err
	}
	schemas = filterSchemas(schemas, only)

	for _, schema := range schemas {
		fmt.Fprintf(r.Out, "\nBeginning %s schema fetch:\n", schema)
		for _, kind := range catalog.Kinds {
			if err := r.FetchKind(ctx, cfg, schema, kind); err != nil {
				return err
			}
		}
		fmt.Fprintln(r.Out)
	}

	return nil
}

func filterSchemas(schemas, only []string) []string {
	if len(only) == 0 {
		return schemas
	}
	wanted := make(map[string]bool, len(only))
	for _, s := range only {
		wanted[s] = true
	}
	var out []string
	for _, s := range schemas {
		if wanted[s] {
			out = append(out, s)
		}
	}
	return out
}

func (r *Reconciler) queryNames(ctx context.Context, query string) (map[string]bool, error) {
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out[name] = true
	}
	return out, rows.Err()
}

func (r *Reconciler) queryNamesForSchema(ctx context.Context, query, schema string) (map[string]bool, error) {
	rows, err := r.DB.QueryContext(ctx, query, schema)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out[name] = true
	}
	return out, rows.Err()
}

func (r *Reconciler) printReport(label string, report inclist.ChangeReport) {
	added := pterm.FgYellow.Sprint(report.Added)
	if report.Added > 0 {
		added = pterm.FgGreen.Sprint(report.Added)
	}
	removed := pterm.FgYellow.Sprint(report.Removed)
	if report.Removed > 0 {
		removed = pterm.FgRed.Sprint(report.Removed)
	}

	fmt.Fprintf(r.Out, "%s config file fetched! Added: %-4s, Removed: %-4s\n", label, added, removed)
}
