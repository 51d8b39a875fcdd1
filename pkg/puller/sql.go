// SPDX-License-Identifier: Apache-2.0

package puller

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/lib/pq"

	"github.com/tuskdb/tusk/pkg/applog"
	"github.com/tuskdb/tusk/pkg/catalog"
	"github.com/tuskdb/tusk/pkg/db"
)

// ddlRow mirrors the (name, definition, file_path) shape every SQL-strategy
// catalog query returns.
type ddlRow struct {
	name       string
	definition string
	filePath   string
}

// PullSQL runs the in-DB SQL strategy for kind against the given items
// (functions, data_types), writing one file per nonempty definition under
// ./schemas/<schema>/. A row with an empty definition is a warning, not a
// write.
func PullSQL(ctx context.Context, conn db.DB, out io.Writer, logger applog.Logger, schema string, kind catalog.Kind, items []string) error {
	if len(items) == 0 {
		return nil
	}

	query := ddlQuery(kind)
	rows, err := conn.QueryContext(ctx, query, schema, pq.Array(items))
	if err != nil {
		return fmt.Errorf("querying %s ddl for schema %s: %w", kind, schema, err)
	}
	defer rows.Close()

	for rows.Next() {
		var row ddlRow
		if err := rows.Scan(&row.name, &row.definition, &row.filePath); err != nil {
			return err
		}
		if err := writeDDLRow(out, logger, schema, string(kind), row); err != nil {
			return err
		}
	}
	return rows.Err()
}

func ddlQuery(kind catalog.Kind) string {
	switch kind {
	case catalog.KindFunctions:
		return catalog.FunctionDDLQuery
	case catalog.KindDataTypes:
		return catalog.DataTypeDDLQuery
	default:
		return ""
	}
}

func writeDDLRow(out io.Writer, logger applog.Logger, schema, kind string, row ddlRow) error {
	filePath := filepath.Join("schemas", schema, row.filePath+".sql")

	if row.definition == "" {
		msg := fmt.Sprintf("(%s): Does not exist within the database", filePath)
		fmt.Fprintf(out, "\tWarning %s\n", msg)
		if logger != nil {
			logger.LogPullWarning(schema, kind, row.name, "does not exist within the database")
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return err
	}

	fmt.Fprintf(out, "\tPulling %s\n", filePath)
	if err := os.WriteFile(filePath, []byte(row.definition), 0o644); err != nil {
		return err
	}
	if logger != nil {
		logger.LogPullItem(schema, kind, row.name)
	}
	return nil
}
