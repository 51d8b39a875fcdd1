// SPDX-License-Identifier: Apache-2.0

// Package layout centralizes the on-disk paths tusk reads and writes,
// relative to the working directory: ./.tusk/ for configuration, ./schemas/
// for extracted DDL.
package layout

import (
	"path/filepath"

	"github.com/tuskdb/tusk/pkg/catalog"
)

const (
	TuskDir     = ".tusk"
	SchemasRoot = "schemas"
)

// EnvFile is the connection env-block.
func EnvFile() string { return filepath.Join(TuskDir, ".env") }

// UserConfigFile is the user-config YAML.
func UserConfigFile() string { return filepath.Join(TuskDir, "user_config.yaml") }

// ConfigDir is the root config directory holding the top-level schema
// inclusion list and the per-schema config directories.
func ConfigDir() string { return filepath.Join(TuskDir, "config") }

// SchemasConfigFile is the top-level schema inclusion list.
func SchemasConfigFile() string { return filepath.Join(ConfigDir(), "schemas_to_include.conf") }

// SchemaConfigDir is the per-schema config directory holding the per-kind
// inclusion lists.
func SchemaConfigDir(schema string) string {
	return filepath.Join(ConfigDir(), "schemas", schema)
}

// KindConfigFile is the per-kind inclusion list for schema.
func KindConfigFile(schema string, kind catalog.Kind) string {
	return filepath.Join(SchemaConfigDir(schema), catalog.InclusionListFileName(kind))
}

// SchemaDir is the directory holding a schema's extracted objects.
func SchemaDir(schema string) string {
	return filepath.Join(SchemasRoot, schema)
}

// SchemaStubFile is the CREATE SCHEMA IF NOT EXISTS stub written when
// pulling --all.
func SchemaStubFile(schema string) string {
	return filepath.Join(SchemaDir(schema), schema+".sql")
}

// KindDir is the directory a kind's extracted files live under.
func KindDir(schema string, kind catalog.Kind) string {
	return filepath.Join(SchemaDir(schema), catalog.OutputDir(kind))
}

// FunctionDir is the per-function directory holding overload .sql files and
// an optional unit_tests/ subdirectory.
func FunctionDir(schema, function string) string {
	return filepath.Join(KindDir(schema, catalog.KindFunctions), function)
}

// FunctionUnitTestsDir is the unit-test directory for a function.
func FunctionUnitTestsDir(schema, function string) string {
	return filepath.Join(FunctionDir(schema, function), "unit_tests")
}
