// SPDX-License-Identifier: Apache-2.0

// Package catalog holds the fixed PostgreSQL catalog queries used by the
// Inventory Reconciler and the Pull Engine's SQL strategy, and the per-kind
// metadata (inclusion-list path, output directory, pull strategy) that
// drives both.
package catalog

// Kind identifies a class of schema object tusk tracks.
type Kind string

const (
	KindSchemas   Kind = "schemas"
	KindFunctions Kind = "functions"
	KindTableDDL  Kind = "table_ddl"
	KindTableData Kind = "table_data"
	KindDataTypes Kind = "data_types"
	KindViews     Kind = "views"
)

// Strategy identifies how a kind's DDL is extracted during pull.
type Strategy int

const (
	// StrategySQL extracts DDL in-process via a parameterized catalog query.
	StrategySQL Strategy = iota
	// StrategyDump fans out to an external dump binary, one process per item.
	StrategyDump
)

// Kinds lists the per-schema kinds in the fixed processing order required
// by the concurrency model: functions, table_ddl, table_data, data_types,
// views. KindSchemas is handled separately by the Inventory Reconciler.
var Kinds = []Kind{KindFunctions, KindTableDDL, KindTableData, KindDataTypes, KindViews}

// ListQuery returns the catalog query that enumerates every object of kind
// as a single "item_name" column. Every list query but the schemas query
// takes the target schema as $1.
func ListQuery(kind Kind) string {
	switch kind {
	case KindSchemas:
		return schemasListQuery
	case KindFunctions:
		return functionsListQuery
	case KindTableDDL, KindTableData:
		return tablesListQuery
	case KindDataTypes:
		return dataTypesListQuery
	case KindViews:
		return viewsListQuery
	default:
		return ""
	}
}

// InclusionListFileName is the per-kind .conf file name under
// ./.tusk/config/schemas/<schema>/.
func InclusionListFileName(kind Kind) string {
	return string(kind) + "_to_include.conf"
}

// OutputDir is the on-disk directory (relative to ./schemas/<schema>/) that
// holds a kind's extracted files.
func OutputDir(kind Kind) string {
	return string(kind)
}

// PullStrategy reports which extraction strategy a kind uses.
func PullStrategy(kind Kind) Strategy {
	switch kind {
	case KindFunctions, KindDataTypes:
		return StrategySQL
	default:
		return StrategyDump
	}
}

// FetchLabel is the human label printed before a kind's Added/Removed line.
func FetchLabel(kind Kind) string {
	switch kind {
	case KindFunctions:
		return "Functions"
	case KindTableDDL:
		return "Table DDL"
	case KindTableData:
		return "Table data"
	case KindDataTypes:
		return "Data type"
	case KindViews:
		return "Views"
	default:
		return string(kind)
	}
}
