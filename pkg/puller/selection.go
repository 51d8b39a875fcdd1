// SPDX-License-Identifier: Apache-2.0

// Package puller implements the Pull Engine: item selection, the in-DB SQL
// extraction strategy, and the external pg_dump extraction strategy, fanned
// out concurrently per schema/kind.
package puller

import (
	"github.com/tuskdb/tusk/pkg/inclist"
)

// Request describes what a caller asked to pull for one kind: either "all"
// (uncommented list in full), an explicit empty pattern list (equivalent to
// all), an explicit nonempty pattern list (intersected against the
// uncommented list), or "not requested" (skip the kind entirely).
type Request struct {
	All      bool
	Patterns []string // nil means "flag not passed"
}

// Requested reports whether this kind was asked for at all.
func (r Request) Requested() bool {
	return r.All || r.Patterns != nil
}

// isAllSelection reports whether this request resolves to "every uncommented
// item", which also gates the clean_ddl_before_pulling user-config option.
func (r Request) isAllSelection() bool {
	return r.All || (r.Patterns != nil && len(r.Patterns) == 0)
}

// ItemsToPull resolves a Request against a kind's inclusion-list path into
// the concrete set of item names to extract, following get_items_to_pull:
// --all or an empty pattern list means the full uncommented list; a
// nonempty pattern list is intersected against the uncommented list via
// schema.prefix / schema.% matching; a kind not requested yields no items.
func ItemsToPull(configPath, schema string, req Request) ([]string, error) {
	if !req.Requested() {
		return nil, nil
	}

	uncommented, err := inclist.Uncommented(configPath)
	if err != nil {
		return nil, err
	}

	if req.isAllSelection() {
		return uncommented, nil
	}

	return inclist.Match(uncommented, req.Patterns, schema), nil
}
