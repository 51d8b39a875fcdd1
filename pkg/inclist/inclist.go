// SPDX-License-Identifier: Apache-2.0

// Package inclist implements the inclusion-list config files that drive
// fetch/pull/push/test item selection: one name per line, a leading "//"
// or "#" (after trimming) marks the entry as commented-out (excluded).
package inclist

import (
	"os"
	"sort"
	"strings"
)

// ChangeReport summarizes the effect of a Reconcile call.
type ChangeReport struct {
	Added              int
	Removed            int
	AmountBeforeChange int
}

// FirstLoad reports whether the list was empty before the change that
// produced this report — the sentinel for "never populated".
func (c ChangeReport) FirstLoad() bool {
	return c.AmountBeforeChange == 0
}

func isCommentedLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "#")
}

// strippedKey removes comment markers and spaces, yielding the bare name
// used for sorting, set membership and equality.
func strippedKey(line string) string {
	s := strings.ReplaceAll(line, "//", "")
	s = strings.ReplaceAll(s, "#", "")
	s = strings.ReplaceAll(s, " ", "")
	return s
}

func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return strings.Split(string(data), "\n"), nil
}

// EnsureExists creates an empty list file at path if one doesn't exist yet.
func EnsureExists(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}
	return os.WriteFile(path, nil, 0o644)
}

// Format reads the file at path, canonicalizes it (trims each line, drops
// blanks, sorts by stripped key) and writes the result back. Format is
// idempotent: formatting an already-canonical file produces the same file.
func Format(path string) error {
	lines, err := readLines(path)
	if err != nil {
		return err
	}
	canon := canonicalize(lines, nil)
	return os.WriteFile(path, []byte(strings.Join(canon, "\n")), 0o644)
}

// canonicalize trims each line, drops blanks, drops any line whose stripped
// key is in exclude, and sorts the remainder by stripped key.
func canonicalize(lines []string, exclude map[string]bool) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		item := strings.ReplaceAll(strings.TrimSpace(line), " ", "")
		if item == "" {
			continue
		}
		if exclude != nil && exclude[strippedKey(item)] {
			continue
		}
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strippedKey(out[i]) < strippedKey(out[j])
	})
	return out
}

// Uncommented returns the lines that are NOT commented out, trimmed of
// surrounding whitespace, in file order.
func Uncommented(path string) ([]string, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || isCommentedLine(line) {
			continue
		}
		out = append(out, trimmed)
	}
	return out, nil
}

// Commented returns the lines that ARE commented out, with a single leading
// "//" or "#" stripped, in file order.
func Commented(path string) ([]string, error) {
	lines, err := readLines(path)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		switch {
		case strings.HasPrefix(trimmed, "//"):
			out = append(out, strings.TrimPrefix(trimmed, "//"))
		case strings.HasPrefix(trimmed, "#"):
			out = append(out, strings.TrimPrefix(trimmed, "#"))
		}
	}
	return out, nil
}

// Reconcile diffs the file's stripped-key set against fromDB. Names present
// in fromDB but absent locally are appended (commented iff addNewAsCommented).
// Names present locally but absent from fromDB are removed iff
// deleteMissing. The commented/uncommented state of surviving entries is
// preserved. The canonical file is written back; a ChangeReport is returned.
func Reconcile(path string, fromDB map[string]bool, addNewAsCommented, deleteMissing bool) (ChangeReport, error) {
	lines, err := readLines(path)
	if err != nil {
		return ChangeReport{}, err
	}

	localKeys := make(map[string]bool)
	for _, line := range lines {
		key := strippedKey(line)
		if key == "" {
			continue
		}
		localKeys[key] = true
	}

	var added int
	appended := append([]string{}, lines...)
	for name := range fromDB {
		if localKeys[name] {
			continue
		}
		if addNewAsCommented {
			appended = append(appended, "//"+name)
		} else {
			appended = append(appended, name)
		}
		added++
	}

	report := ChangeReport{
		Added:              added,
		AmountBeforeChange: len(localKeys),
	}

	var exclude map[string]bool
	if deleteMissing {
		exclude = make(map[string]bool)
		for key := range localKeys {
			if !fromDB[key] {
				exclude[key] = true
				report.Removed++
			}
		}
	}

	canon := canonicalize(appended, exclude)
	if err := os.WriteFile(path, []byte(strings.Join(canon, "\n")), 0o644); err != nil {
		return ChangeReport{}, err
	}

	return report, nil
}

// Match filters items by pattern: a bare pattern "prefix" matches any item
// starting with that prefix regardless of schema. A qualified pattern
// "schema.prefix" matches items only when schema equals the given
// schemaToMatch, and then either by prefix or via the wildcard suffix "%".
// A qualified pattern is never satisfied when schemaToMatch is empty.
func Match(items []string, patterns []string, schemaToMatch string) []string {
	var out []string
	for _, item := range items {
		if matchesAny(item, patterns, schemaToMatch) {
			out = append(out, item)
		}
	}
	return out
}

func matchesAny(item string, patterns []string, schemaToMatch string) bool {
	for _, pat := range patterns {
		patSchema, patItem, qualified := strings.Cut(pat, ".")
		switch {
		case qualified && schemaToMatch != "":
			if patSchema == schemaToMatch && (strings.HasPrefix(item, patItem) || patItem == "%") {
				return true
			}
		case !qualified:
			if strings.HasPrefix(item, pat) {
				return true
			}
		}
	}
	return false
}
