// SPDX-License-Identifier: Apache-2.0

package puller

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/tuskdb/tusk/pkg/catalog"
)

// CleanDir removes dir before repopulating, unless dir is a functions
// directory, in which case only per-function subdirectories that have no
// unit_tests/ subdirectory are removed (preserving user-authored tests).
func CleanDir(out io.Writer, schema string, kind catalog.Kind, dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil
	} else if err != nil {
		return err
	}

	if kind == catalog.KindFunctions {
		if err := cleanFunctionDir(dir); err != nil {
			return err
		}
	} else if err := os.RemoveAll(dir); err != nil {
		return err
	}

	fmt.Fprintf(out, "\tCleaned: Directory %s\n", dir)
	return nil
}

func cleanFunctionDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		funcDir := filepath.Join(dir, entry.Name())
		unitTestsDir := filepath.Join(funcDir, "unit_tests")
		if _, err := os.Stat(unitTestsDir); os.IsNotExist(err) {
			if err := os.RemoveAll(funcDir); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
	}

	return nil
}
