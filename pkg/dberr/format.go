// SPDX-License-Identifier: Apache-2.0

// Package dberr turns driver and database errors into the single-line
// human-presentable diagnostics printed by the pull, push and test
// commands.
package dberr

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// Format converts err into a diagnostic line. When err carries a
// PostgreSQL error (message/detail/hint/position), those fields are
// extracted and composed; otherwise the error's own Error() text is used.
func Format(err error) string {
	if err == nil {
		return ""
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return fmt.Sprintf("Error: %s, Position: %s, Detail: %s, Hint: %s",
			pqErr.Message, position(pqErr), pqErr.Detail, pqErr.Hint)
	}

	return fmt.Sprintf("Error: %s", err)
}

func position(pqErr *pq.Error) string {
	if pqErr.Position != "" {
		return pqErr.Position
	}
	if pqErr.InternalPosition != "" {
		return pqErr.InternalPosition
	}
	return ""
}
