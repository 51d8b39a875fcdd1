// SPDX-License-Identifier: Apache-2.0

// Package pqerr names the subset of PostgreSQL error codes the rest of the
// module needs to recognize by class rather than by driver-specific string.
package pqerr

import "github.com/lib/pq"

const (
	CheckViolation   pq.ErrorCode = "23514"
	FKViolation      pq.ErrorCode = "23503"
	NotNullViolation pq.ErrorCode = "23502"
	UniqueViolation  pq.ErrorCode = "23505"
	LockNotAvailable pq.ErrorCode = "55P03"
)
