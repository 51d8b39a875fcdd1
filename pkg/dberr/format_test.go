// SPDX-License-Identifier: Apache-2.0

package dberr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/tuskdb/tusk/pkg/dberr"
)

func TestFormatPqError(t *testing.T) {
	err := &pq.Error{
		Message:  "division by zero",
		Detail:   "nope",
		Hint:     "check your divisor",
		Position: "42",
	}

	got := dberr.Format(err)
	assert.Equal(t, "Error: division by zero, Position: 42, Detail: nope, Hint: check your divisor", got)
}

func TestFormatWrappedPqError(t *testing.T) {
	inner := &pq.Error{Message: "boom"}
	err := fmt.Errorf("applying function: %w", inner)

	got := dberr.Format(err)
	assert.Contains(t, got, "Error: boom")
}

func TestFormatPlainError(t *testing.T) {
	err := errors.New("file not found")

	got := dberr.Format(err)
	assert.Equal(t, "Error: file not found", got)
}
