//-------------------------------------------------------------------------
//
// starload - retail star schema loader
//
// Copyright (c) 2025 - 2026, the starload authors
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package etl

import (
	"fmt"
	"strings"
)

// SchemaError reports source input that is missing expected columns.
// It aborts the run before any dimension work begins.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("source is missing expected columns: %s",
		strings.Join(e.Missing, ", "))
}

// TypeConversionError reports a value that cannot be coerced to its
// canonical type after the row filters have run.
type TypeConversionError struct {
	Column string
	Value  string
	Err    error
}

func (e *TypeConversionError) Error() string {
	return fmt.Sprintf("cannot convert %s value %q: %v", e.Column, e.Value, e.Err)
}

func (e *TypeConversionError) Unwrap() error {
	return e.Err
}

// EmptyDimensionError reports a dimension with zero rows after
// deduplication, which means the normalizer produced no usable data.
type EmptyDimensionError struct {
	Dimension string
}

func (e *EmptyDimensionError) Error() string {
	return fmt.Sprintf("dimension %s has no rows after deduplication", e.Dimension)
}

// ReferentialIntegrityError reports a canonical record whose natural key
// failed to resolve to exactly one dimension row. Fact assembly aborts
// with no partial output.
type ReferentialIntegrityError struct {
	Dimension  string
	NaturalKey string
}

func (e *ReferentialIntegrityError) Error() string {
	return fmt.Sprintf("natural key %q has no row in dimension %s",
		e.NaturalKey, e.Dimension)
}
