//-------------------------------------------------------------------------
//
// starload - retail star schema loader
//
// Copyright (c) 2025 - 2026, the starload authors
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package source retrieves the raw sales extract from object storage.
// The pipeline treats it as an opaque collaborator: it either yields a
// byte stream for the configured locator or fails with NotFoundError.
package source

import (
	"context"
	"fmt"
	"io"
)

// Locator identifies one source object.
type Locator struct {
	Bucket string
	Key    string
}

func (l Locator) String() string {
	if l.Bucket == "" {
		return l.Key
	}
	return l.Bucket + "/" + l.Key
}

// Fetcher retrieves a source object as a byte stream. The caller owns
// the returned reader and must close it.
type Fetcher interface {
	Fetch(ctx context.Context, loc Locator) (io.ReadCloser, error)
}

// NotFoundError reports a locator that does not exist in the backing
// store. Surfaced before any transformation runs.
type NotFoundError struct {
	Locator Locator
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("source object %s not found", e.Locator)
}
