//-------------------------------------------------------------------------
//
// starload - retail star schema loader
//
// Copyright (c) 2025 - 2026, the starload authors
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package source

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
)

// FileFetcher reads source objects from the local filesystem. The
// locator's Key is the file path; Bucket is ignored. Used for local
// runs against seeded extracts and in tests.
type FileFetcher struct{}

func (FileFetcher) Fetch(_ context.Context, loc Locator) (io.ReadCloser, error) {
	f, err := os.Open(loc.Key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Locator: loc}
		}
		return nil, err
	}
	return f, nil
}
