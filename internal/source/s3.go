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
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/datakettle/starload/internal/logging"
)

// S3Fetcher retrieves source objects from Amazon S3.
type S3Fetcher struct {
	client *s3.Client
}

// NewS3Fetcher builds an S3 fetcher for the given region using the
// default credential chain.
func NewS3Fetcher(ctx context.Context, region string) (*S3Fetcher, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return &S3Fetcher{client: s3.NewFromConfig(cfg)}, nil
}

// Fetch streams the object body. A missing key is a NotFoundError.
func (f *S3Fetcher) Fetch(ctx context.Context, loc Locator) (io.ReadCloser, error) {
	logging.Debug().
		Str("bucket", loc.Bucket).
		Str("key", loc.Key).
		Msg("Fetching source object")

	out, err := f.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(loc.Bucket),
		Key:    aws.String(loc.Key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		var notFound *types.NotFound
		if errors.As(err, &noSuchKey) || errors.As(err, &notFound) {
			return nil, &NotFoundError{Locator: loc}
		}
		return nil, fmt.Errorf("get object %s: %w", loc, err)
	}
	return out.Body, nil
}
