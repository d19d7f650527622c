//-------------------------------------------------------------------------
//
// starload - retail star schema loader
//
// Copyright (c) 2025 - 2026, the starload authors
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package warehouse

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/datakettle/starload/internal/logging"
	"github.com/datakettle/starload/pkg/version"
)

const metadataTable = "starload_metadata"

const createMetadataTableSQL = `
CREATE TABLE IF NOT EXISTS starload_metadata (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
)`

// SaveMetadata records the outcome of a successful load: a fresh run id,
// the load timestamp, the source object, and per-table row counts.
func SaveMetadata(ctx context.Context, pool *pgxpool.Pool, sourceKey string, counts map[string]int64) (string, error) {
	if _, err := pool.Exec(ctx, createMetadataTableSQL); err != nil {
		return "", fmt.Errorf("create metadata table: %w", err)
	}

	runID := uuid.NewString()
	metadata := map[string]string{
		"run_id":    runID,
		"version":   version.Short(),
		"loaded_at": time.Now().UTC().Format(time.RFC3339),
		"source":    sourceKey,
	}
	for table, n := range counts {
		metadata["rows_"+table] = strconv.FormatInt(n, 10)
	}

	for key, value := range metadata {
		_, err := pool.Exec(ctx, `
            INSERT INTO starload_metadata (key, value) VALUES ($1, $2)
            ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
        `, key, value)
		if err != nil {
			return "", fmt.Errorf("save metadata %s: %w", key, err)
		}
	}

	logging.Debug().
		Str("run_id", runID).
		Str("source", sourceKey).
		Msg("Saved load metadata")

	return runID, nil
}

// GetMetadataValue retrieves a single metadata value by key.
func GetMetadataValue(ctx context.Context, pool *pgxpool.Pool, key string) (string, error) {
	var value string
	err := pool.QueryRow(ctx, `
        SELECT value FROM starload_metadata WHERE key = $1
    `, key).Scan(&value)
	if err != nil {
		return "", err
	}
	return value, nil
}

// DropMetadata drops the metadata table.
func DropMetadata(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", metadataTable))
	return err
}
