package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/datakettle/starload/internal/db"
	"github.com/datakettle/starload/internal/etl"
	"github.com/datakettle/starload/internal/logging"
	"github.com/datakettle/starload/internal/source"
	"github.com/datakettle/starload/internal/warehouse"
)

var (
	loadRegion          string
	loadBucket          string
	loadKey             string
	loadSourcePath      string
	loadPreviewPath     string
	loadPreviewRows     int
	loadCheckCollisions bool
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Run the full ETL and replace-load the warehouse",
	Long: `Fetch the raw sales extract, normalize it into the canonical record
set, build the five dimension tables and the sales fact table, and
replace-load all six relations into the warehouse.

Example:
  starload load --bucket sales-extracts --key retail/2021.csv --connection "postgres://..."
  starload load --source-path sales.csv --connection "postgres://..."`,
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().StringVar(&loadRegion, "region", "",
		"AWS region of the source bucket")
	loadCmd.Flags().StringVar(&loadBucket, "bucket", "",
		"S3 bucket holding the raw extract")
	loadCmd.Flags().StringVar(&loadKey, "key", "",
		"S3 object key of the raw extract")
	loadCmd.Flags().StringVar(&loadSourcePath, "source-path", "",
		"local extract path (overrides the S3 source)")
	loadCmd.Flags().StringVar(&loadPreviewPath, "preview-path", "",
		"path for the canonical-record preview CSV")
	loadCmd.Flags().IntVar(&loadPreviewRows, "preview-rows", 0,
		"number of canonical records in the preview (default: 100)")
	loadCmd.Flags().BoolVar(&loadCheckCollisions, "check-collisions", false,
		"warn about distinct countries sharing a derived country_id")
}

func runLoad(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if loadRegion != "" {
		cfg.Source.Region = loadRegion
	}
	if loadBucket != "" {
		cfg.Source.Bucket = loadBucket
	}
	if loadKey != "" {
		cfg.Source.Key = loadKey
	}
	if loadSourcePath != "" {
		cfg.Source.Path = loadSourcePath
	}
	if loadPreviewPath != "" {
		cfg.Load.PreviewPath = loadPreviewPath
	}
	if loadPreviewRows > 0 {
		cfg.Load.PreviewRows = loadPreviewRows
	}
	if loadCheckCollisions {
		cfg.Load.CheckCollisions = true
	}

	if err := cfg.ValidateLoad(); err != nil {
		return err
	}

	ctx := context.Background()

	fetcher, locator, err := buildFetcher(ctx)
	if err != nil {
		return err
	}

	logging.Info().
		Str("source", locator.String()).
		Msg("Starting load run")

	stream, err := fetcher.Fetch(ctx, locator)
	if err != nil {
		return err
	}
	defer stream.Close()

	wh, err := etl.Run(ctx, stream)
	if err != nil {
		return err
	}

	if cfg.Load.CheckCollisions {
		for id, names := range etl.CheckCountryCollisions(wh.Records) {
			logging.Warn().
				Str("country_id", id).
				Str("countries", strings.Join(names, ", ")).
				Msg("Distinct countries share a derived country_id")
		}
	}

	// Best effort; the preview is diagnostic, not part of the contract.
	if err := etl.WritePreview(cfg.Load.PreviewPath, wh.Records, cfg.Load.PreviewRows); err != nil {
		logging.Warn().Err(err).
			Str("path", cfg.Load.PreviewPath).
			Msg("Failed to write preview artifact")
	}

	pool, err := db.Connect(ctx, cfg.Connection)
	if err != nil {
		return fmt.Errorf("failed to connect to warehouse: %w", err)
	}
	defer pool.Close()

	counts, err := warehouse.NewWriter(pool).Replace(ctx, wh)
	if err != nil {
		return err
	}

	runID, err := warehouse.SaveMetadata(ctx, pool, locator.String(), counts)
	if err != nil {
		return fmt.Errorf("failed to save load metadata: %w", err)
	}

	logging.Info().
		Str("run_id", runID).
		Int64("fact_rows", counts[warehouse.TableSalesFact]).
		Msg("Load complete")

	return nil
}

func buildFetcher(ctx context.Context) (source.Fetcher, source.Locator, error) {
	if cfg.Source.Path != "" {
		return source.FileFetcher{}, source.Locator{Key: cfg.Source.Path}, nil
	}
	fetcher, err := source.NewS3Fetcher(ctx, cfg.Source.Region)
	if err != nil {
		return nil, source.Locator{}, err
	}
	return fetcher, source.Locator{Bucket: cfg.Source.Bucket, Key: cfg.Source.Key}, nil
}
