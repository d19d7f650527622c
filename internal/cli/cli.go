//-------------------------------------------------------------------------
//
// starload - retail star schema loader
//
// Copyright (c) 2025 - 2026, the starload authors
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package cli implements the command-line interface for starload.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/datakettle/starload/internal/config"
	"github.com/datakettle/starload/internal/logging"
	"github.com/datakettle/starload/pkg/version"
)

var (
	// Global flags
	cfgFile    string
	connection string
	logLevel   string

	// Global config
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "starload",
		Short: "Retail star-schema loader for PostgreSQL warehouses",
		Long: `starload ingests a raw retail transaction extract from object storage,
reshapes it into a dimensional star schema (five dimension tables plus a
sales fact table keyed by dense surrogate keys), and replace-loads the
result into a PostgreSQL warehouse.

Every run is a full reload: prior table contents are discarded, never
merged. A failed run leaves no partial warehouse state.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./starload.yaml)")
	rootCmd.PersistentFlags().StringVar(&connection, "connection", "",
		"PostgreSQL connection string for the warehouse")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(tablesCmd)
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	// Override with CLI flags
	if connection != "" {
		cfg.Connection = connection
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	// Reinitialize logger with config
	logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.Info())
	},
}

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "Describe the warehouse output relations",
	Long: `Describe the six relations a load run replaces in the target
warehouse. Dimension tables carry natural keys plus dense zero-based
surrogate keys; the fact table references dimensions by surrogate key only.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println("Output relations (full replace on every load):")
		cmd.Println()
		cmd.Println("  customer_dim     (customer_id, customer_key)")
		cmd.Println("  transaction_dim  (transaction_id, transaction_key)")
		cmd.Println("  date_dim         (date, year, quarter, month, week, day, day_name, date_key)")
		cmd.Println("  country_dim      (country_id, country, country_key)")
		cmd.Println("  product_dim      (product_id, name, price, product_key)")
		cmd.Println("  sales_fact       (customer_key, transaction_key, date_key, product_key, country_key, quantity)")
		cmd.Println()
		cmd.Println("A starload_metadata table records run id, timestamp and row counts.")
	},
}
