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

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/datakettle/starload/internal/etl"
	"github.com/datakettle/starload/internal/logging"
)

// Writer replace-loads a completed star schema into PostgreSQL.
type Writer struct {
	pool *pgxpool.Pool
}

// NewWriter creates a writer over an established connection pool.
func NewWriter(pool *pgxpool.Pool) *Writer {
	return &Writer{pool: pool}
}

// Replace writes all six relations, dropping and recreating each table
// before loading it. The core only calls this after the full warehouse
// has been assembled, so a failed transformation never produces partial
// warehouse state; cross-table atomicity beyond that is not attempted.
func (w *Writer) Replace(ctx context.Context, wh *etl.Warehouse) (map[string]int64, error) {
	counts := make(map[string]int64, len(Tables))

	for _, table := range Tables {
		rows := tableRows(wh, table)
		n, err := w.replaceTable(ctx, table, rows)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", table, err)
		}
		counts[table] = n
		logging.Info().
			Str("table", table).
			Int64("rows", n).
			Msg("Loaded table")
	}
	return counts, nil
}

func (w *Writer) replaceTable(ctx context.Context, table string, rows [][]any) (int64, error) {
	if _, err := w.pool.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", table)); err != nil {
		return 0, fmt.Errorf("drop table: %w", err)
	}
	if _, err := w.pool.Exec(ctx, createTableSQL[table]); err != nil {
		return 0, fmt.Errorf("create table: %w", err)
	}
	n, err := w.pool.CopyFrom(ctx,
		pgx.Identifier{table},
		tableColumns[table],
		pgx.CopyFromRows(rows))
	if err != nil {
		return 0, fmt.Errorf("copy rows: %w", err)
	}
	return n, nil
}

// tableRows projects a warehouse relation into pgx CopyFrom row values,
// in the column order declared in tableColumns.
func tableRows(wh *etl.Warehouse, table string) [][]any {
	switch table {
	case TableCustomerDim:
		rows := make([][]any, len(wh.Customers.Rows))
		for i, r := range wh.Customers.Rows {
			rows[i] = []any{r.CustomerID, r.CustomerKey}
		}
		return rows
	case TableTransactionDim:
		rows := make([][]any, len(wh.Transactions.Rows))
		for i, r := range wh.Transactions.Rows {
			rows[i] = []any{r.TransactionID, r.TransactionKey}
		}
		return rows
	case TableDateDim:
		rows := make([][]any, len(wh.Dates.Rows))
		for i, r := range wh.Dates.Rows {
			rows[i] = []any{r.Date, r.Year, r.Quarter, r.Month, r.Week, r.Day, r.DayName, r.DateKey}
		}
		return rows
	case TableCountryDim:
		rows := make([][]any, len(wh.Countries.Rows))
		for i, r := range wh.Countries.Rows {
			rows[i] = []any{r.CountryID, r.Country, r.CountryKey}
		}
		return rows
	case TableProductDim:
		rows := make([][]any, len(wh.Products.Rows))
		for i, r := range wh.Products.Rows {
			rows[i] = []any{r.ProductID, r.Name, r.Price.String(), r.ProductKey}
		}
		return rows
	case TableSalesFact:
		rows := make([][]any, len(wh.Facts))
		for i, f := range wh.Facts {
			var dateKey any
			if f.DateKey != nil {
				dateKey = *f.DateKey
			}
			rows[i] = []any{f.CustomerKey, f.TransactionKey, dateKey, f.ProductKey, f.CountryKey, f.Quantity}
		}
		return rows
	}
	return nil
}
