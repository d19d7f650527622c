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
	"os"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/datakettle/starload/internal/etl"
)

const sampleCSV = `TransactionNo,Date,ProductNo,ProductName,Price,Quantity,CustomerNo,Country
1001,01/05/2021,P1,Widget,9.99,3,500,USA
1003,01/06/2021,P2,Gadget,4.50,1,501,Brazil
1003,bad-date,P2,Gadget,4.50,2,501,Brazil
`

func buildWarehouse(t *testing.T) *etl.Warehouse {
	t.Helper()
	wh, err := etl.Run(context.Background(), strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	return wh
}

func TestTableRowsShapes(t *testing.T) {
	wh := buildWarehouse(t)

	for _, table := range Tables {
		rows := tableRows(wh, table)
		if len(rows) == 0 {
			t.Errorf("%s: no rows projected", table)
			continue
		}
		want := len(tableColumns[table])
		for i, row := range rows {
			if len(row) != want {
				t.Errorf("%s row %d has %d values, want %d", table, i, len(row), want)
			}
		}
	}
}

func TestTableRowsNullDateKey(t *testing.T) {
	wh := buildWarehouse(t)

	rows := tableRows(wh, TableSalesFact)
	var sawNull, sawValue bool
	for _, row := range rows {
		if row[2] == nil {
			sawNull = true
		} else {
			sawValue = true
		}
	}
	if !sawNull {
		t.Error("Expected a NULL date_key for the unparseable-date record")
	}
	if !sawValue {
		t.Error("Expected resolved date_key values for dated records")
	}
}

// TestReplaceIntegration exercises the full replace-load against a real
// PostgreSQL instance. Set STARLOAD_TEST_CONN to enable.
func TestReplaceIntegration(t *testing.T) {
	connStr := os.Getenv("STARLOAD_TEST_CONN")
	if connStr == "" {
		t.Skip("STARLOAD_TEST_CONN not set, skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	defer pool.Close()

	wh := buildWarehouse(t)
	writer := NewWriter(pool)

	counts, err := writer.Replace(ctx, wh)
	if err != nil {
		t.Fatalf("Replace failed: %v", err)
	}
	if counts[TableSalesFact] != int64(len(wh.Facts)) {
		t.Errorf("Fact row count = %d, want %d", counts[TableSalesFact], len(wh.Facts))
	}

	// Replace again; counts must be identical, not doubled.
	counts2, err := writer.Replace(ctx, wh)
	if err != nil {
		t.Fatalf("Second Replace failed: %v", err)
	}
	for _, table := range Tables {
		if counts[table] != counts2[table] {
			t.Errorf("%s: reload changed row count from %d to %d",
				table, counts[table], counts2[table])
		}
		var n int64
		if err := pool.QueryRow(ctx, "SELECT count(*) FROM "+table).Scan(&n); err != nil {
			t.Fatalf("Count query failed for %s: %v", table, err)
		}
		if n != counts[table] {
			t.Errorf("%s: table holds %d rows, writer reported %d", table, n, counts[table])
		}
	}

	runID, err := SaveMetadata(ctx, pool, "test/extract.csv", counts)
	if err != nil {
		t.Fatalf("SaveMetadata failed: %v", err)
	}
	stored, err := GetMetadataValue(ctx, pool, "run_id")
	if err != nil {
		t.Fatalf("GetMetadataValue failed: %v", err)
	}
	if stored != runID {
		t.Errorf("Stored run_id %q does not match returned %q", stored, runID)
	}

	for _, table := range Tables {
		_, _ = pool.Exec(ctx, "DROP TABLE IF EXISTS "+table)
	}
	_ = DropMetadata(ctx, pool)
}
