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
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
)

// previewHeader is the canonical column order of the preview artifact.
var previewHeader = []string{
	"transaction_id", "date", "product_id", "name", "price",
	"customer_id", "country", "country_id", "quantity",
	"year", "quarter", "month", "week", "day", "day_name",
}

// WritePreview writes the first limit canonical records, sorted by
// transaction_id then product_id, to a local CSV file. Diagnostic only;
// not part of the warehouse contract.
func WritePreview(path string, records []SaleRecord, limit int) error {
	sorted := make([]SaleRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].TransactionID != sorted[j].TransactionID {
			return sorted[i].TransactionID < sorted[j].TransactionID
		}
		return sorted[i].ProductID < sorted[j].ProductID
	})
	if limit < len(sorted) {
		sorted = sorted[:limit]
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create preview file: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(previewHeader); err != nil {
		return err
	}
	for _, rec := range sorted {
		date, year, quarter, month, week, day, dayName := "", "", "", "", "", "", ""
		if rec.Date != nil {
			date = rec.Date.Format("2006-01-02")
			year = strconv.Itoa(rec.Year)
			quarter = strconv.Itoa(rec.Quarter)
			month = strconv.Itoa(rec.Month)
			week = strconv.Itoa(rec.Week)
			day = strconv.Itoa(rec.Day)
			dayName = rec.DayName
		}
		row := []string{
			strconv.Itoa(rec.TransactionID),
			date,
			rec.ProductID,
			rec.Name,
			rec.Price.String(),
			strconv.Itoa(rec.CustomerID),
			rec.Country,
			rec.CountryID,
			strconv.Itoa(rec.Quantity),
			year, quarter, month, week, day, dayName,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
