//-------------------------------------------------------------------------
//
// starload - retail star schema loader
//
// Copyright (c) 2025 - 2026, the starload authors
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package etl implements the transformation core: normalizing raw retail
// transaction lines into a canonical record set, building the five
// dimension tables with dense surrogate keys, and assembling the sales
// fact table.
package etl

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
)

// Source column names. The extract always carries these eight columns in
// its header row; column order is not significant.
const (
	colTransactionNo = "TransactionNo"
	colDate          = "Date"
	colProductNo     = "ProductNo"
	colProductName   = "ProductName"
	colPrice         = "Price"
	colQuantity      = "Quantity"
	colCustomerNo    = "CustomerNo"
	colCountry       = "Country"
)

// sourceColumns lists the expected header columns in canonical order.
var sourceColumns = []string{
	colTransactionNo, colDate, colProductNo, colProductName,
	colPrice, colQuantity, colCustomerNo, colCountry,
}

// RawRecord is one untyped row from the source file. It exists only
// during ingestion; the normalizer turns it into a SaleRecord or drops it.
type RawRecord struct {
	TransactionNo string
	Date          string
	ProductNo     string
	ProductName   string
	Price         string
	Quantity      string
	CustomerNo    string
	Country       string
}

// SaleRecord is the canonical unit of work: one row per unique grain
// tuple (transaction, date, product, name, price, customer, country),
// with quantities summed across duplicates at that grain.
type SaleRecord struct {
	TransactionID int
	Date          *time.Time // nil when the source date was unparseable
	ProductID     string
	Name          string
	Price         decimal.Decimal
	CustomerID    int
	Country       string
	CountryID     string
	Quantity      int

	// Calendar parts derived from Date; zero-valued when Date is nil.
	Year    int
	Quarter int
	Month   int
	Week    int
	Day     int
	DayName string
}

// ReadRaw decodes the source CSV stream into raw records. The header row
// is required and must contain every expected column; extra columns are
// ignored. A missing column is a SchemaError.
func ReadRaw(r io.Reader) ([]RawRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, &SchemaError{Missing: sourceColumns}
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[name] = i
	}

	var missing []string
	for _, name := range sourceColumns {
		if _, ok := index[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}

	field := func(row []string, name string) string {
		i := index[name]
		if i >= len(row) {
			return ""
		}
		return row[i]
	}

	var records []RawRecord
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		records = append(records, RawRecord{
			TransactionNo: field(row, colTransactionNo),
			Date:          field(row, colDate),
			ProductNo:     field(row, colProductNo),
			ProductName:   field(row, colProductName),
			Price:         field(row, colPrice),
			Quantity:      field(row, colQuantity),
			CustomerNo:    field(row, colCustomerNo),
			Country:       field(row, colCountry),
		})
	}

	return records, nil
}
