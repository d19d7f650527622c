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
	"errors"
	"strings"
	"testing"
)

func rawRow(transactionNo, date, productNo, name, price, quantity, customerNo, country string) RawRecord {
	return RawRecord{
		TransactionNo: transactionNo,
		Date:          date,
		ProductNo:     productNo,
		ProductName:   name,
		Price:         price,
		Quantity:      quantity,
		CustomerNo:    customerNo,
		Country:       country,
	}
}

func TestCountryID(t *testing.T) {
	tests := []struct {
		country string
		want    string
	}{
		{"Brazil", "BRA6"},
		{"USA", "USA3"},
		{"United Kingdom", "UNI14"},
		{"France", "FRA6"},
		{"EU", "EU2"},
	}

	for _, tt := range tests {
		t.Run(tt.country, func(t *testing.T) {
			if got := CountryID(tt.country); got != tt.want {
				t.Errorf("CountryID(%q) = %q, want %q", tt.country, got, tt.want)
			}
		})
	}
}

func TestNormalizeFilters(t *testing.T) {
	tests := []struct {
		name string
		raw  RawRecord
		kept bool
	}{
		{
			name: "normal sale",
			raw:  rawRow("1001", "01/05/2021", "P1", "Widget", "9.99", "3", "500", "USA"),
			kept: true,
		},
		{
			name: "cancelled transaction",
			raw:  rawRow("C12345", "01/05/2021", "P1", "Widget", "9.99", "3", "500", "USA"),
			kept: false,
		},
		{
			name: "missing customer",
			raw:  rawRow("1002", "01/05/2021", "P1", "Widget", "9.99", "3", "", "USA"),
			kept: false,
		},
		{
			name: "zero quantity",
			raw:  rawRow("1003", "01/05/2021", "P1", "Widget", "9.99", "0", "500", "USA"),
			kept: false,
		},
		{
			name: "negative quantity",
			raw:  rawRow("1004", "01/05/2021", "P1", "Widget", "9.99", "-2", "500", "USA"),
			kept: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := Normalize([]RawRecord{tt.raw})
			if err != nil {
				t.Fatalf("Normalize failed: %v", err)
			}
			if tt.kept && len(records) != 1 {
				t.Errorf("Expected record to be kept, got %d records", len(records))
			}
			if !tt.kept && len(records) != 0 {
				t.Errorf("Expected record to be dropped, got %d records", len(records))
			}
		})
	}
}

func TestNormalizeAggregatesGrain(t *testing.T) {
	raw := []RawRecord{
		rawRow("1001", "01/05/2021", "P1", "Widget", "9.99", "3", "500", "USA"),
		rawRow("1001", "01/05/2021", "P1", "Widget", "9.99", "2", "500", "USA"),
	}

	records, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 canonical record, got %d", len(records))
	}
	if records[0].Quantity != 5 {
		t.Errorf("Expected summed quantity 5, got %d", records[0].Quantity)
	}
}

func TestNormalizeSeparateGrainsNotMerged(t *testing.T) {
	raw := []RawRecord{
		rawRow("1001", "01/05/2021", "P1", "Widget", "9.99", "3", "500", "USA"),
		rawRow("1001", "01/05/2021", "P2", "Gadget", "4.50", "2", "500", "USA"),
		rawRow("1002", "01/05/2021", "P1", "Widget", "9.99", "1", "501", "USA"),
	}

	records, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if len(records) != 3 {
		t.Errorf("Expected 3 canonical records, got %d", len(records))
	}
}

func TestNormalizeCalendarParts(t *testing.T) {
	// 01/05/2021 is a Tuesday in ISO week 1.
	records, err := Normalize([]RawRecord{
		rawRow("1001", "01/05/2021", "P1", "Widget", "9.99", "3", "500", "USA"),
	})
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	rec := records[0]

	if rec.Date == nil {
		t.Fatal("Expected parsed date")
	}
	if rec.Year != 2021 {
		t.Errorf("Year = %d, want 2021", rec.Year)
	}
	if rec.Quarter != 1 {
		t.Errorf("Quarter = %d, want 1", rec.Quarter)
	}
	if rec.Month != 1 {
		t.Errorf("Month = %d, want 1", rec.Month)
	}
	if rec.Week != 1 {
		t.Errorf("Week = %d, want 1", rec.Week)
	}
	if rec.Day != 5 {
		t.Errorf("Day = %d, want 5", rec.Day)
	}
	if rec.DayName != "Tuesday" {
		t.Errorf("DayName = %q, want Tuesday", rec.DayName)
	}
}

func TestNormalizeUnparseableDateBecomesNil(t *testing.T) {
	records, err := Normalize([]RawRecord{
		rawRow("1001", "not-a-date", "P1", "Widget", "9.99", "3", "500", "USA"),
	})
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}
	rec := records[0]
	if rec.Date != nil {
		t.Error("Expected nil date for unparseable input")
	}
	if rec.Year != 0 || rec.Month != 0 || rec.DayName != "" {
		t.Error("Calendar parts should be zero-valued for nil date")
	}
}

func TestNormalizeTypeConversionErrors(t *testing.T) {
	tests := []struct {
		name   string
		raw    RawRecord
		column string
	}{
		{
			name:   "non-numeric transaction",
			raw:    rawRow("TX-1", "01/05/2021", "P1", "Widget", "9.99", "3", "500", "USA"),
			column: colTransactionNo,
		},
		{
			name:   "non-numeric customer",
			raw:    rawRow("1001", "01/05/2021", "P1", "Widget", "9.99", "3", "abc", "USA"),
			column: colCustomerNo,
		},
		{
			name:   "non-numeric price",
			raw:    rawRow("1001", "01/05/2021", "P1", "Widget", "cheap", "3", "500", "USA"),
			column: colPrice,
		},
		{
			name:   "non-numeric quantity",
			raw:    rawRow("1001", "01/05/2021", "P1", "Widget", "9.99", "many", "500", "USA"),
			column: colQuantity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize([]RawRecord{tt.raw})
			var convErr *TypeConversionError
			if !errors.As(err, &convErr) {
				t.Fatalf("Expected TypeConversionError, got %v", err)
			}
			if convErr.Column != tt.column {
				t.Errorf("Column = %q, want %q", convErr.Column, tt.column)
			}
		})
	}
}

func TestNormalizeDeterministicOrder(t *testing.T) {
	forward := []RawRecord{
		rawRow("1002", "01/06/2021", "P2", "Gadget", "4.50", "1", "501", "France"),
		rawRow("1001", "01/05/2021", "P1", "Widget", "9.99", "3", "500", "USA"),
		rawRow("1003", "01/07/2021", "P3", "Sprocket", "2.00", "2", "502", "Brazil"),
	}
	reversed := []RawRecord{forward[2], forward[1], forward[0]}

	a, err := Normalize(forward)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	b, err := Normalize(reversed)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	if len(a) != len(b) {
		t.Fatalf("Record counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].TransactionID != b[i].TransactionID || a[i].ProductID != b[i].ProductID {
			t.Errorf("Row %d differs across input orders: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestReadRawMissingColumns(t *testing.T) {
	csvData := "TransactionNo,Date,ProductNo\n1001,01/05/2021,P1\n"
	_, err := ReadRaw(strings.NewReader(csvData))

	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("Expected SchemaError, got %v", err)
	}
	if len(schemaErr.Missing) != 5 {
		t.Errorf("Expected 5 missing columns, got %v", schemaErr.Missing)
	}
}

func TestReadRawHeaderOrderIndependent(t *testing.T) {
	csvData := "Country,CustomerNo,Quantity,Price,ProductName,ProductNo,Date,TransactionNo\n" +
		"USA,500,3,9.99,Widget,P1,01/05/2021,1001\n"

	raw, err := ReadRaw(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("ReadRaw failed: %v", err)
	}
	if len(raw) != 1 {
		t.Fatalf("Expected 1 raw record, got %d", len(raw))
	}
	if raw[0].TransactionNo != "1001" || raw[0].Country != "USA" || raw[0].Price != "9.99" {
		t.Errorf("Columns mapped incorrectly: %+v", raw[0])
	}
}

func TestCheckCountryCollisions(t *testing.T) {
	records, err := Normalize([]RawRecord{
		rawRow("1001", "01/05/2021", "P1", "Widget", "9.99", "3", "500", "Irelan"),
		rawRow("1002", "01/05/2021", "P1", "Widget", "9.99", "3", "501", "Irevia"),
		rawRow("1003", "01/05/2021", "P1", "Widget", "9.99", "3", "502", "USA"),
	})
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	collisions := CheckCountryCollisions(records)
	if len(collisions) != 1 {
		t.Fatalf("Expected 1 colliding country_id, got %d", len(collisions))
	}
	names, ok := collisions["IRE6"]
	if !ok {
		t.Fatal("Expected collision on IRE6")
	}
	if len(names) != 2 || names[0] != "Irelan" || names[1] != "Irevia" {
		t.Errorf("Unexpected collision set: %v", names)
	}
}
