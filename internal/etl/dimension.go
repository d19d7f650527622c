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
	"cmp"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// Dimension table row shapes. Surrogate keys are dense zero-based
// integers assigned in ascending natural-key order, so assignment is
// reproducible for identical input regardless of row order.

type CustomerRow struct {
	CustomerID  int
	CustomerKey int
}

type TransactionRow struct {
	TransactionID  int
	TransactionKey int
}

type DateRow struct {
	Date    time.Time
	Year    int
	Quarter int
	Month   int
	Week    int
	Day     int
	DayName string
	DateKey int
}

type ProductRow struct {
	ProductID  string
	Name       string
	Price      decimal.Decimal
	ProductKey int
}

type CountryRow struct {
	CountryID  string
	Country    string
	CountryKey int
}

// CustomerDim maps customer_id to a dense customer_key.
type CustomerDim struct {
	Rows []CustomerRow
	keys map[int]int
}

func (d *CustomerDim) Key(customerID int) (int, bool) {
	k, ok := d.keys[customerID]
	return k, ok
}

// TransactionDim maps transaction_id to a dense transaction_key.
type TransactionDim struct {
	Rows []TransactionRow
	keys map[int]int
}

func (d *TransactionDim) Key(transactionID int) (int, bool) {
	k, ok := d.keys[transactionID]
	return k, ok
}

// DateDim maps each distinct calendar date to a dense date_key. Records
// with nil dates contribute no rows here; their fact rows carry a null
// date_key instead.
type DateDim struct {
	Rows []DateRow
	keys map[int64]int
}

func (d *DateDim) Key(date time.Time) (int, bool) {
	k, ok := d.keys[date.Unix()]
	return k, ok
}

// ProductDim maps product_id to a dense product_key; name and price come
// from the first record seen for the product.
type ProductDim struct {
	Rows []ProductRow
	keys map[string]int
}

func (d *ProductDim) Key(productID string) (int, bool) {
	k, ok := d.keys[productID]
	return k, ok
}

// CountryDim maps country_id to a dense country_key; the display name
// comes from the first record seen for the country_id.
type CountryDim struct {
	Rows []CountryRow
	keys map[string]int
}

func (d *CountryDim) Key(countryID string) (int, bool) {
	k, ok := d.keys[countryID]
	return k, ok
}

// dimBuild projects the natural key from each canonical record,
// deduplicates with first-occurrence-wins attribute semantics, sorts
// ascending by natural key, and assigns surrogate keys by row position.
// Natural keys are unique per dimension by construction, so no secondary
// tie-break is needed.
func dimBuild[K cmp.Ordered](name string, records []SaleRecord, keyOf func(SaleRecord) (K, bool)) ([]K, map[K]int, map[K]SaleRecord, error) {
	first := make(map[K]SaleRecord)
	for _, rec := range records {
		k, ok := keyOf(rec)
		if !ok {
			continue
		}
		if _, seen := first[k]; !seen {
			first[k] = rec
		}
	}
	if len(first) == 0 {
		return nil, nil, nil, &EmptyDimensionError{Dimension: name}
	}

	keys := make([]K, 0, len(first))
	for k := range first {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	surrogate := make(map[K]int, len(keys))
	for i, k := range keys {
		surrogate[k] = i
	}
	return keys, surrogate, first, nil
}

// BuildCustomerDim builds the customer dimension from the canonical set.
func BuildCustomerDim(records []SaleRecord) (*CustomerDim, error) {
	keys, surrogate, _, err := dimBuild("customer_dim", records,
		func(r SaleRecord) (int, bool) { return r.CustomerID, true })
	if err != nil {
		return nil, err
	}
	rows := make([]CustomerRow, len(keys))
	for i, k := range keys {
		rows[i] = CustomerRow{CustomerID: k, CustomerKey: i}
	}
	return &CustomerDim{Rows: rows, keys: surrogate}, nil
}

// BuildTransactionDim builds the transaction dimension.
func BuildTransactionDim(records []SaleRecord) (*TransactionDim, error) {
	keys, surrogate, _, err := dimBuild("transaction_dim", records,
		func(r SaleRecord) (int, bool) { return r.TransactionID, true })
	if err != nil {
		return nil, err
	}
	rows := make([]TransactionRow, len(keys))
	for i, k := range keys {
		rows[i] = TransactionRow{TransactionID: k, TransactionKey: i}
	}
	return &TransactionDim{Rows: rows, keys: surrogate}, nil
}

// BuildDateDim builds the date dimension from records with parseable
// dates, carrying the derived calendar attributes.
func BuildDateDim(records []SaleRecord) (*DateDim, error) {
	keys, surrogate, first, err := dimBuild("date_dim", records,
		func(r SaleRecord) (int64, bool) {
			if r.Date == nil {
				return 0, false
			}
			return r.Date.Unix(), true
		})
	if err != nil {
		return nil, err
	}
	rows := make([]DateRow, len(keys))
	for i, k := range keys {
		rec := first[k]
		rows[i] = DateRow{
			Date:    *rec.Date,
			Year:    rec.Year,
			Quarter: rec.Quarter,
			Month:   rec.Month,
			Week:    rec.Week,
			Day:     rec.Day,
			DayName: rec.DayName,
			DateKey: i,
		}
	}
	return &DateDim{Rows: rows, keys: surrogate}, nil
}

// BuildProductDim builds the product dimension.
func BuildProductDim(records []SaleRecord) (*ProductDim, error) {
	keys, surrogate, first, err := dimBuild("product_dim", records,
		func(r SaleRecord) (string, bool) { return r.ProductID, true })
	if err != nil {
		return nil, err
	}
	rows := make([]ProductRow, len(keys))
	for i, k := range keys {
		rec := first[k]
		rows[i] = ProductRow{ProductID: k, Name: rec.Name, Price: rec.Price, ProductKey: i}
	}
	return &ProductDim{Rows: rows, keys: surrogate}, nil
}

// BuildCountryDim builds the country dimension keyed by the derived
// country_id pseudo-key.
func BuildCountryDim(records []SaleRecord) (*CountryDim, error) {
	keys, surrogate, first, err := dimBuild("country_dim", records,
		func(r SaleRecord) (string, bool) { return r.CountryID, true })
	if err != nil {
		return nil, err
	}
	rows := make([]CountryRow, len(keys))
	for i, k := range keys {
		rows[i] = CountryRow{CountryID: k, Country: first[k].Country, CountryKey: i}
	}
	return &CountryDim{Rows: rows, keys: surrogate}, nil
}
