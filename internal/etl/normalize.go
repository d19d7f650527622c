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
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// sourceDateFormat is the strict month/day/year layout of the extract.
const sourceDateFormat = "01/02/2006"

// cancellationMarker flags transaction numbers that denote returns or
// cancellations rather than sales.
const cancellationMarker = "C"

// grainKey identifies one row at the canonical grain. Price participates
// through its exact decimal representation.
type grainKey struct {
	TransactionID int
	HasDate       bool
	DateUnix      int64
	ProductID     string
	Name          string
	Price         string
	CustomerID    int
	Country       string
	CountryID     string
}

// Normalize cleans raw rows into the canonical record set. Rows with a
// missing customer number, a cancellation marker in the transaction
// number, or a non-positive quantity are dropped. Unparseable dates
// become nil dates, not errors. Remaining values that cannot be coerced
// to their canonical types are TypeConversionErrors.
//
// The result is aggregated at the canonical grain with quantities summed,
// and sorted by the grain tuple so that output order is deterministic for
// any input row order.
func Normalize(raw []RawRecord) ([]SaleRecord, error) {
	grouped := make(map[grainKey]*SaleRecord)

	for _, r := range raw {
		customerNo := strings.TrimSpace(r.CustomerNo)
		if customerNo == "" {
			continue
		}
		if strings.Contains(r.TransactionNo, cancellationMarker) {
			continue
		}

		quantity, err := strconv.Atoi(strings.TrimSpace(r.Quantity))
		if err != nil {
			return nil, &TypeConversionError{Column: colQuantity, Value: r.Quantity, Err: err}
		}
		if quantity <= 0 {
			continue
		}

		transactionID, err := strconv.Atoi(strings.TrimSpace(r.TransactionNo))
		if err != nil {
			return nil, &TypeConversionError{Column: colTransactionNo, Value: r.TransactionNo, Err: err}
		}
		customerID, err := strconv.Atoi(customerNo)
		if err != nil {
			return nil, &TypeConversionError{Column: colCustomerNo, Value: r.CustomerNo, Err: err}
		}
		price, err := decimal.NewFromString(strings.TrimSpace(r.Price))
		if err != nil {
			return nil, &TypeConversionError{Column: colPrice, Value: r.Price, Err: err}
		}

		var date *time.Time
		if t, err := time.Parse(sourceDateFormat, strings.TrimSpace(r.Date)); err == nil {
			date = &t
		}

		country := r.Country
		key := grainKey{
			TransactionID: transactionID,
			ProductID:     r.ProductNo,
			Name:          r.ProductName,
			Price:         price.String(),
			CustomerID:    customerID,
			Country:       country,
			CountryID:     CountryID(country),
		}
		if date != nil {
			key.HasDate = true
			key.DateUnix = date.Unix()
		}

		if rec, ok := grouped[key]; ok {
			rec.Quantity += quantity
			continue
		}
		rec := &SaleRecord{
			TransactionID: transactionID,
			Date:          date,
			ProductID:     r.ProductNo,
			Name:          r.ProductName,
			Price:         price,
			CustomerID:    customerID,
			Country:       country,
			CountryID:     key.CountryID,
			Quantity:      quantity,
		}
		rec.deriveCalendar()
		grouped[key] = rec
	}

	records := make([]SaleRecord, 0, len(grouped))
	for _, rec := range grouped {
		records = append(records, *rec)
	}
	sortByGrain(records)
	return records, nil
}

// CountryID derives the compact country pseudo-key: the uppercased first
// three characters of the country name concatenated with the decimal
// length of the full name ("United Kingdom" becomes "UNI14"). Distinct
// countries sharing a prefix and length collide; the derivation is kept
// for output compatibility and collisions are only reported by the
// optional diagnostic in CheckCountryCollisions.
func CountryID(country string) string {
	runes := []rune(country)
	prefix := runes
	if len(runes) > 3 {
		prefix = runes[:3]
	}
	return strings.ToUpper(string(prefix)) + strconv.Itoa(len(runes))
}

// CheckCountryCollisions reports country_id values shared by more than
// one distinct country name. Purely diagnostic.
func CheckCountryCollisions(records []SaleRecord) map[string][]string {
	seen := make(map[string]map[string]bool)
	for _, rec := range records {
		if seen[rec.CountryID] == nil {
			seen[rec.CountryID] = make(map[string]bool)
		}
		seen[rec.CountryID][rec.Country] = true
	}

	collisions := make(map[string][]string)
	for id, countries := range seen {
		if len(countries) < 2 {
			continue
		}
		names := make([]string, 0, len(countries))
		for name := range countries {
			names = append(names, name)
		}
		sort.Strings(names)
		collisions[id] = names
	}
	return collisions
}

func (r *SaleRecord) deriveCalendar() {
	if r.Date == nil {
		return
	}
	d := *r.Date
	_, week := d.ISOWeek()
	r.Year = d.Year()
	r.Quarter = (int(d.Month())-1)/3 + 1
	r.Month = int(d.Month())
	r.Week = week
	r.Day = d.Day()
	r.DayName = d.Weekday().String()
}

// sortByGrain orders records by the full grain tuple. Nil dates sort
// before real dates.
func sortByGrain(records []SaleRecord) {
	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.TransactionID != b.TransactionID {
			return a.TransactionID < b.TransactionID
		}
		if au, bu := dateOrd(a.Date), dateOrd(b.Date); au != bu {
			return au < bu
		}
		if a.ProductID != b.ProductID {
			return a.ProductID < b.ProductID
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		if c := a.Price.Cmp(b.Price); c != 0 {
			return c < 0
		}
		if a.CustomerID != b.CustomerID {
			return a.CustomerID < b.CustomerID
		}
		return a.Country < b.Country
	})
}

func dateOrd(d *time.Time) int64 {
	if d == nil {
		return -1 << 62
	}
	return d.Unix()
}
