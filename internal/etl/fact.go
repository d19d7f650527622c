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
	"fmt"
	"strconv"
)

// FactRow references all five dimensions by surrogate key plus the
// quantity measure. DateKey is nil for records whose source date was
// unparseable.
type FactRow struct {
	CustomerKey    int
	TransactionKey int
	DateKey        *int
	ProductKey     int
	CountryKey     int
	Quantity       int
}

// AssembleFact resolves every canonical record against the five
// completed dimension tables and projects the result down to surrogate
// keys plus quantity. Each record must match exactly one row per
// dimension; a failed lookup is a ReferentialIntegrityError and no
// partial fact table is returned. Nil dates resolve to a null date_key
// rather than an error.
func AssembleFact(records []SaleRecord, customers *CustomerDim, transactions *TransactionDim,
	dates *DateDim, products *ProductDim, countries *CountryDim) ([]FactRow, error) {

	facts := make([]FactRow, 0, len(records))
	for _, rec := range records {
		customerKey, ok := customers.Key(rec.CustomerID)
		if !ok {
			return nil, &ReferentialIntegrityError{
				Dimension: "customer_dim", NaturalKey: strconv.Itoa(rec.CustomerID)}
		}
		transactionKey, ok := transactions.Key(rec.TransactionID)
		if !ok {
			return nil, &ReferentialIntegrityError{
				Dimension: "transaction_dim", NaturalKey: strconv.Itoa(rec.TransactionID)}
		}
		var dateKey *int
		if rec.Date != nil {
			k, ok := dates.Key(*rec.Date)
			if !ok {
				return nil, &ReferentialIntegrityError{
					Dimension: "date_dim", NaturalKey: rec.Date.Format("2006-01-02")}
			}
			dateKey = &k
		}
		productKey, ok := products.Key(rec.ProductID)
		if !ok {
			return nil, &ReferentialIntegrityError{
				Dimension: "product_dim", NaturalKey: rec.ProductID}
		}
		countryKey, ok := countries.Key(rec.CountryID)
		if !ok {
			return nil, &ReferentialIntegrityError{
				Dimension: "country_dim", NaturalKey: rec.CountryID}
		}

		facts = append(facts, FactRow{
			CustomerKey:    customerKey,
			TransactionKey: transactionKey,
			DateKey:        dateKey,
			ProductKey:     productKey,
			CountryKey:     countryKey,
			Quantity:       rec.Quantity,
		})
	}
	return facts, nil
}

// TotalQuantity sums the quantity measure over the fact table. Used to
// verify that no measure is lost or duplicated through the joins.
func TotalQuantity(facts []FactRow) int {
	total := 0
	for _, f := range facts {
		total += f.Quantity
	}
	return total
}

func (f FactRow) String() string {
	date := "NULL"
	if f.DateKey != nil {
		date = strconv.Itoa(*f.DateKey)
	}
	return fmt.Sprintf("fact{customer=%d transaction=%d date=%s product=%d country=%d quantity=%d}",
		f.CustomerKey, f.TransactionKey, date, f.ProductKey, f.CountryKey, f.Quantity)
}
