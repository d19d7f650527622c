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
	"context"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/datakettle/starload/internal/logging"
)

// Warehouse is the complete output of one pipeline run: the five
// dimension tables, the sales fact table, and the canonical record set
// they were derived from. Nothing in it is mutated after Run returns.
type Warehouse struct {
	Records      []SaleRecord
	Customers    *CustomerDim
	Transactions *TransactionDim
	Dates        *DateDim
	Products     *ProductDim
	Countries    *CountryDim
	Facts        []FactRow
}

// Run executes the full transformation over one source stream: decode,
// normalize, build the five dimensions, assemble the fact table. The
// dimension builds are independent reads of the immutable canonical set
// and run concurrently; fact assembly starts once all five are complete.
func Run(ctx context.Context, src io.Reader) (*Warehouse, error) {
	raw, err := ReadRaw(src)
	if err != nil {
		return nil, err
	}

	records, err := Normalize(raw)
	if err != nil {
		return nil, err
	}

	logging.Info().
		Int("raw_rows", len(raw)).
		Int("canonical_rows", len(records)).
		Msg("Normalized source data")

	w := &Warehouse{Records: records}

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		w.Customers, err = BuildCustomerDim(records)
		return err
	})
	g.Go(func() (err error) {
		w.Transactions, err = BuildTransactionDim(records)
		return err
	})
	g.Go(func() (err error) {
		w.Dates, err = BuildDateDim(records)
		return err
	})
	g.Go(func() (err error) {
		w.Products, err = BuildProductDim(records)
		return err
	})
	g.Go(func() (err error) {
		w.Countries, err = BuildCountryDim(records)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	w.Facts, err = AssembleFact(records, w.Customers, w.Transactions,
		w.Dates, w.Products, w.Countries)
	if err != nil {
		return nil, fmt.Errorf("assemble fact table: %w", err)
	}

	logging.Info().
		Int("customers", len(w.Customers.Rows)).
		Int("transactions", len(w.Transactions.Rows)).
		Int("dates", len(w.Dates.Rows)).
		Int("products", len(w.Products.Rows)).
		Int("countries", len(w.Countries.Rows)).
		Int("facts", len(w.Facts)).
		Msg("Built star schema")

	return w, nil
}
