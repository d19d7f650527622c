//-------------------------------------------------------------------------
//
// starload - retail star schema loader
//
// Copyright (c) 2025 - 2026, the starload authors
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package datagen

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"
)

// Reference data for the synthetic extract.
var countries = []string{
	"United Kingdom", "France", "Germany", "Netherlands", "Spain",
	"Portugal", "Belgium", "Norway", "Sweden", "USA", "Brazil", "Japan",
}

// countryWeights skews sales toward the first markets, which mirrors the
// heavily UK-weighted production extract.
var countryWeights = []int{60, 8, 8, 6, 4, 3, 3, 2, 2, 2, 1, 1}

// ExtractGenerator produces raw sales extracts in the source CSV layout,
// including the anomalies the normalizer is expected to filter:
// cancelled transactions, missing customer numbers, and non-positive
// quantities.
type ExtractGenerator struct {
	faker *Faker
}

// NewExtractGenerator creates a generator with a random seed.
func NewExtractGenerator() *ExtractGenerator {
	return &ExtractGenerator{faker: NewFaker()}
}

// NewExtractGeneratorWithSeed creates a generator with a fixed seed for
// reproducible extracts.
func NewExtractGeneratorWithSeed(seed uint64) *ExtractGenerator {
	return &ExtractGenerator{faker: NewFakerWithSeed(seed)}
}

// WriteExtract writes a header row plus rows raw transaction lines.
// Several lines share a transaction so the grain aggregation has
// duplicates to collapse.
func (g *ExtractGenerator) WriteExtract(w io.Writer, rows int) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"TransactionNo", "Date", "ProductNo", "ProductName",
		"Price", "Quantity", "CustomerNo", "Country",
	}); err != nil {
		return err
	}

	numProducts := max(10, rows/20)
	products := make([]string, numProducts)
	names := make([]string, numProducts)
	prices := make([]float64, numProducts)
	for i := range products {
		products[i] = fmt.Sprintf("P%05d", i+1)
		names[i] = g.faker.ProductName()
		prices[i] = g.faker.Price(1, 200)
	}

	start := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2021, 12, 31, 0, 0, 0, 0, time.UTC)

	transactionNo := 500000
	linesLeft := 0
	var date time.Time
	var customerNo string

	for i := 0; i < rows; i++ {
		if linesLeft == 0 {
			transactionNo++
			linesLeft = g.faker.Int(1, 6)
			date = g.faker.DateRange(start, end)
			customerNo = fmt.Sprintf("%d", g.faker.Int(10000, 19999))
		}
		linesLeft--

		p := g.faker.Int(0, numProducts-1)
		txn := fmt.Sprintf("%d", transactionNo)
		quantity := g.faker.Int(1, 48)
		customer := customerNo

		// Sprinkle in the anomalies the normalizer drops.
		switch roll := g.faker.Int(1, 100); {
		case roll <= 2:
			txn = "C" + txn
		case roll <= 4:
			customer = ""
		case roll <= 5:
			quantity = -quantity
		}

		row := []string{
			txn,
			date.Format("01/02/2006"),
			products[p],
			names[p],
			fmt.Sprintf("%.2f", prices[p]),
			fmt.Sprintf("%d", quantity),
			customer,
			ChooseWeighted(g.faker, countries, countryWeights),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
