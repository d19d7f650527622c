//-------------------------------------------------------------------------
//
// starload - retail star schema loader
//
// Copyright (c) 2025 - 2026, the starload authors
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package warehouse persists the star schema to PostgreSQL. Every load
// is a full replacement of all six relations; prior contents are
// discarded, never merged.
package warehouse

// Output relations in load order.
const (
	TableCustomerDim    = "customer_dim"
	TableTransactionDim = "transaction_dim"
	TableDateDim        = "date_dim"
	TableCountryDim     = "country_dim"
	TableProductDim     = "product_dim"
	TableSalesFact      = "sales_fact"
)

// Tables lists the six output relations in load order.
var Tables = []string{
	TableCustomerDim,
	TableTransactionDim,
	TableDateDim,
	TableCountryDim,
	TableProductDim,
	TableSalesFact,
}

// createTableSQL holds the DDL for each relation. Surrogate keys are
// dense zero-based integers assigned during the build, not generated by
// the database.
var createTableSQL = map[string]string{
	TableCustomerDim: `
CREATE TABLE customer_dim (
    customer_id  INTEGER NOT NULL,
    customer_key INTEGER PRIMARY KEY
)`,
	TableTransactionDim: `
CREATE TABLE transaction_dim (
    transaction_id  INTEGER NOT NULL,
    transaction_key INTEGER PRIMARY KEY
)`,
	TableDateDim: `
CREATE TABLE date_dim (
    date     DATE NOT NULL,
    year     INTEGER NOT NULL,
    quarter  INTEGER NOT NULL,
    month    INTEGER NOT NULL,
    week     INTEGER NOT NULL,
    day      INTEGER NOT NULL,
    day_name VARCHAR(9) NOT NULL,
    date_key INTEGER PRIMARY KEY
)`,
	TableCountryDim: `
CREATE TABLE country_dim (
    country_id  VARCHAR(16) NOT NULL,
    country     TEXT NOT NULL,
    country_key INTEGER PRIMARY KEY
)`,
	TableProductDim: `
CREATE TABLE product_dim (
    product_id  TEXT NOT NULL,
    name        TEXT NOT NULL,
    price       NUMERIC(12,2) NOT NULL,
    product_key INTEGER PRIMARY KEY
)`,
	TableSalesFact: `
CREATE TABLE sales_fact (
    customer_key    INTEGER NOT NULL,
    transaction_key INTEGER NOT NULL,
    date_key        INTEGER,
    product_key     INTEGER NOT NULL,
    country_key     INTEGER NOT NULL,
    quantity        INTEGER NOT NULL
)`,
}

// tableColumns holds the column order used for bulk loading.
var tableColumns = map[string][]string{
	TableCustomerDim:    {"customer_id", "customer_key"},
	TableTransactionDim: {"transaction_id", "transaction_key"},
	TableDateDim:        {"date", "year", "quarter", "month", "week", "day", "day_name", "date_key"},
	TableCountryDim:     {"country_id", "country", "country_key"},
	TableProductDim:     {"product_id", "name", "price", "product_key"},
	TableSalesFact:      {"customer_key", "transaction_key", "date_key", "product_key", "country_key", "quantity"},
}
