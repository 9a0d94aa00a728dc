package model

import "github.com/shopspring/decimal"

// Product is owned by the catalog subsystem; checkout reads it and
// mutates stock only through the conditional reservation in storage.
type Product struct {
	ID         int64
	SupplierID int64
	Name       string
	Price      decimal.Decimal
	Stock      int32
}
