package model

import "github.com/shopspring/decimal"

// ShippingInfo is the destination snapshot captured at checkout time.
// It is stored with the order, not resolved from a live address book.
type ShippingInfo struct {
	FullName string
	Email    string
	Phone    string
	Address  string
	City     string
	Region   string
	Cost     decimal.Decimal
}
