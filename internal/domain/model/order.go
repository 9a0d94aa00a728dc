package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus describes fulfillment lifecycle.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusApproved  OrderStatus = "approved"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Valid reports whether the status is a known lifecycle state.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusApproved, OrderStatusPaid,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are possible.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// Order describes a single-supplier purchase placed by a customer.
// Line items and totals are immutable after creation; only Status mutates.
type Order struct {
	ID           int64
	CustomerID   int64
	SupplierID   int64
	Subtotal     decimal.Decimal
	Tax          decimal.Decimal
	ShippingCost decimal.Decimal
	Total        decimal.Decimal
	Shipping     ShippingInfo
	Status       OrderStatus
	Items        []OrderItem
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OrderItem snapshots one purchased product line. UnitPrice is the product
// price at checkout time and is never re-read from the live product.
type OrderItem struct {
	ID         int64
	OrderID    int64
	ProductID  int64
	SupplierID int64
	Quantity   int32
	UnitPrice  decimal.Decimal
	LineTotal  decimal.Decimal
}

// AllowedTransition reports whether role may move an order from one status
// to another. Ownership is checked separately by the caller.
func AllowedTransition(role Role, from, to OrderStatus) bool {
	switch role {
	case RoleSupplier:
		switch {
		case from == OrderStatusPending && to == OrderStatusApproved:
			return true
		case (from == OrderStatusApproved || from == OrderStatusPaid) && to == OrderStatusShipped:
			return true
		case from == OrderStatusShipped && to == OrderStatusDelivered:
			return true
		case from == OrderStatusPending && to == OrderStatusCancelled:
			return true
		}
	case RoleCustomer:
		return from == OrderStatusPending && to == OrderStatusCancelled
	}
	return false
}
