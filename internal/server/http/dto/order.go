package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemResponse describes one order line.
type OrderItemResponse struct {
	ID        int64           `json:"id"`
	ProductID int64           `json:"product_id"`
	Quantity  int32           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// OrderResponse describes an order with its items.
type OrderResponse struct {
	ID           int64               `json:"id"`
	CustomerID   int64               `json:"customer_id"`
	SupplierID   int64               `json:"supplier_id"`
	Subtotal     decimal.Decimal     `json:"subtotal"`
	Tax          decimal.Decimal     `json:"tax"`
	ShippingCost decimal.Decimal     `json:"shipping_cost"`
	Total        decimal.Decimal     `json:"total"`
	Status       string              `json:"status"`
	Items        []OrderItemResponse `json:"items"`
	CreatedAt    time.Time           `json:"created_at"`
}

// StatusUpdateRequest describes the requested transition.
type StatusUpdateRequest struct {
	Status string `json:"status"`
}
