package dto

import "github.com/shopspring/decimal"

// CheckoutItemRequest is one requested cart line.
type CheckoutItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int32 `json:"quantity"`
}

// ShippingRequest carries the destination snapshot. Field names follow
// the storefront payload.
type ShippingRequest struct {
	FullName     string          `json:"fullName"`
	Email        string          `json:"email"`
	Phone        string          `json:"phone"`
	Address      string          `json:"address"`
	City         string          `json:"city"`
	Region       string          `json:"region"`
	ShippingCost decimal.Decimal `json:"shippingCost"`
}

// CheckoutRequest describes the checkout payload.
type CheckoutRequest struct {
	Items    []CheckoutItemRequest `json:"items"`
	Shipping ShippingRequest       `json:"shipping"`
}

// CheckoutResponse returns the created order and the gateway redirect.
type CheckoutResponse struct {
	Order       OrderResponse `json:"order"`
	CheckoutURL string        `json:"checkout_url"`
	TxRef       string        `json:"tx_ref"`
}
