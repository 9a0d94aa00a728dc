package dto

// CallbackRequest carries the transaction reference when the gateway
// posts it in the body instead of the query string.
type CallbackRequest struct {
	TxRef string `json:"tx_ref"`
}

// CallbackResponse reports the reconciled session status.
type CallbackResponse struct {
	Status string `json:"status"`
}

// RetryPaymentResponse returns a fresh gateway redirect for an order.
type RetryPaymentResponse struct {
	OrderID     int64  `json:"order_id"`
	CheckoutURL string `json:"checkout_url"`
	TxRef       string `json:"tx_ref"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Message string `json:"message"`
}
