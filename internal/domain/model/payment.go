package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus tracks one external payment attempt.
type PaymentStatus string

const (
	PaymentStatusInitiated PaymentStatus = "initiated"
	PaymentStatusSuccess   PaymentStatus = "success"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// Payment is one attempt to pay for an order through the external
// gateway. TxRef is globally unique and is the correlation key with the
// provider. Payload holds the raw provider response for audit only.
type Payment struct {
	ID          int64
	OrderID     int64
	Provider    string
	TxRef       string
	Status      PaymentStatus
	CheckoutURL string
	Payload     []byte
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PaymentIntent describes the charge the core asks the gateway to open.
type PaymentIntent struct {
	OrderID  int64
	Amount   decimal.Decimal
	Email    string
	FullName string
	TxRef    string
}

// PaymentInitiation is a session the provider accepted.
type PaymentInitiation struct {
	Provider    string
	TxRef       string
	CheckoutURL string
	RawPayload  []byte
}

// PaymentVerification is the gateway's verified verdict for a tx ref.
type PaymentVerification struct {
	TxRef      string
	Succeeded  bool
	RawPayload []byte
}
