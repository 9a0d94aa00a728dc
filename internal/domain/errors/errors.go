package errors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrMixedSupplierOrder = errors.New("all products must be from the same supplier")
	ErrUnknownTransaction = errors.New("unknown transaction reference")
	ErrInvalidInput       = errors.New("invalid input")
	ErrOrderNotPending    = errors.New("order is not pending")
	ErrStatusConflict     = errors.New("order status changed concurrently")
)

// GatewayError reports a failed call to the external payment provider.
// Detail is surfaced to the caller for diagnostics; the core never
// retries the provider automatically.
type GatewayError struct {
	Op     string
	Detail string
	Err    error
}

func (e *GatewayError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("payment gateway %s failed: %s", e.Op, e.Detail)
	}
	return fmt.Sprintf("payment gateway %s failed", e.Op)
}

func (e *GatewayError) Unwrap() error { return e.Err }
