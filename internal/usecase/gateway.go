package usecase

import (
	"context"

	"github.com/etproforma/commerce/internal/domain/model"
)

// PaymentGateway is the slice of the external payment provider the use
// cases depend on. The HTTP adapter satisfies it.
type PaymentGateway interface {
	Initialize(ctx context.Context, intent model.PaymentIntent) (*model.PaymentInitiation, error)
	Verify(ctx context.Context, txRef string) (*model.PaymentVerification, error)
}
