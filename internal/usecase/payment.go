package usecase

import (
	"context"
	"errors"
	"fmt"

	domainErrors "github.com/etproforma/commerce/internal/domain/errors"
	"github.com/etproforma/commerce/internal/domain/model"
	"github.com/etproforma/commerce/internal/domain/repository"
)

// ReconcileResult reports the reconciled session state. Applied is false
// when the session was already reconciled by an earlier call.
type ReconcileResult struct {
	Payment *model.Payment
	Applied bool
}

// PaymentUseCase turns the gateway's verified verdict into payment and
// order state.
type PaymentUseCase struct {
	payments repository.PaymentRepository
	gateway  PaymentGateway
}

// NewPaymentUseCase constructs PaymentUseCase.
func NewPaymentUseCase(payments repository.PaymentRepository, gw PaymentGateway) *PaymentUseCase {
	return &PaymentUseCase{payments: payments, gateway: gw}
}

// Reconcile resolves one transaction reference. The callback's own
// claimed status is never trusted; the verdict always comes from the
// gateway verify call. Replays of the same reference are no-ops.
func (u *PaymentUseCase) Reconcile(ctx context.Context, txRef string) (*ReconcileResult, error) {
	if txRef == "" {
		return nil, fmt.Errorf("%w: tx_ref is required", domainErrors.ErrInvalidInput)
	}

	if _, err := u.payments.GetByTxRef(ctx, txRef); err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, domainErrors.ErrUnknownTransaction
		}
		return nil, err
	}

	verification, err := u.gateway.Verify(ctx, txRef)
	if err != nil {
		return nil, err
	}

	payment, applied, err := u.payments.RecordOutcome(ctx, *verification)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, domainErrors.ErrUnknownTransaction
		}
		return nil, err
	}
	return &ReconcileResult{Payment: payment, Applied: applied}, nil
}
