package repository

import (
	"context"

	"github.com/etproforma/commerce/internal/domain/model"
)

// PaymentRepository manages payment sessions.
type PaymentRepository interface {
	Create(ctx context.Context, payment *model.Payment) (*model.Payment, error)
	GetByTxRef(ctx context.Context, txRef string) (*model.Payment, error)
	// SupersedeInitiated marks every still-initiated session of the order
	// as failed, keeping at most one session live per order once the next
	// initiation is stored.
	SupersedeInitiated(ctx context.Context, orderID int64) error
	// RecordOutcome applies a verified gateway verdict to the session and,
	// on success, advances the linked order pending -> paid, all in one
	// transaction serialized per tx ref. The bool reports whether this
	// call applied the outcome; replays of an already reconciled session
	// return the stored session with false.
	RecordOutcome(ctx context.Context, verification model.PaymentVerification) (*model.Payment, bool, error)
}
