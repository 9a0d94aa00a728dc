package repository

import (
	"context"

	"github.com/etproforma/commerce/internal/domain/model"
)

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	// Create reserves stock for every item (conditional decrement) and
	// inserts the order with its items as one transaction. If any line
	// cannot be reserved it returns ErrInsufficientStock and nothing is
	// persisted or decremented.
	Create(ctx context.Context, order *model.Order) (*model.Order, error)
	GetByID(ctx context.Context, id int64) (*model.Order, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]model.Order, error)
	ListBySupplier(ctx context.Context, supplierID int64) ([]model.Order, error)
	// UpdateStatus flips order status only if the current status still
	// equals from (compare-and-swap); returns ErrStatusConflict when the
	// guard fails. Cancelling a pending order restores reserved stock in
	// the same transaction.
	UpdateStatus(ctx context.Context, orderID int64, from, to model.OrderStatus) error
}
