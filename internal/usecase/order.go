package usecase

import (
	"context"
	"fmt"

	domainErrors "github.com/etproforma/commerce/internal/domain/errors"
	"github.com/etproforma/commerce/internal/domain/model"
	"github.com/etproforma/commerce/internal/domain/repository"
)

// OrderUseCase enforces the fulfillment status machine and order access.
type OrderUseCase struct {
	orders repository.OrderRepository
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository) *OrderUseCase {
	return &OrderUseCase{orders: orders}
}

// ListFor returns the actor's orders: placed ones for a customer,
// received ones for a supplier.
func (u *OrderUseCase) ListFor(ctx context.Context, actor model.Actor) ([]model.Order, error) {
	switch actor.Role {
	case model.RoleCustomer:
		return u.orders.ListByCustomer(ctx, actor.ID)
	case model.RoleSupplier:
		return u.orders.ListBySupplier(ctx, actor.ID)
	}
	return nil, domainErrors.ErrForbidden
}

// GetFor fetches one order, visible only to its customer or supplier.
func (u *OrderUseCase) GetFor(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !owns(actor, order) {
		return nil, domainErrors.ErrForbidden
	}
	return order, nil
}

// UpdateStatus moves an order through the fulfillment machine on behalf
// of the actor. The current status is re-checked at the moment of write
// (compare-and-swap in the repository), not trusted from the earlier
// read. An accepted transition yields an event for the counterparty.
func (u *OrderUseCase) UpdateStatus(ctx context.Context, actor model.Actor, orderID int64, target model.OrderStatus) (*model.Order, *model.OrderEvent, error) {
	if !target.Valid() {
		return nil, nil, fmt.Errorf("%w: unknown status %q", domainErrors.ErrInvalidInput, target)
	}

	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}
	if !owns(actor, order) {
		return nil, nil, domainErrors.ErrForbidden
	}
	if !model.AllowedTransition(actor.Role, order.Status, target) {
		return nil, nil, domainErrors.ErrForbidden
	}

	if err := u.orders.UpdateStatus(ctx, order.ID, order.Status, target); err != nil {
		return nil, nil, err
	}
	order.Status = target

	recipient := order.CustomerID
	if actor.Role == model.RoleCustomer {
		recipient = order.SupplierID
	}
	event := &model.OrderEvent{
		RecipientID: recipient,
		OrderID:     order.ID,
		Status:      target,
		Message:     fmt.Sprintf("Your order #%d status changed to %s.", order.ID, target),
	}
	return order, event, nil
}

func owns(actor model.Actor, order *model.Order) bool {
	switch actor.Role {
	case model.RoleCustomer:
		return order.CustomerID == actor.ID
	case model.RoleSupplier:
		return order.SupplierID == actor.ID
	}
	return false
}
