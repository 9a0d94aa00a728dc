package app

import (
	"context"

	"github.com/etproforma/commerce/internal/domain/model"
	"github.com/etproforma/commerce/internal/pkg/identity"
	"github.com/etproforma/commerce/internal/usecase"
)

// EventPublisher hands accepted order events to the async dispatcher.
type EventPublisher interface {
	Publish(event model.OrderEvent)
}

// CommerceFacade aggregates the checkout core behind one surface used by
// HTTP handlers and middleware.
type CommerceFacade struct {
	checkout *usecase.CheckoutUseCase
	orders   *usecase.OrderUseCase
	payments *usecase.PaymentUseCase
	tokens   identity.Strategy
	events   EventPublisher
}

func NewCommerceFacade(
	checkout *usecase.CheckoutUseCase,
	orders *usecase.OrderUseCase,
	payments *usecase.PaymentUseCase,
	tokens identity.Strategy,
	events EventPublisher,
) *CommerceFacade {
	return &CommerceFacade{checkout: checkout, orders: orders, payments: payments, tokens: tokens, events: events}
}

func (f *CommerceFacade) ParseToken(token string) (model.Actor, error) {
	return f.tokens.ParseToken(token)
}

func (f *CommerceFacade) Checkout(ctx context.Context, actor model.Actor, items []usecase.CheckoutItem, shipping model.ShippingInfo) (*usecase.CheckoutResult, error) {
	return f.checkout.Checkout(ctx, actor, items, shipping)
}

func (f *CommerceFacade) RetryPayment(ctx context.Context, actor model.Actor, orderID int64) (*usecase.CheckoutResult, error) {
	return f.checkout.RetryPayment(ctx, actor, orderID)
}

func (f *CommerceFacade) ReconcilePayment(ctx context.Context, txRef string) (*usecase.ReconcileResult, error) {
	return f.payments.Reconcile(ctx, txRef)
}

func (f *CommerceFacade) Orders(ctx context.Context, actor model.Actor) ([]model.Order, error) {
	return f.orders.ListFor(ctx, actor)
}

func (f *CommerceFacade) Order(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error) {
	return f.orders.GetFor(ctx, actor, orderID)
}

// UpdateOrderStatus applies a transition and, when accepted, publishes
// the counterparty notification. Delivery failure never undoes the
// transition; the publisher is non-blocking.
func (f *CommerceFacade) UpdateOrderStatus(ctx context.Context, actor model.Actor, orderID int64, target model.OrderStatus) (*model.Order, error) {
	order, event, err := f.orders.UpdateStatus(ctx, actor, orderID, target)
	if err != nil {
		return nil, err
	}
	if event != nil {
		f.events.Publish(*event)
	}
	return order, nil
}
