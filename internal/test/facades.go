package test

import (
	"context"
	"errors"

	"github.com/etproforma/commerce/internal/domain/model"
	"github.com/etproforma/commerce/internal/usecase"
)

// CommerceFacadeStub provides controllable behaviour for HTTP handler
// and middleware tests.
type CommerceFacadeStub struct {
	CheckoutFn          func(context.Context, model.Actor, []usecase.CheckoutItem, model.ShippingInfo) (*usecase.CheckoutResult, error)
	OrdersFn            func(context.Context, model.Actor) ([]model.Order, error)
	OrderFn             func(context.Context, model.Actor, int64) (*model.Order, error)
	UpdateOrderStatusFn func(context.Context, model.Actor, int64, model.OrderStatus) (*model.Order, error)
	ReconcilePaymentFn  func(context.Context, string) (*usecase.ReconcileResult, error)
	RetryPaymentFn      func(context.Context, model.Actor, int64) (*usecase.CheckoutResult, error)
	ParseTokenFn        func(string) (model.Actor, error)
}

// Checkout delegates to the override or returns a default result.
func (s *CommerceFacadeStub) Checkout(ctx context.Context, actor model.Actor, items []usecase.CheckoutItem, shipping model.ShippingInfo) (*usecase.CheckoutResult, error) {
	if s.CheckoutFn != nil {
		return s.CheckoutFn(ctx, actor, items, shipping)
	}
	return &usecase.CheckoutResult{
		Order: &model.Order{ID: 1, CustomerID: actor.ID, Status: model.OrderStatusPending},
		TxRef: "b2b_stub",
	}, nil
}

// Orders returns predefined orders for the actor.
func (s *CommerceFacadeStub) Orders(ctx context.Context, actor model.Actor) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, actor)
	}
	return []model.Order{{ID: 1, CustomerID: actor.ID}}, nil
}

// Order returns one order or delegates to the override.
func (s *CommerceFacadeStub) Order(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, actor, orderID)
	}
	return &model.Order{ID: orderID, CustomerID: actor.ID}, nil
}

// UpdateOrderStatus applies the configured transition handler.
func (s *CommerceFacadeStub) UpdateOrderStatus(ctx context.Context, actor model.Actor, orderID int64, target model.OrderStatus) (*model.Order, error) {
	if s.UpdateOrderStatusFn != nil {
		return s.UpdateOrderStatusFn(ctx, actor, orderID, target)
	}
	return &model.Order{ID: orderID, Status: target}, nil
}

// ReconcilePayment executes the configured reconciliation handler.
func (s *CommerceFacadeStub) ReconcilePayment(ctx context.Context, txRef string) (*usecase.ReconcileResult, error) {
	if s.ReconcilePaymentFn != nil {
		return s.ReconcilePaymentFn(ctx, txRef)
	}
	return &usecase.ReconcileResult{
		Payment: &model.Payment{TxRef: txRef, Status: model.PaymentStatusSuccess},
		Applied: true,
	}, nil
}

// RetryPayment executes the configured retry handler.
func (s *CommerceFacadeStub) RetryPayment(ctx context.Context, actor model.Actor, orderID int64) (*usecase.CheckoutResult, error) {
	if s.RetryPaymentFn != nil {
		return s.RetryPaymentFn(ctx, actor, orderID)
	}
	return &usecase.CheckoutResult{
		Order: &model.Order{ID: orderID, CustomerID: actor.ID, Status: model.OrderStatusPending},
		TxRef: "b2b_stub",
	}, nil
}

// ParseToken resolves tokens to actors for middleware tests.
func (s *CommerceFacadeStub) ParseToken(token string) (model.Actor, error) {
	if s.ParseTokenFn != nil {
		return s.ParseTokenFn(token)
	}
	if token == "" {
		return model.Actor{}, errors.New("empty token")
	}
	return model.Actor{ID: 1, Role: model.RoleCustomer}, nil
}
