package handlers

import (
	"context"

	"github.com/etproforma/commerce/internal/domain/model"
	"github.com/etproforma/commerce/internal/usecase"
)

// CheckoutFacade exposes cart conversion.
type CheckoutFacade interface {
	Checkout(ctx context.Context, actor model.Actor, items []usecase.CheckoutItem, shipping model.ShippingInfo) (*usecase.CheckoutResult, error)
}

// OrderFacade provides order queries and status transitions.
type OrderFacade interface {
	Orders(ctx context.Context, actor model.Actor) ([]model.Order, error)
	Order(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error)
	UpdateOrderStatus(ctx context.Context, actor model.Actor, orderID int64, target model.OrderStatus) (*model.Order, error)
}

// PaymentFacade covers reconciliation and payment retry.
type PaymentFacade interface {
	ReconcilePayment(ctx context.Context, txRef string) (*usecase.ReconcileResult, error)
	RetryPayment(ctx context.Context, actor model.Actor, orderID int64) (*usecase.CheckoutResult, error)
}

// CommerceFacade aggregates the full set of operations used across
// handlers and the identity middleware.
type CommerceFacade interface {
	CheckoutFacade
	OrderFacade
	PaymentFacade
	ParseToken(token string) (model.Actor, error)
}
