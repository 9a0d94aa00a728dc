package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domainErrors "github.com/etproforma/commerce/internal/domain/errors"
	"github.com/etproforma/commerce/internal/domain/model"
	"github.com/etproforma/commerce/internal/domain/repository"
)

// taxRate is the fixed marketplace tax applied to every order subtotal.
var taxRate = decimal.New(15, -2)

// CheckoutItem is one requested cart line.
type CheckoutItem struct {
	ProductID int64
	Quantity  int32
}

// CheckoutResult is returned to the caller for the gateway redirect.
type CheckoutResult struct {
	Order       *model.Order
	CheckoutURL string
	TxRef       string
}

// CheckoutUseCase converts a cart into a durable order with reserved
// stock and an initiated payment session.
type CheckoutUseCase struct {
	products repository.ProductRepository
	orders   repository.OrderRepository
	payments repository.PaymentRepository
	gateway  PaymentGateway
}

// NewCheckoutUseCase constructs CheckoutUseCase.
func NewCheckoutUseCase(
	products repository.ProductRepository,
	orders repository.OrderRepository,
	payments repository.PaymentRepository,
	gw PaymentGateway,
) *CheckoutUseCase {
	return &CheckoutUseCase{products: products, orders: orders, payments: payments, gateway: gw}
}

// Checkout validates the cart, reserves inventory, creates the order and
// opens a payment session. Validation and the single-supplier check run
// before any mutation; reservation and order creation are one atomic
// unit in the repository. A gateway failure after that leaves the order
// pending so payment can be retried via RetryPayment.
func (u *CheckoutUseCase) Checkout(ctx context.Context, actor model.Actor, items []CheckoutItem, shipping model.ShippingInfo) (*CheckoutResult, error) {
	if actor.Role != model.RoleCustomer {
		return nil, domainErrors.ErrForbidden
	}
	if err := ValidateItems(items); err != nil {
		return nil, err
	}
	if err := ValidateShipping(shipping); err != nil {
		return nil, err
	}

	var (
		supplierID   int64
		supplierSeen bool
		subtotal     decimal.Decimal
		orderItems   = make([]model.OrderItem, 0, len(items))
	)
	for _, it := range items {
		product, err := u.products.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}

		if !supplierSeen {
			supplierID = product.SupplierID
			supplierSeen = true
		} else if supplierID != product.SupplierID {
			return nil, domainErrors.ErrMixedSupplierOrder
		}

		lineTotal := product.Price.Mul(decimal.NewFromInt32(it.Quantity))
		orderItems = append(orderItems, model.OrderItem{
			ProductID:  product.ID,
			SupplierID: product.SupplierID,
			Quantity:   it.Quantity,
			UnitPrice:  product.Price,
			LineTotal:  lineTotal,
		})
		subtotal = subtotal.Add(lineTotal)
	}

	tax := subtotal.Mul(taxRate).Round(2)
	order := &model.Order{
		CustomerID:   actor.ID,
		SupplierID:   supplierID,
		Subtotal:     subtotal,
		Tax:          tax,
		ShippingCost: shipping.Cost,
		Total:        subtotal.Add(tax).Add(shipping.Cost),
		Shipping:     shipping,
		Status:       model.OrderStatusPending,
		Items:        orderItems,
	}

	order, err := u.orders.Create(ctx, order)
	if err != nil {
		return nil, err
	}

	payment, err := u.initiatePayment(ctx, order)
	if err != nil {
		return nil, err
	}

	return &CheckoutResult{Order: order, CheckoutURL: payment.CheckoutURL, TxRef: payment.TxRef}, nil
}

// RetryPayment opens a fresh payment session for an order whose earlier
// initiation failed or was abandoned. The order keeps its reservation;
// only pending orders owned by the acting customer qualify.
func (u *CheckoutUseCase) RetryPayment(ctx context.Context, actor model.Actor, orderID int64) (*CheckoutResult, error) {
	if actor.Role != model.RoleCustomer {
		return nil, domainErrors.ErrForbidden
	}

	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != actor.ID {
		return nil, domainErrors.ErrForbidden
	}
	if order.Status != model.OrderStatusPending {
		return nil, domainErrors.ErrOrderNotPending
	}

	// An order carries at most one live session; an earlier initiated one
	// is closed out before the new initiation.
	if err := u.payments.SupersedeInitiated(ctx, order.ID); err != nil {
		return nil, err
	}

	payment, err := u.initiatePayment(ctx, order)
	if err != nil {
		return nil, err
	}
	return &CheckoutResult{Order: order, CheckoutURL: payment.CheckoutURL, TxRef: payment.TxRef}, nil
}

func (u *CheckoutUseCase) initiatePayment(ctx context.Context, order *model.Order) (*model.Payment, error) {
	intent := model.PaymentIntent{
		OrderID:  order.ID,
		Amount:   order.Total,
		Email:    order.Shipping.Email,
		FullName: order.Shipping.FullName,
		TxRef:    fmt.Sprintf("b2b_%s", uuid.NewString()),
	}

	initiation, err := u.gateway.Initialize(ctx, intent)
	if err != nil {
		return nil, err
	}

	payment := &model.Payment{
		OrderID:     order.ID,
		Provider:    initiation.Provider,
		TxRef:       initiation.TxRef,
		Status:      model.PaymentStatusInitiated,
		CheckoutURL: initiation.CheckoutURL,
		Payload:     initiation.RawPayload,
	}
	return u.payments.Create(ctx, payment)
}
