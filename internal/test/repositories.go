package test

import (
	"context"

	domainErrors "github.com/etproforma/commerce/internal/domain/errors"
	"github.com/etproforma/commerce/internal/domain/model"
)

// ProductRepositoryStub serves catalog products from memory.
type ProductRepositoryStub struct {
	GetByIDFn func(context.Context, int64) (*model.Product, error)
	Products  map[int64]*model.Product
	Err       error
}

// NewProductRepositoryStub constructs stub repository with initialized map.
func NewProductRepositoryStub(products ...*model.Product) *ProductRepositoryStub {
	stub := &ProductRepositoryStub{Products: make(map[int64]*model.Product)}
	for _, p := range products {
		stub.Products[p.ID] = p
	}
	return stub
}

// GetByID returns configured product or not found.
func (s *ProductRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}
	if s.Err != nil {
		return nil, s.Err
	}
	if product, ok := s.Products[id]; ok {
		return product, nil
	}
	return nil, domainErrors.ErrNotFound
}

// OrderUpdateCall stores information about UpdateStatus invocations.
type OrderUpdateCall struct {
	OrderID int64
	From    model.OrderStatus
	To      model.OrderStatus
}

// OrderRepositoryStub allows tests to customize behaviour.
type OrderRepositoryStub struct {
	CreateFn         func(context.Context, *model.Order) (*model.Order, error)
	GetByIDFn        func(context.Context, int64) (*model.Order, error)
	ListByCustomerFn func(context.Context, int64) ([]model.Order, error)
	ListBySupplierFn func(context.Context, int64) ([]model.Order, error)
	UpdateStatusFn   func(context.Context, int64, model.OrderStatus, model.OrderStatus) error

	Created     []*model.Order
	Orders      []model.Order
	UpdateCalls []OrderUpdateCall
	NextID      int64
}

// Create tracks invocations and assigns sequential identifiers.
func (s *OrderRepositoryStub) Create(ctx context.Context, order *model.Order) (*model.Order, error) {
	s.Created = append(s.Created, order)
	if s.CreateFn != nil {
		return s.CreateFn(ctx, order)
	}
	if s.NextID == 0 {
		s.NextID = 1
	}
	created := *order
	created.ID = s.NextID
	s.NextID++
	return &created, nil
}

// GetByID returns matched order either via override or stored slice.
func (s *OrderRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}
	for _, o := range s.Orders {
		if o.ID == id {
			order := o
			return &order, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// ListByCustomer returns orders from configured slice.
func (s *OrderRepositoryStub) ListByCustomer(ctx context.Context, customerID int64) ([]model.Order, error) {
	if s.ListByCustomerFn != nil {
		return s.ListByCustomerFn(ctx, customerID)
	}
	return s.Orders, nil
}

// ListBySupplier returns orders from configured slice.
func (s *OrderRepositoryStub) ListBySupplier(ctx context.Context, supplierID int64) ([]model.Order, error) {
	if s.ListBySupplierFn != nil {
		return s.ListBySupplierFn(ctx, supplierID)
	}
	return s.Orders, nil
}

// UpdateStatus records update invocations.
func (s *OrderRepositoryStub) UpdateStatus(ctx context.Context, orderID int64, from, to model.OrderStatus) error {
	if s.UpdateStatusFn != nil {
		return s.UpdateStatusFn(ctx, orderID, from, to)
	}
	s.UpdateCalls = append(s.UpdateCalls, OrderUpdateCall{OrderID: orderID, From: from, To: to})
	return nil
}

// PaymentRepositoryStub keeps payment sessions in memory.
type PaymentRepositoryStub struct {
	CreateFn             func(context.Context, *model.Payment) (*model.Payment, error)
	GetByTxRefFn         func(context.Context, string) (*model.Payment, error)
	SupersedeInitiatedFn func(context.Context, int64) error
	RecordOutcomeFn      func(context.Context, model.PaymentVerification) (*model.Payment, bool, error)

	Sessions map[string]*model.Payment
	Outcomes []model.PaymentVerification
	NextID   int64
}

// NewPaymentRepositoryStub constructs stub repository with initialized map.
func NewPaymentRepositoryStub() *PaymentRepositoryStub {
	return &PaymentRepositoryStub{Sessions: make(map[string]*model.Payment), NextID: 1}
}

// Create stores the session keyed by tx ref.
func (s *PaymentRepositoryStub) Create(ctx context.Context, payment *model.Payment) (*model.Payment, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, payment)
	}
	if s.Sessions == nil {
		s.Sessions = make(map[string]*model.Payment)
	}
	if s.NextID == 0 {
		s.NextID = 1
	}
	created := *payment
	created.ID = s.NextID
	s.NextID++
	s.Sessions[created.TxRef] = &created
	return &created, nil
}

// GetByTxRef fetches a stored session or returns not found.
func (s *PaymentRepositoryStub) GetByTxRef(ctx context.Context, txRef string) (*model.Payment, error) {
	if s.GetByTxRefFn != nil {
		return s.GetByTxRefFn(ctx, txRef)
	}
	if payment, ok := s.Sessions[txRef]; ok {
		return payment, nil
	}
	return nil, domainErrors.ErrNotFound
}

// SupersedeInitiated fails any initiated session stored for the order.
func (s *PaymentRepositoryStub) SupersedeInitiated(ctx context.Context, orderID int64) error {
	if s.SupersedeInitiatedFn != nil {
		return s.SupersedeInitiatedFn(ctx, orderID)
	}
	for _, payment := range s.Sessions {
		if payment.OrderID == orderID && payment.Status == model.PaymentStatusInitiated {
			payment.Status = model.PaymentStatusFailed
		}
	}
	return nil
}

// RecordOutcome applies the verdict once; replays report applied false.
func (s *PaymentRepositoryStub) RecordOutcome(ctx context.Context, verification model.PaymentVerification) (*model.Payment, bool, error) {
	s.Outcomes = append(s.Outcomes, verification)
	if s.RecordOutcomeFn != nil {
		return s.RecordOutcomeFn(ctx, verification)
	}
	payment, ok := s.Sessions[verification.TxRef]
	if !ok {
		return nil, false, domainErrors.ErrNotFound
	}
	if payment.Status != model.PaymentStatusInitiated {
		return payment, false, nil
	}
	if verification.Succeeded {
		payment.Status = model.PaymentStatusSuccess
	} else {
		payment.Status = model.PaymentStatusFailed
	}
	return payment, true, nil
}
