package test

import (
	"context"
	"fmt"

	"github.com/etproforma/commerce/internal/domain/model"
)

// GatewayStub simulates the payment gateway client.
type GatewayStub struct {
	InitializeFn func(context.Context, model.PaymentIntent) (*model.PaymentInitiation, error)
	VerifyFn     func(context.Context, string) (*model.PaymentVerification, error)

	Intents  []model.PaymentIntent
	Verified []string
}

// Initialize tracks the intent and returns a deterministic session.
func (s *GatewayStub) Initialize(ctx context.Context, intent model.PaymentIntent) (*model.PaymentInitiation, error) {
	s.Intents = append(s.Intents, intent)
	if s.InitializeFn != nil {
		return s.InitializeFn(ctx, intent)
	}
	return &model.PaymentInitiation{
		Provider:    "stub",
		TxRef:       intent.TxRef,
		CheckoutURL: fmt.Sprintf("https://pay.example/%s", intent.TxRef),
	}, nil
}

// Verify tracks the tx ref and reports success by default.
func (s *GatewayStub) Verify(ctx context.Context, txRef string) (*model.PaymentVerification, error) {
	s.Verified = append(s.Verified, txRef)
	if s.VerifyFn != nil {
		return s.VerifyFn(ctx, txRef)
	}
	return &model.PaymentVerification{TxRef: txRef, Succeeded: true}, nil
}

// NotifierStub records delivered events.
type NotifierStub struct {
	NotifyFn func(context.Context, model.OrderEvent) error
	Events   []model.OrderEvent
}

// Notify stores the event or delegates to the override.
func (s *NotifierStub) Notify(ctx context.Context, event model.OrderEvent) error {
	if s.NotifyFn != nil {
		return s.NotifyFn(ctx, event)
	}
	s.Events = append(s.Events, event)
	return nil
}

// EventPublisherStub captures published events synchronously.
type EventPublisherStub struct {
	Events []model.OrderEvent
}

// Publish appends the event.
func (s *EventPublisherStub) Publish(event model.OrderEvent) {
	s.Events = append(s.Events, event)
}
