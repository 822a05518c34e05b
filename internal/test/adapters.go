package test

import (
	"context"
	"sync"

	"github.com/puredesi/oilshop/internal/adapter/events"
	"github.com/puredesi/oilshop/internal/domain/model"
)

// PaymentGatewayStub simulates the payment gateway with overridable calls.
type PaymentGatewayStub struct {
	CreateOrderFn func(context.Context, float64, string) (*model.GatewayOrder, error)
	VerifyFn      func(context.Context, string, string, string) (*model.PaymentVerification, error)
	RefundFn      func(context.Context, string, float64, string) error

	VerifyCalls int
	RefundCalls int
}

// CreateOrder returns a deterministic gateway order unless overridden.
func (s *PaymentGatewayStub) CreateOrder(ctx context.Context, amount float64, orderRef string) (*model.GatewayOrder, error) {
	if s.CreateOrderFn != nil {
		return s.CreateOrderFn(ctx, amount, orderRef)
	}
	return &model.GatewayOrder{Ref: "rzp_" + orderRef, Amount: int64(amount * 100), Currency: "INR", KeyID: "key"}, nil
}

// Verify counts invocations and reports success unless overridden.
func (s *PaymentGatewayStub) Verify(ctx context.Context, gatewayOrderRef, paymentRef, signature string) (*model.PaymentVerification, error) {
	s.VerifyCalls++
	if s.VerifyFn != nil {
		return s.VerifyFn(ctx, gatewayOrderRef, paymentRef, signature)
	}
	return &model.PaymentVerification{Verified: true, PaymentRef: paymentRef, Amount: 100, Method: "upi"}, nil
}

// Refund counts invocations and succeeds unless overridden.
func (s *PaymentGatewayStub) Refund(ctx context.Context, paymentRef string, amount float64, reason string) error {
	s.RefundCalls++
	if s.RefundFn != nil {
		return s.RefundFn(ctx, paymentRef, amount, reason)
	}
	return nil
}

// ShipmentProviderStub simulates the logistics provider.
type ShipmentProviderStub struct {
	QuoteFn          func(context.Context, string, float64, float64) (*model.ShippingQuote, error)
	CreateShipmentFn func(context.Context, *model.Order) (*model.ShipmentHandle, error)
	TrackFn          func(context.Context, string) (*model.TrackingEvent, error)
	CancelFn         func(context.Context, string) error

	QuoteCalls  int
	CreateCalls int
	CancelCalls int
	Cancelled   []string
}

// Quote returns a serviceable quote unless overridden.
func (s *ShipmentProviderStub) Quote(ctx context.Context, pincode string, weight, codAmount float64) (*model.ShippingQuote, error) {
	s.QuoteCalls++
	if s.QuoteFn != nil {
		return s.QuoteFn(ctx, pincode, weight, codAmount)
	}
	return &model.ShippingQuote{
		Serviceable:    true,
		Pincode:        pincode,
		CODAvailable:   true,
		ShippingCharge: 60,
		TotalCharge:    60,
		CourierName:    "stub courier",
	}, nil
}

// CreateShipment counts invocations and returns a handle unless overridden.
func (s *ShipmentProviderStub) CreateShipment(ctx context.Context, order *model.Order) (*model.ShipmentHandle, error) {
	s.CreateCalls++
	if s.CreateShipmentFn != nil {
		return s.CreateShipmentFn(ctx, order)
	}
	return &model.ShipmentHandle{
		ShipmentRef: "ship-" + order.Ref,
		AWBCode:     "AWB123",
		CourierName: "stub courier",
		TrackingURL: "https://track.example/ship-" + order.Ref,
	}, nil
}

// Track returns a transit event unless overridden.
func (s *ShipmentProviderStub) Track(ctx context.Context, shipmentRef string) (*model.TrackingEvent, error) {
	if s.TrackFn != nil {
		return s.TrackFn(ctx, shipmentRef)
	}
	return &model.TrackingEvent{RawStatus: "In Transit"}, nil
}

// CancelShipment records the cancelled reference.
func (s *ShipmentProviderStub) CancelShipment(ctx context.Context, shipmentRef string) error {
	s.CancelCalls++
	s.Cancelled = append(s.Cancelled, shipmentRef)
	if s.CancelFn != nil {
		return s.CancelFn(ctx, shipmentRef)
	}
	return nil
}

// PublisherStub records published order events.
type PublisherStub struct {
	mu     sync.Mutex
	Events []events.OrderEvent
	Closed bool
}

// Publish appends the event to the recorded list.
func (s *PublisherStub) Publish(ctx context.Context, event events.OrderEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Events = append(s.Events, event)
}

// Close marks the publisher closed.
func (s *PublisherStub) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Closed = true
}

// Published returns a snapshot of recorded events.
func (s *PublisherStub) Published() []events.OrderEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]events.OrderEvent(nil), s.Events...)
}
