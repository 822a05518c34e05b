package test

import (
	"context"

	"github.com/puredesi/oilshop/internal/domain/model"
	"github.com/puredesi/oilshop/internal/usecase"
)

// CheckoutFacadeStub implements the checkout handler contract.
type CheckoutFacadeStub struct {
	CreateOrderFn func(ctx context.Context, input usecase.CheckoutInput) (*model.Order, error)
	OrderFn       func(ctx context.Context, ref string) (*model.Order, []model.HistoryEntry, error)
}

func (s CheckoutFacadeStub) CreateOrder(ctx context.Context, input usecase.CheckoutInput) (*model.Order, error) {
	if s.CreateOrderFn != nil {
		return s.CreateOrderFn(ctx, input)
	}
	return &model.Order{Ref: "PD1", PaymentStatus: model.PaymentStatusPending, FulfillmentStatus: model.FulfillmentStatusPending}, nil
}

func (s CheckoutFacadeStub) Order(ctx context.Context, ref string) (*model.Order, []model.HistoryEntry, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, ref)
	}
	order := &model.Order{Ref: ref, PaymentStatus: model.PaymentStatusPending, FulfillmentStatus: model.FulfillmentStatusPending}
	return order, []model.HistoryEntry{{OrderRef: ref, Actor: model.ActorCheckout, ToState: "pending/pending"}}, nil
}

// PaymentFacadeStub implements the payment handler contract.
type PaymentFacadeStub struct {
	CreateSessionFn func(ctx context.Context, ref string) (*model.GatewayOrder, error)
	VerifyFn        func(ctx context.Context, ref string, proof usecase.PaymentProof) (*usecase.Result, error)
}

func (s PaymentFacadeStub) CreatePaymentSession(ctx context.Context, ref string) (*model.GatewayOrder, error) {
	if s.CreateSessionFn != nil {
		return s.CreateSessionFn(ctx, ref)
	}
	return &model.GatewayOrder{Ref: "rzp_order_1", Amount: 45000, Currency: "INR", KeyID: "key"}, nil
}

func (s PaymentFacadeStub) VerifyPayment(ctx context.Context, ref string, proof usecase.PaymentProof) (*usecase.Result, error) {
	if s.VerifyFn != nil {
		return s.VerifyFn(ctx, ref, proof)
	}
	return &usecase.Result{Order: &model.Order{Ref: ref, PaymentStatus: model.PaymentStatusPaid, FulfillmentStatus: model.FulfillmentStatusConfirmed}}, nil
}

// DeliveryFacadeStub implements the delivery handler contract.
type DeliveryFacadeStub struct {
	CheckPincodeFn  func(ctx context.Context, pincode string) (*model.ShippingQuote, error)
	EstimateFn      func(ctx context.Context, pincode string, subtotal, weight float64, cod bool) (float64, error)
	TrackOrderFn    func(ctx context.Context, ref string) (*model.Order, []model.HistoryEntry, error)
	ApplyTrackingFn func(ctx context.Context, ref string, event model.TrackingEvent) (*usecase.Result, error)
}

func (s DeliveryFacadeStub) CheckPincode(ctx context.Context, pincode string) (*model.ShippingQuote, error) {
	if s.CheckPincodeFn != nil {
		return s.CheckPincodeFn(ctx, pincode)
	}
	return &model.ShippingQuote{Serviceable: true, Pincode: pincode, CODAvailable: true, TotalCharge: 60}, nil
}

func (s DeliveryFacadeStub) EstimateShipping(ctx context.Context, pincode string, subtotal, weight float64, cod bool) (float64, error) {
	if s.EstimateFn != nil {
		return s.EstimateFn(ctx, pincode, subtotal, weight, cod)
	}
	return 60, nil
}

func (s DeliveryFacadeStub) TrackOrder(ctx context.Context, ref string) (*model.Order, []model.HistoryEntry, error) {
	if s.TrackOrderFn != nil {
		return s.TrackOrderFn(ctx, ref)
	}
	order := &model.Order{Ref: ref, FulfillmentStatus: model.FulfillmentStatusShipped, AWBCode: "AWB123"}
	return order, []model.HistoryEntry{{OrderRef: ref, Actor: model.ActorTracker, ToState: "paid/shipped"}}, nil
}

func (s DeliveryFacadeStub) ApplyTracking(ctx context.Context, ref string, event model.TrackingEvent) (*usecase.Result, error) {
	if s.ApplyTrackingFn != nil {
		return s.ApplyTrackingFn(ctx, ref, event)
	}
	return &usecase.Result{Order: &model.Order{Ref: ref, FulfillmentStatus: model.FulfillmentStatusShipped}}, nil
}

// AdminFacadeStub implements the admin handler contract.
type AdminFacadeStub struct {
	AuthenticateFn func(login, password string) (string, error)
	ParseFn        func(token string) (string, error)
	ShipFn         func(ctx context.Context, ref string) (*usecase.Result, error)
	CancelFn       func(ctx context.Context, ref, reason string) (*usecase.Result, error)
}

func (s AdminFacadeStub) AuthenticateAdmin(login, password string) (string, error) {
	if s.AuthenticateFn != nil {
		return s.AuthenticateFn(login, password)
	}
	return "session-token", nil
}

func (s AdminFacadeStub) ParseToken(token string) (string, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	return "admin", nil
}

func (s AdminFacadeStub) ShipOrder(ctx context.Context, ref string) (*usecase.Result, error) {
	if s.ShipFn != nil {
		return s.ShipFn(ctx, ref)
	}
	return &usecase.Result{Order: &model.Order{Ref: ref, FulfillmentStatus: model.FulfillmentStatusProcessing}}, nil
}

func (s AdminFacadeStub) CancelOrder(ctx context.Context, ref, reason string) (*usecase.Result, error) {
	if s.CancelFn != nil {
		return s.CancelFn(ctx, ref, reason)
	}
	return &usecase.Result{Order: &model.Order{Ref: ref, FulfillmentStatus: model.FulfillmentStatusCancelled}}, nil
}

// CommerceFacadeStub aggregates the per-concern stubs for router tests.
type CommerceFacadeStub struct {
	CheckoutFacadeStub
	PaymentFacadeStub
	DeliveryFacadeStub
	AdminFacadeStub
}
