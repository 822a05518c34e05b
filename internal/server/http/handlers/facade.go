package handlers

import (
	"context"

	"github.com/puredesi/oilshop/internal/domain/model"
	"github.com/puredesi/oilshop/internal/usecase"
)

// CheckoutFacade describes order placement and lookup used by handlers.
type CheckoutFacade interface {
	CreateOrder(ctx context.Context, input usecase.CheckoutInput) (*model.Order, error)
	Order(ctx context.Context, ref string) (*model.Order, []model.HistoryEntry, error)
}

// PaymentFacade encapsulates gateway session creation and verification.
type PaymentFacade interface {
	CreatePaymentSession(ctx context.Context, ref string) (*model.GatewayOrder, error)
	VerifyPayment(ctx context.Context, ref string, proof usecase.PaymentProof) (*usecase.Result, error)
}

// DeliveryFacade provides serviceability, shipping estimates, and the
// courier webhook path.
type DeliveryFacade interface {
	CheckPincode(ctx context.Context, pincode string) (*model.ShippingQuote, error)
	EstimateShipping(ctx context.Context, pincode string, subtotal, weight float64, cod bool) (float64, error)
	TrackOrder(ctx context.Context, ref string) (*model.Order, []model.HistoryEntry, error)
	ApplyTracking(ctx context.Context, ref string, event model.TrackingEvent) (*usecase.Result, error)
}

// AdminFacade covers authentication and manual lifecycle interventions.
type AdminFacade interface {
	AuthenticateAdmin(login, password string) (string, error)
	ParseToken(token string) (string, error)
	ShipOrder(ctx context.Context, ref string) (*usecase.Result, error)
	CancelOrder(ctx context.Context, ref, reason string) (*usecase.Result, error)
}

// CommerceFacade aggregates the full set of operations used across handlers.
type CommerceFacade interface {
	CheckoutFacade
	PaymentFacade
	DeliveryFacade
	AdminFacade
}
