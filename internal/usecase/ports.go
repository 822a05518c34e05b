package usecase

import (
	"context"

	"github.com/puredesi/oilshop/internal/domain/model"
)

// PaymentGateway is the payment collaborator contract. Implemented by the
// razorpay adapter.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount float64, orderRef string) (*model.GatewayOrder, error)
	Verify(ctx context.Context, gatewayOrderRef, paymentRef, signature string) (*model.PaymentVerification, error)
	Refund(ctx context.Context, paymentRef string, amount float64, reason string) error
}

// ShipmentProvider is the logistics collaborator contract. Implemented by
// the shiprocket adapter.
type ShipmentProvider interface {
	Quote(ctx context.Context, pincode string, weight, codAmount float64) (*model.ShippingQuote, error)
	CreateShipment(ctx context.Context, order *model.Order) (*model.ShipmentHandle, error)
	Track(ctx context.Context, shipmentRef string) (*model.TrackingEvent, error)
	CancelShipment(ctx context.Context, shipmentRef string) error
}
