package app

import (
	"context"

	"github.com/puredesi/oilshop/internal/domain/model"
	"github.com/puredesi/oilshop/internal/usecase"
)

// CommerceFacade aggregates the use cases behind a single surface consumed
// by HTTP handlers and the background poller.
type CommerceFacade struct {
	checkout   *usecase.CheckoutUseCase
	reconciler *usecase.Reconciler
	queries    *usecase.OrderQueryUseCase
	admin      *usecase.AdminAuthUseCase
	shipper    usecase.ShipmentProvider
}

// NewCommerceFacade constructs CommerceFacade.
func NewCommerceFacade(checkout *usecase.CheckoutUseCase, reconciler *usecase.Reconciler, queries *usecase.OrderQueryUseCase, admin *usecase.AdminAuthUseCase, shipper usecase.ShipmentProvider) *CommerceFacade {
	return &CommerceFacade{
		checkout:   checkout,
		reconciler: reconciler,
		queries:    queries,
		admin:      admin,
		shipper:    shipper,
	}
}

func (f *CommerceFacade) CreateOrder(ctx context.Context, input usecase.CheckoutInput) (*model.Order, error) {
	return f.checkout.Create(ctx, input)
}

func (f *CommerceFacade) CreatePaymentSession(ctx context.Context, ref string) (*model.GatewayOrder, error) {
	return f.checkout.CreateGatewayOrder(ctx, ref)
}

func (f *CommerceFacade) VerifyPayment(ctx context.Context, ref string, proof usecase.PaymentProof) (*usecase.Result, error) {
	return f.reconciler.VerifyPayment(ctx, ref, proof)
}

func (f *CommerceFacade) Order(ctx context.Context, ref string) (*model.Order, []model.HistoryEntry, error) {
	return f.queries.Get(ctx, ref)
}

func (f *CommerceFacade) CheckPincode(ctx context.Context, pincode string) (*model.ShippingQuote, error) {
	return f.checkout.CheckPincode(ctx, pincode)
}

func (f *CommerceFacade) EstimateShipping(ctx context.Context, pincode string, subtotal, weight float64, cod bool) (float64, error) {
	return f.checkout.EstimateShipping(ctx, pincode, subtotal, weight, cod)
}

// TrackOrder returns the public tracking view of an order.
func (f *CommerceFacade) TrackOrder(ctx context.Context, ref string) (*model.Order, []model.HistoryEntry, error) {
	return f.queries.Get(ctx, ref)
}

// ShipOrder triggers a shipment creation attempt, used by the admin retry
// endpoint.
func (f *CommerceFacade) ShipOrder(ctx context.Context, ref string) (*usecase.Result, error) {
	return f.reconciler.AttemptShipmentCreation(ctx, ref)
}

func (f *CommerceFacade) CancelOrder(ctx context.Context, ref, reason string) (*usecase.Result, error) {
	return f.reconciler.Cancel(ctx, ref, reason, model.ActorAdmin)
}

// ApplyTracking folds a pushed courier event into the order, used by the
// tracking webhook.
func (f *CommerceFacade) ApplyTracking(ctx context.Context, ref string, event model.TrackingEvent) (*usecase.Result, error) {
	return f.reconciler.ReconcileTracking(ctx, ref, event)
}

func (f *CommerceFacade) AuthenticateAdmin(login, password string) (string, error) {
	return f.admin.Authenticate(login, password)
}

func (f *CommerceFacade) ParseToken(token string) (string, error) {
	return f.admin.ParseToken(token)
}

// Worker-facing operations.

func (f *CommerceFacade) OrdersForShipmentRetry(ctx context.Context, limit int) ([]model.Order, error) {
	return f.queries.SelectShipmentPending(ctx, limit)
}

func (f *CommerceFacade) OrdersForTracking(ctx context.Context, limit int) ([]model.Order, error) {
	return f.queries.SelectForTracking(ctx, limit)
}

func (f *CommerceFacade) RetryShipmentCreation(ctx context.Context, ref string) error {
	_, err := f.reconciler.AttemptShipmentCreation(ctx, ref)
	return err
}

func (f *CommerceFacade) TrackShipment(ctx context.Context, shipmentRef string) (*model.TrackingEvent, error) {
	return f.shipper.Track(ctx, shipmentRef)
}

func (f *CommerceFacade) ApplyTrackingEvent(ctx context.Context, ref string, event model.TrackingEvent) error {
	_, err := f.reconciler.ReconcileTracking(ctx, ref, event)
	return err
}
