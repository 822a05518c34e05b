package app

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/puredesi/oilshop/internal/config"
	"github.com/puredesi/oilshop/internal/domain/model"
	testhelpers "github.com/puredesi/oilshop/internal/test"
	"github.com/puredesi/oilshop/internal/usecase"
)

var configForAdmin = config.Config{AdminLogin: "admin", AdminPasswordHash: "hash:secret"}

func newTestFacade() (*CommerceFacade, *testhelpers.OrderRepositoryStub, *testhelpers.PaymentGatewayStub, *testhelpers.ShipmentProviderStub) {
	repo := testhelpers.NewOrderRepositoryStub()
	gateway := &testhelpers.PaymentGatewayStub{}
	shipper := &testhelpers.ShipmentProviderStub{}
	publisher := &testhelpers.PublisherStub{}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	checkout := usecase.NewCheckoutUseCase(repo, gateway, shipper, logger)
	reconciler := usecase.NewReconciler(repo, gateway, shipper, publisher, logger)
	queries := usecase.NewOrderQueryUseCase(repo)
	admin := usecase.NewAdminAuthUseCase(
		&configForAdmin,
		testhelpers.HasherStub{},
		testhelpers.StrategyStub{ParseFn: func(string) (string, error) { return "admin", nil }},
	)

	return NewCommerceFacade(checkout, reconciler, queries, admin, shipper), repo, gateway, shipper
}

func sampleInput() usecase.CheckoutInput {
	return usecase.CheckoutInput{
		Address: model.Address{
			Name:    "Asha Rao",
			Phone:   "9876543210",
			Line:    "12 MG Road",
			City:    "Bengaluru",
			State:   "Karnataka",
			Pincode: "560001",
		},
		Items:         []usecase.CheckoutItem{{ProductID: 1, ProductName: "Sesame oil", Quantity: 1, Price: 400}},
		PaymentMethod: usecase.PaymentMethodOnline,
	}
}

func TestCommerceFacadeCheckoutAndPayment(t *testing.T) {
	facade, _, _, _ := newTestFacade()
	ctx := context.Background()

	order, err := facade.CreateOrder(ctx, sampleInput())
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	session, err := facade.CreatePaymentSession(ctx, order.Ref)
	if err != nil {
		t.Fatalf("payment session: %v", err)
	}

	result, err := facade.VerifyPayment(ctx, order.Ref, usecase.PaymentProof{
		GatewayOrderRef: session.Ref,
		PaymentRef:      "pay_1",
		Signature:       "sig",
	})
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if result.Order.FulfillmentStatus != model.FulfillmentStatusConfirmed {
		t.Fatalf("status = %s, want confirmed", result.Order.FulfillmentStatus)
	}

	snapshot, history, err := facade.Order(ctx, order.Ref)
	if err != nil {
		t.Fatalf("order lookup: %v", err)
	}
	if snapshot.Ref != order.Ref || len(history) == 0 {
		t.Fatalf("unexpected lookup %+v %+v", snapshot, history)
	}
}

func TestCommerceFacadeWorkerPath(t *testing.T) {
	facade, repo, _, _ := newTestFacade()
	ctx := context.Background()

	repo.Seed(&model.Order{
		Ref:               "PD1",
		PaymentStatus:     model.PaymentStatusPaid,
		FulfillmentStatus: model.FulfillmentStatusConfirmed,
	})

	pending, err := facade.OrdersForShipmentRetry(ctx, 10)
	if err != nil || len(pending) != 1 {
		t.Fatalf("shipment retry batch: %v %v", pending, err)
	}

	if err := facade.RetryShipmentCreation(ctx, "PD1"); err != nil {
		t.Fatalf("retry: %v", err)
	}

	trackable, err := facade.OrdersForTracking(ctx, 10)
	if err != nil || len(trackable) != 1 {
		t.Fatalf("tracking batch: %v %v", trackable, err)
	}

	event, err := facade.TrackShipment(ctx, trackable[0].ShipmentRef)
	if err != nil {
		t.Fatalf("track: %v", err)
	}
	if err := facade.ApplyTrackingEvent(ctx, "PD1", *event); err != nil {
		t.Fatalf("apply: %v", err)
	}
}

func TestCommerceFacadeAdminAuth(t *testing.T) {
	facade, _, _, _ := newTestFacade()

	token, err := facade.AuthenticateAdmin("admin", "secret")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if token == "" {
		t.Fatal("empty token")
	}

	subject, err := facade.ParseToken(token)
	if err != nil || subject != "admin" {
		t.Fatalf("parse: %q %v", subject, err)
	}
}

func TestCommerceFacadeCancel(t *testing.T) {
	facade, repo, gateway, _ := newTestFacade()
	ctx := context.Background()

	repo.Seed(&model.Order{
		Ref:               "PD2",
		PaymentStatus:     model.PaymentStatusPaid,
		FulfillmentStatus: model.FulfillmentStatusProcessing,
		PaymentRef:        "pay_2",
		ShipmentRef:       "ship-2",
	})

	result, err := facade.CancelOrder(ctx, "PD2", "customer request")
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if result.Order.FulfillmentStatus != model.FulfillmentStatusCancelled {
		t.Fatalf("status = %s, want cancelled", result.Order.FulfillmentStatus)
	}
	if gateway.RefundCalls != 1 {
		t.Fatalf("refund calls = %d, want 1", gateway.RefundCalls)
	}
}
