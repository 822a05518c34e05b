package usecase_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	domainErrors "github.com/puredesi/oilshop/internal/domain/errors"
	"github.com/puredesi/oilshop/internal/domain/model"
	"github.com/puredesi/oilshop/internal/test"
	. "github.com/puredesi/oilshop/internal/usecase"
)

func newTestCheckout() (*CheckoutUseCase, *test.OrderRepositoryStub, *test.PaymentGatewayStub, *test.ShipmentProviderStub) {
	repo := test.NewOrderRepositoryStub()
	gateway := &test.PaymentGatewayStub{}
	shipper := &test.ShipmentProviderStub{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewCheckoutUseCase(repo, gateway, shipper, logger), repo, gateway, shipper
}

func checkoutInput(method string) CheckoutInput {
	return CheckoutInput{
		Address: model.Address{
			Name:    "Asha Rao",
			Phone:   "9876543210",
			Email:   "asha@example.com",
			Line:    "12 MG Road",
			City:    "Bengaluru",
			State:   "Karnataka",
			Pincode: "560001",
		},
		Items: []CheckoutItem{
			{ProductID: 1, ProductName: "Cold-pressed groundnut oil", Size: "1", Unit: "L", Quantity: 2, Price: 350},
		},
		PaymentMethod: method,
	}
}

func TestCreateOnlineOrder(t *testing.T) {
	u, repo, _, _ := newTestCheckout()

	order, err := u.Create(context.Background(), checkoutInput(PaymentMethodOnline))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.PaymentStatus != model.PaymentStatusPending || order.FulfillmentStatus != model.FulfillmentStatusPending {
		t.Fatalf("online order starts %s/%s, want pending/pending", order.PaymentStatus, order.FulfillmentStatus)
	}
	if !strings.HasPrefix(order.Ref, "PD") || len(order.Ref) != 20 {
		t.Fatalf("unexpected order ref %q", order.Ref)
	}
	if order.Subtotal != 700 {
		t.Fatalf("subtotal = %v, want 700", order.Subtotal)
	}
	if order.ShippingCost != 60 {
		t.Fatalf("shipping = %v, want provider quote 60", order.ShippingCost)
	}
	if order.Total != 760 {
		t.Fatalf("total = %v, want 760", order.Total)
	}

	entries, _ := repo.History(context.Background(), order.Ref)
	if len(entries) != 1 || entries[0].Actor != model.ActorCheckout {
		t.Fatalf("unexpected initial history %+v", entries)
	}
}

func TestCreateCODOrderConfirmsImmediately(t *testing.T) {
	u, _, _, _ := newTestCheckout()

	order, err := u.Create(context.Background(), checkoutInput(PaymentMethodCOD))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.PaymentStatus != model.PaymentStatusCOD {
		t.Fatalf("payment status = %s, want cod", order.PaymentStatus)
	}
	if order.FulfillmentStatus != model.FulfillmentStatusConfirmed {
		t.Fatalf("fulfillment status = %s, want confirmed", order.FulfillmentStatus)
	}
}

func TestCreateFreeShippingAboveThreshold(t *testing.T) {
	u, _, _, shipper := newTestCheckout()

	input := checkoutInput(PaymentMethodOnline)
	input.Items[0].Quantity = 3 // 1050 subtotal
	order, err := u.Create(context.Background(), input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.ShippingCost != 0 {
		t.Fatalf("shipping = %v, want free above threshold", order.ShippingCost)
	}
	if shipper.QuoteCalls != 0 {
		t.Fatal("quote must not be requested for free shipping")
	}
}

func TestCreateShippingCapped(t *testing.T) {
	u, _, _, shipper := newTestCheckout()
	shipper.QuoteFn = func(ctx context.Context, pincode string, weight, cod float64) (*model.ShippingQuote, error) {
		return &model.ShippingQuote{Serviceable: true, Pincode: pincode, TotalCharge: 240}, nil
	}

	order, err := u.Create(context.Background(), checkoutInput(PaymentMethodOnline))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.ShippingCost != 100 {
		t.Fatalf("shipping = %v, want capped at 100", order.ShippingCost)
	}
}

func TestCreateShippingFallbackWhenQuoteFails(t *testing.T) {
	u, _, _, shipper := newTestCheckout()
	shipper.QuoteFn = func(context.Context, string, float64, float64) (*model.ShippingQuote, error) {
		return nil, domainErrors.NewAdapterUnavailable("shiprocket", errors.New("down"))
	}

	order, err := u.Create(context.Background(), checkoutInput(PaymentMethodOnline))
	if err != nil {
		t.Fatalf("quote outage must not block checkout: %v", err)
	}
	if order.ShippingCost != 50 {
		t.Fatalf("shipping = %v, want flat fallback 50", order.ShippingCost)
	}
}

func TestCreateValidation(t *testing.T) {
	u, _, _, _ := newTestCheckout()

	cases := map[string]func(*CheckoutInput){
		"missing name":    func(in *CheckoutInput) { in.Address.Name = "" },
		"missing phone":   func(in *CheckoutInput) { in.Address.Phone = "" },
		"bad pincode":     func(in *CheckoutInput) { in.Address.Pincode = "12ab" },
		"no items":        func(in *CheckoutInput) { in.Items = nil },
		"zero quantity":   func(in *CheckoutInput) { in.Items[0].Quantity = 0 },
		"negative price":  func(in *CheckoutInput) { in.Items[0].Price = -1 },
		"unknown payment": func(in *CheckoutInput) { in.PaymentMethod = "cheque" },
	}
	for name, mutate := range cases {
		input := checkoutInput(PaymentMethodOnline)
		mutate(&input)
		if _, err := u.Create(context.Background(), input); !errors.Is(err, domainErrors.ErrValidation) {
			t.Errorf("%s: expected validation error, got %v", name, err)
		}
	}
}

func TestCreateGatewayOrder(t *testing.T) {
	u, repo, _, _ := newTestCheckout()
	order, err := u.Create(context.Background(), checkoutInput(PaymentMethodOnline))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	gatewayOrder, err := u.CreateGatewayOrder(context.Background(), order.Ref)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gatewayOrder.Ref == "" {
		t.Fatal("empty gateway order ref")
	}

	stored, _ := repo.GetByRef(context.Background(), order.Ref)
	if stored.GatewayOrderRef != gatewayOrder.Ref {
		t.Fatalf("stored gateway ref %q, want %q", stored.GatewayOrderRef, gatewayOrder.Ref)
	}
}

func TestCreateGatewayOrderRejectedForCOD(t *testing.T) {
	u, _, _, _ := newTestCheckout()
	order, err := u.Create(context.Background(), checkoutInput(PaymentMethodCOD))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := u.CreateGatewayOrder(context.Background(), order.Ref); !domainErrors.IsInvariantViolation(err) {
		t.Fatalf("expected invariant violation, got %v", err)
	}
}

func TestCheckPincode(t *testing.T) {
	u, _, _, _ := newTestCheckout()

	quote, err := u.CheckPincode(context.Background(), "560001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !quote.Serviceable {
		t.Fatal("stub quote must be serviceable")
	}

	if _, err := u.CheckPincode(context.Background(), "000001"); !errors.Is(err, domainErrors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestEstimateShipping(t *testing.T) {
	u, _, _, _ := newTestCheckout()

	charge, err := u.EstimateShipping(context.Background(), "560001", 500, 2, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if charge != 60 {
		t.Fatalf("charge = %v, want 60", charge)
	}

	free, err := u.EstimateShipping(context.Background(), "560001", 1200, 2, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if free != 0 {
		t.Fatalf("charge = %v, want 0 above threshold", free)
	}
}
