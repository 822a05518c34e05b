package di

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"go.uber.org/fx"

	"github.com/puredesi/oilshop/internal/adapter/events"
	"github.com/puredesi/oilshop/internal/adapter/razorpay"
	"github.com/puredesi/oilshop/internal/adapter/shiprocket"
	"github.com/puredesi/oilshop/internal/app"
	"github.com/puredesi/oilshop/internal/config"
	"github.com/puredesi/oilshop/internal/domain/repository"
	"github.com/puredesi/oilshop/internal/storage/postgres"
	"github.com/puredesi/oilshop/internal/test"
)

func TestModuleComposesGraphWithReplacements(t *testing.T) {
	cfg := &config.Config{
		RunAddress:           ":0",
		DatabaseURI:          "postgres://stub",
		AuthSecret:           "secret",
		AdminLogin:           "admin",
		AdminPasswordHash:    "hash",
		TrackingPollInterval: time.Millisecond,
		WorkerPoolSize:       1,
		PollBatchSize:        1,
		ShutdownTimeout:      time.Millisecond,
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	orderRepo := test.NewOrderRepositoryStub()
	gateway := &test.PaymentGatewayStub{}
	shipper := &test.ShipmentProviderStub{}
	publisher := &test.PublisherStub{}

	var facade *app.CommerceFacade
	fxApp := fx.New(
		fx.NopLogger,
		fx.Supply(context.Background()),
		Module(
			fx.Replace(cfg),
			fx.Replace(logger),
			fx.Replace(&postgres.Storage{}),
			fx.Replace(repository.OrderRepository(orderRepo)),
			fx.Replace(razorpay.Client(gateway)),
			fx.Replace(shiprocket.Client(shipper)),
			fx.Replace(events.Publisher(publisher)),
		),
		fx.Populate(&facade),
	)

	if err := fxApp.Err(); err != nil {
		t.Fatalf("fx app returned error: %v", err)
	}
	t.Cleanup(func() { _ = fxApp.Stop(context.Background()) })
	if facade == nil {
		t.Fatal("expected commerce facade instance")
	}
}
