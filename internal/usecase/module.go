package usecase

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/puredesi/oilshop/internal/adapter/events"
	"github.com/puredesi/oilshop/internal/adapter/razorpay"
	"github.com/puredesi/oilshop/internal/adapter/shiprocket"
	"github.com/puredesi/oilshop/internal/domain/repository"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	newReconciler,
	newCheckout,
	NewOrderQueryUseCase,
	NewAdminAuthUseCase,
)

func newReconciler(orders repository.OrderRepository, gateway razorpay.Client, shipper shiprocket.Client, publisher events.Publisher, logger *slog.Logger) *Reconciler {
	return NewReconciler(orders, gateway, shipper, publisher, logger)
}

func newCheckout(orders repository.OrderRepository, gateway razorpay.Client, shipper shiprocket.Client, logger *slog.Logger) *CheckoutUseCase {
	return NewCheckoutUseCase(orders, gateway, shipper, logger)
}
