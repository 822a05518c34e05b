package razorpay

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/puredesi/oilshop/internal/config"
)

// Module exposes the payment gateway client to the fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	return NewHTTPClient(p.Config.RazorpayBaseURL, p.Config.RazorpayKeyID, p.Config.RazorpayKeySecret, p.Config.AdapterTimeout, p.Logger)
}
