package shiprocket

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/puredesi/oilshop/internal/config"
)

// Module exposes the shipment provider client to the fx graph.
var Module = fx.Provide(newClient)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (Client, error) {
	opts := Options{
		PickupLocation:   p.Config.PickupLocation,
		WarehousePincode: p.Config.WarehousePincode,
		ChannelID:        p.Config.ShiprocketChannelID,
	}
	return NewHTTPClient(p.Config.ShiprocketBaseURL, p.Config.ShiprocketEmail, p.Config.ShiprocketPassword, opts, p.Config.AdapterTimeout, p.Logger)
}
