package events

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/puredesi/oilshop/internal/config"
)

// Module wires the order event publisher. Without brokers the publisher is
// a no-op so a single-binary deployment stays possible.
var Module = fx.Options(
	fx.Provide(newPublisher),
	fx.Invoke(registerLifecycle),
)

type publisherParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newPublisher(p publisherParams) (Publisher, error) {
	if len(p.Config.KafkaBrokers) == 0 {
		p.Logger.Info("order events disabled, no kafka brokers configured")
		return NopPublisher{}, nil
	}
	return NewKafkaPublisher(p.Config.KafkaBrokers, p.Config.OrderEventsTopic, p.Logger)
}

func registerLifecycle(lc fx.Lifecycle, publisher Publisher) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			publisher.Close()
			return nil
		},
	})
}
