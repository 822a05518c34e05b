package di

import (
	"go.uber.org/fx"

	"github.com/puredesi/oilshop/internal/adapter/events"
	"github.com/puredesi/oilshop/internal/adapter/razorpay"
	"github.com/puredesi/oilshop/internal/adapter/shiprocket"
	"github.com/puredesi/oilshop/internal/app"
	"github.com/puredesi/oilshop/internal/config"
	"github.com/puredesi/oilshop/internal/logger"
	"github.com/puredesi/oilshop/internal/pkg/auth"
	"github.com/puredesi/oilshop/internal/server/http/handlers"
	"github.com/puredesi/oilshop/internal/server/http/router"
	"github.com/puredesi/oilshop/internal/storage/postgres"
	"github.com/puredesi/oilshop/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		razorpay.Module,
		shiprocket.Module,
		events.Module,
		usecase.Module,
		fx.Provide(func(facade *app.CommerceFacade) handlers.CommerceFacade { return facade }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
