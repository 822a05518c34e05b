package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/puredesi/oilshop/internal/adapter/shiprocket"
	"github.com/puredesi/oilshop/internal/config"
	"github.com/puredesi/oilshop/internal/usecase"
	"github.com/puredesi/oilshop/internal/worker"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		newFacade,
		newHTTPServer,
		newTrackingPoller,
	),
	fx.Invoke(registerLifecycle),
)

type facadeParams struct {
	fx.In

	Checkout   *usecase.CheckoutUseCase
	Reconciler *usecase.Reconciler
	Queries    *usecase.OrderQueryUseCase
	Admin      *usecase.AdminAuthUseCase
	Shipper    shiprocket.Client
}

func newFacade(p facadeParams) *CommerceFacade {
	return NewCommerceFacade(p.Checkout, p.Reconciler, p.Queries, p.Admin, p.Shipper)
}

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:    p.Config.RunAddress,
		Handler: p.Router,
	}
}

type workerParams struct {
	fx.In

	Facade *CommerceFacade
	Config *config.Config
	Logger *slog.Logger
}

func newTrackingPoller(p workerParams) *worker.TrackingPoller {
	return worker.NewTrackingPoller(
		p.Facade,
		p.Config.TrackingPollInterval,
		p.Config.PollBatchSize,
		p.Config.WorkerPoolSize,
		p.Logger,
	)
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Worker     *worker.TrackingPoller
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Info("starting oilshop", slog.String("addr", p.Server.Addr))
			p.Worker.Start(ctx)
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			p.Worker.Stop()

			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			if err := p.Server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Logger.Info("oilshop stopped")
			return nil
		},
	})
}
