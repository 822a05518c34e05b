package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/puredesi/oilshop/internal/adapter/shiprocket"
	domainErrors "github.com/puredesi/oilshop/internal/domain/errors"
	"github.com/puredesi/oilshop/internal/domain/model"
)

// CommerceFacade exposes the subset of application functionality required by the worker.
type CommerceFacade interface {
	OrdersForShipmentRetry(ctx context.Context, limit int) ([]model.Order, error)
	OrdersForTracking(ctx context.Context, limit int) ([]model.Order, error)
	RetryShipmentCreation(ctx context.Context, ref string) error
	TrackShipment(ctx context.Context, shipmentRef string) (*model.TrackingEvent, error)
	ApplyTrackingEvent(ctx context.Context, ref string, event model.TrackingEvent) error
}

type jobKind int

const (
	jobShipmentRetry jobKind = iota
	jobTrackingPoll
)

type job struct {
	kind  jobKind
	order model.Order
}

// TrackingPoller drives the background half of reconciliation: it retries
// shipment creation for confirmed orders and folds courier tracking updates
// into order state, concurrently across orders.
type TrackingPoller struct {
	facade       CommerceFacade
	pollInterval time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	jobs   chan job
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewTrackingPoller constructs the poller worker pool.
func NewTrackingPoller(facade CommerceFacade, pollInterval time.Duration, batchSize, workers int, logger *slog.Logger) *TrackingPoller {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &TrackingPoller{
		facade:       facade,
		pollInterval: pollInterval,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		jobs:         make(chan job, 2*batchSize*workers),
	}
}

// Start launches background processing.
func (p *TrackingPoller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(runCtx)
	}

	p.wg.Add(1)
	go p.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (p *TrackingPoller) Stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *TrackingPoller) dispatch(ctx context.Context) {
	defer p.wg.Done()
	defer close(p.jobs)
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.fetchAndDispatch(ctx)
		}
	}
}

func (p *TrackingPoller) fetchAndDispatch(ctx context.Context) {
	pending, err := p.facade.OrdersForShipmentRetry(ctx, p.batchSize)
	if err != nil {
		p.logger.Error("fetch shipment-pending orders failed", slog.String("error", err.Error()))
	} else {
		p.enqueue(ctx, jobShipmentRetry, pending)
	}

	trackable, err := p.facade.OrdersForTracking(ctx, p.batchSize)
	if err != nil {
		p.logger.Error("fetch trackable orders failed", slog.String("error", err.Error()))
		return
	}
	p.enqueue(ctx, jobTrackingPoll, trackable)
}

func (p *TrackingPoller) enqueue(ctx context.Context, kind jobKind, orders []model.Order) {
	for _, order := range orders {
		select {
		case <-ctx.Done():
			return
		case p.jobs <- job{kind: kind, order: order}:
		}
	}
}

func (p *TrackingPoller) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case j, ok := <-p.jobs:
			if !ok {
				return
			}
			switch j.kind {
			case jobShipmentRetry:
				p.retryShipment(ctx, j.order)
			case jobTrackingPoll:
				p.pollTracking(ctx, j.order)
			}
		}
	}
}

func (p *TrackingPoller) retryShipment(ctx context.Context, order model.Order) {
	if err := p.facade.RetryShipmentCreation(ctx, order.Ref); err != nil {
		p.logger.Error("shipment retry failed", slog.String("order", order.Ref), slog.String("error", err.Error()))
	}
}

func (p *TrackingPoller) pollTracking(ctx context.Context, order model.Order) {
	event, err := p.facade.TrackShipment(ctx, order.ShipmentRef)
	if err != nil {
		switch e := err.(type) {
		case shiprocket.TooManyRequestsError:
			p.logger.Warn("tracking rate limited", slog.Duration("retry_after", e.RetryAfter))
			time.Sleep(e.RetryAfter)
		default:
			if domainErrors.IsAdapterUnavailable(err) {
				p.logger.Warn("shipment provider unavailable", slog.String("order", order.Ref))
				return
			}
			p.logger.Error("tracking fetch failed", slog.String("order", order.Ref), slog.String("error", err.Error()))
		}
		return
	}

	if err := p.facade.ApplyTrackingEvent(ctx, order.Ref, *event); err != nil {
		p.logger.Error("apply tracking event failed", slog.String("order", order.Ref), slog.String("error", err.Error()))
	}
}
