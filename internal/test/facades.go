package test

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/puredesi/oilshop/internal/domain/model"
)

// AppliedEvent records one ApplyTrackingEvent invocation.
type AppliedEvent struct {
	Ref   string
	Event model.TrackingEvent
}

// WorkerFacadeStub mimics worker interactions with the commerce facade.
type WorkerFacadeStub struct {
	ShipmentBatches [][]model.Order
	TrackingBatches [][]model.Order
	RetryFn         func(context.Context, string) error
	TrackFn         func(context.Context, string) (*model.TrackingEvent, error)
	ApplyFn         func(context.Context, string, model.TrackingEvent) error

	mu            sync.Mutex
	Retried       []string
	Applied       []AppliedEvent
	shipmentCalls int32
	trackingCalls int32
}

// Lock exposes internal mutex for external synchronization.
func (s *WorkerFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *WorkerFacadeStub) Unlock() { s.mu.Unlock() }

// OrdersForShipmentRetry returns batches from the configured queue.
func (s *WorkerFacadeStub) OrdersForShipmentRetry(ctx context.Context, limit int) ([]model.Order, error) {
	call := atomic.AddInt32(&s.shipmentCalls, 1)
	if int(call) <= len(s.ShipmentBatches) {
		return s.ShipmentBatches[call-1], nil
	}
	return nil, nil
}

// OrdersForTracking returns batches from the configured queue.
func (s *WorkerFacadeStub) OrdersForTracking(ctx context.Context, limit int) ([]model.Order, error) {
	call := atomic.AddInt32(&s.trackingCalls, 1)
	if int(call) <= len(s.TrackingBatches) {
		return s.TrackingBatches[call-1], nil
	}
	time.Sleep(10 * time.Millisecond)
	return nil, nil
}

// RetryShipmentCreation records retried order references.
func (s *WorkerFacadeStub) RetryShipmentCreation(ctx context.Context, ref string) error {
	s.mu.Lock()
	s.Retried = append(s.Retried, ref)
	s.mu.Unlock()
	if s.RetryFn != nil {
		return s.RetryFn(ctx, ref)
	}
	return nil
}

// TrackShipment returns a transit event unless overridden.
func (s *WorkerFacadeStub) TrackShipment(ctx context.Context, shipmentRef string) (*model.TrackingEvent, error) {
	if s.TrackFn != nil {
		return s.TrackFn(ctx, shipmentRef)
	}
	return &model.TrackingEvent{RawStatus: "In Transit"}, nil
}

// ApplyTrackingEvent records applied events.
func (s *WorkerFacadeStub) ApplyTrackingEvent(ctx context.Context, ref string, event model.TrackingEvent) error {
	if s.ApplyFn != nil {
		return s.ApplyFn(ctx, ref, event)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Applied = append(s.Applied, AppliedEvent{Ref: ref, Event: event})
	return nil
}
