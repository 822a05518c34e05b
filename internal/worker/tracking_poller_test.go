package worker

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/puredesi/oilshop/internal/adapter/shiprocket"
	"github.com/puredesi/oilshop/internal/domain/model"
	testhelpers "github.com/puredesi/oilshop/internal/test"
)

func TestNewTrackingPollerDefaults(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	poller := NewTrackingPoller(&testhelpers.WorkerFacadeStub{}, time.Second, 0, 0, logger)
	if poller.batchSize != 1 {
		t.Fatalf("expected batch size default to 1, got %d", poller.batchSize)
	}
	if poller.workers != 1 {
		t.Fatalf("expected workers default to 1, got %d", poller.workers)
	}
}

func TestTrackingPollerRetriesShipments(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	facade := &testhelpers.WorkerFacadeStub{
		ShipmentBatches: [][]model.Order{{{ID: 1, Ref: "PD1", FulfillmentStatus: model.FulfillmentStatusConfirmed}}},
	}
	poller := NewTrackingPoller(facade, 10*time.Millisecond, 1, 1, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	poller.Start(ctx)

	deadline := time.After(500 * time.Millisecond)
	for {
		facade.Lock()
		retried := len(facade.Retried) > 0
		facade.Unlock()
		if retried {
			break
		}
		select {
		case <-deadline:
			t.Fatal("timeout waiting for shipment retry")
		case <-time.After(10 * time.Millisecond):
		}
	}

	poller.Stop()
	facade.Lock()
	defer facade.Unlock()
	if facade.Retried[0] != "PD1" {
		t.Fatalf("retried %v, want PD1", facade.Retried)
	}
}

func TestTrackingPollerAppliesTrackingEvents(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	facade := &testhelpers.WorkerFacadeStub{
		TrackingBatches: [][]model.Order{{{ID: 1, Ref: "PD1", ShipmentRef: "ship-1", FulfillmentStatus: model.FulfillmentStatusProcessing}}},
	}
	poller := NewTrackingPoller(facade, 10*time.Millisecond, 1, 2, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	poller.Start(ctx)

	deadline := time.After(500 * time.Millisecond)
	for {
		facade.Lock()
		applied := len(facade.Applied) > 0
		facade.Unlock()
		if applied {
			break
		}
		select {
		case <-deadline:
			t.Fatal("timeout waiting for tracking event")
		case <-time.After(10 * time.Millisecond):
		}
	}

	poller.Stop()
	facade.Lock()
	defer facade.Unlock()
	if facade.Applied[0].Ref != "PD1" || facade.Applied[0].Event.RawStatus != "In Transit" {
		t.Fatalf("unexpected applied event %+v", facade.Applied[0])
	}
}

func TestTrackingPollerHandlesRateLimiting(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	attempts := int32(0)
	facade := &testhelpers.WorkerFacadeStub{
		TrackingBatches: [][]model.Order{
			{{ID: 1, Ref: "PD1", ShipmentRef: "ship-1"}},
			{{ID: 1, Ref: "PD1", ShipmentRef: "ship-1"}},
		},
		TrackFn: func(ctx context.Context, shipmentRef string) (*model.TrackingEvent, error) {
			if atomic.AddInt32(&attempts, 1) == 1 {
				return nil, shiprocket.TooManyRequestsError{RetryAfter: 10 * time.Millisecond}
			}
			return &model.TrackingEvent{RawStatus: "Out For Delivery"}, nil
		},
	}

	poller := NewTrackingPoller(facade, 5*time.Millisecond, 1, 1, logger)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	poller.Start(ctx)

	deadline := time.After(time.Second)
	for {
		facade.Lock()
		if len(facade.Applied) > 0 {
			facade.Unlock()
			break
		}
		facade.Unlock()
		select {
		case <-deadline:
			t.Fatal("timeout waiting for retry after rate limit")
		case <-time.After(10 * time.Millisecond):
		}
	}
	poller.Stop()
}
