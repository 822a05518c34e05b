package test

import (
	"context"
	"sync"
	"time"

	domainErrors "github.com/puredesi/oilshop/internal/domain/errors"
	"github.com/puredesi/oilshop/internal/domain/model"
	"github.com/puredesi/oilshop/internal/domain/repository"
)

// TransitionCall records one ApplyTransition invocation.
type TransitionCall struct {
	Ref     string
	Update  repository.StatusUpdate
	Entries []model.HistoryEntry
}

// OrderRepositoryStub keeps orders in memory and applies transitions the way
// the real store does, so reconciler tests can run full scenarios. Function
// overrides let individual tests inject failures.
type OrderRepositoryStub struct {
	CreateFn                func(context.Context, *model.Order, model.HistoryEntry) (*model.Order, error)
	GetByRefFn              func(context.Context, string) (*model.Order, error)
	HistoryFn               func(context.Context, string) ([]model.HistoryEntry, error)
	SelectShipmentPendingFn func(context.Context, int) ([]model.Order, error)
	SelectForTrackingFn     func(context.Context, int) ([]model.Order, error)
	ApplyTransitionFn       func(context.Context, string, repository.StatusUpdate, []model.HistoryEntry) error

	mu          sync.Mutex
	orders      map[string]*model.Order
	entries     map[string][]model.HistoryEntry
	nextID      int64
	Transitions []TransitionCall
}

// NewOrderRepositoryStub constructs an empty in-memory repository.
func NewOrderRepositoryStub() *OrderRepositoryStub {
	return &OrderRepositoryStub{
		orders:  make(map[string]*model.Order),
		entries: make(map[string][]model.HistoryEntry),
		nextID:  1,
	}
}

// Seed stores an order directly, bypassing Create.
func (s *OrderRepositoryStub) Seed(order *model.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if order.ID == 0 {
		order.ID = s.nextID
		s.nextID++
	}
	copied := *order
	s.orders[order.Ref] = &copied
}

// Create stores the order with its initial history entry.
func (s *OrderRepositoryStub) Create(ctx context.Context, order *model.Order, entry model.HistoryEntry) (*model.Order, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, order, entry)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.orders[order.Ref]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	copied := *order
	copied.ID = s.nextID
	s.nextID++
	copied.CreatedAt = entry.CreatedAt
	copied.UpdatedAt = entry.CreatedAt
	s.orders[order.Ref] = &copied
	s.entries[order.Ref] = append(s.entries[order.Ref], entry)
	result := copied
	return &result, nil
}

// GetByRef returns a copy of the stored order or not found.
func (s *OrderRepositoryStub) GetByRef(ctx context.Context, ref string) (*model.Order, error) {
	if s.GetByRefFn != nil {
		return s.GetByRefFn(ctx, ref)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[ref]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	copied := *order
	return &copied, nil
}

// History returns the recorded entries in append order.
func (s *OrderRepositoryStub) History(ctx context.Context, ref string) ([]model.HistoryEntry, error) {
	if s.HistoryFn != nil {
		return s.HistoryFn(ctx, ref)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.HistoryEntry(nil), s.entries[ref]...), nil
}

// SelectShipmentPending scans for confirmed/processing orders without a
// shipment reference.
func (s *OrderRepositoryStub) SelectShipmentPending(ctx context.Context, limit int) ([]model.Order, error) {
	if s.SelectShipmentPendingFn != nil {
		return s.SelectShipmentPendingFn(ctx, limit)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Order
	for _, order := range s.orders {
		eligible := order.FulfillmentStatus == model.FulfillmentStatusConfirmed ||
			order.FulfillmentStatus == model.FulfillmentStatusProcessing
		if eligible && order.ShipmentRef == "" && len(out) < limit {
			out = append(out, *order)
		}
	}
	return out, nil
}

// SelectForTracking scans for processing/shipped orders with a shipment ref.
func (s *OrderRepositoryStub) SelectForTracking(ctx context.Context, limit int) ([]model.Order, error) {
	if s.SelectForTrackingFn != nil {
		return s.SelectForTrackingFn(ctx, limit)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Order
	for _, order := range s.orders {
		eligible := order.FulfillmentStatus == model.FulfillmentStatusProcessing ||
			order.FulfillmentStatus == model.FulfillmentStatusShipped
		if eligible && order.ShipmentRef != "" && len(out) < limit {
			out = append(out, *order)
		}
	}
	return out, nil
}

// ApplyTransition mutates the stored order and appends the entries, recording
// the call for assertions.
func (s *OrderRepositoryStub) ApplyTransition(ctx context.Context, ref string, update repository.StatusUpdate, entries []model.HistoryEntry) error {
	if s.ApplyTransitionFn != nil {
		return s.ApplyTransitionFn(ctx, ref, update, entries)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[ref]
	if !ok {
		return domainErrors.ErrNotFound
	}
	order.PaymentStatus = update.PaymentStatus
	order.FulfillmentStatus = update.FulfillmentStatus
	if update.GatewayOrderRef != nil {
		order.GatewayOrderRef = *update.GatewayOrderRef
	}
	if update.PaymentRef != nil {
		order.PaymentRef = *update.PaymentRef
	}
	if update.ShipmentRef != nil {
		order.ShipmentRef = *update.ShipmentRef
	}
	if update.AWBCode != nil {
		order.AWBCode = *update.AWBCode
	}
	if update.CourierName != nil {
		order.CourierName = *update.CourierName
	}
	if update.TrackingURL != nil {
		order.TrackingURL = *update.TrackingURL
	}
	if update.DeliveredAt != nil {
		order.DeliveredAt = update.DeliveredAt
	}
	order.UpdatedAt = time.Now().UTC()
	s.entries[ref] = append(s.entries[ref], entries...)
	s.Transitions = append(s.Transitions, TransitionCall{Ref: ref, Update: update, Entries: entries})
	return nil
}
