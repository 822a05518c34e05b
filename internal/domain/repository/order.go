package repository

import (
	"context"
	"time"

	"github.com/puredesi/oilshop/internal/domain/model"
)

// StatusUpdate carries the fields a reconciler transition may change. Nil
// pointers leave the stored value untouched.
type StatusUpdate struct {
	PaymentStatus     model.PaymentStatus
	FulfillmentStatus model.FulfillmentStatus
	GatewayOrderRef   *string
	PaymentRef        *string
	ShipmentRef       *string
	AWBCode           *string
	CourierName       *string
	TrackingURL       *string
	DeliveredAt       *time.Time
}

// OrderRepository describes persistence operations with orders and their
// append-only history.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order, entry model.HistoryEntry) (*model.Order, error)
	GetByRef(ctx context.Context, ref string) (*model.Order, error)
	History(ctx context.Context, ref string) ([]model.HistoryEntry, error)
	// SelectShipmentPending returns confirmed/processing orders still
	// missing a shipment reference, eligible for a creation retry.
	SelectShipmentPending(ctx context.Context, limit int) ([]model.Order, error)
	// SelectForTracking returns processing/shipped orders with a shipment
	// reference whose courier feed should be polled.
	SelectForTracking(ctx context.Context, limit int) ([]model.Order, error)
	// ApplyTransition persists a status update together with its history
	// entries in a single transaction.
	ApplyTransition(ctx context.Context, ref string, update StatusUpdate, entries []model.HistoryEntry) error
}
