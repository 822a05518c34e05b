package usecase

import (
	"context"

	"github.com/puredesi/oilshop/internal/domain/model"
	"github.com/puredesi/oilshop/internal/domain/repository"
)

// OrderQueryUseCase serves read-only order lookups for the HTTP surface and
// the background poller.
type OrderQueryUseCase struct {
	orders repository.OrderRepository
}

// NewOrderQueryUseCase constructs OrderQueryUseCase.
func NewOrderQueryUseCase(orders repository.OrderRepository) *OrderQueryUseCase {
	return &OrderQueryUseCase{orders: orders}
}

// Get returns the order snapshot together with its audit history.
func (u *OrderQueryUseCase) Get(ctx context.Context, ref string) (*model.Order, []model.HistoryEntry, error) {
	order, err := u.orders.GetByRef(ctx, ref)
	if err != nil {
		return nil, nil, err
	}
	history, err := u.orders.History(ctx, ref)
	if err != nil {
		return nil, nil, err
	}
	return order, history, nil
}

// SelectShipmentPending returns orders awaiting a shipment creation retry.
func (u *OrderQueryUseCase) SelectShipmentPending(ctx context.Context, limit int) ([]model.Order, error) {
	return u.orders.SelectShipmentPending(ctx, limit)
}

// SelectForTracking returns orders whose courier feed should be polled.
func (u *OrderQueryUseCase) SelectForTracking(ctx context.Context, limit int) ([]model.Order, error) {
	return u.orders.SelectForTracking(ctx, limit)
}
