package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/puredesi/oilshop/internal/domain/errors"
	"github.com/puredesi/oilshop/internal/domain/model"
	"github.com/puredesi/oilshop/internal/server/http/dto"
	"github.com/puredesi/oilshop/internal/server/http/middleware"
	"github.com/puredesi/oilshop/internal/usecase"
)

// CurrentAdmin returns the authenticated admin subject stored by the auth
// middleware, or empty string when not set.
func CurrentAdmin(c *gin.Context) string {
	value, ok := c.Get(middleware.AdminContextKey)
	if !ok {
		return ""
	}
	subject, _ := value.(string)
	return subject
}

// respondError maps domain errors to HTTP statuses. Lifecycle conflicts are
// 409 so callers can distinguish them from bad input.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainErrors.ErrValidation):
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domainErrors.ErrNotFound):
		c.Status(http.StatusNotFound)
	case errors.Is(err, domainErrors.ErrVerificationFailed):
		c.JSON(http.StatusPaymentRequired, dto.ErrorResponse{Error: err.Error()})
	case domainErrors.IsInvariantViolation(err):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
	case domainErrors.IsAdapterUnavailable(err):
		c.JSON(http.StatusBadGateway, dto.ErrorResponse{Error: err.Error()})
	default:
		c.Status(http.StatusInternalServerError)
	}
}

func toOrderResponse(order *model.Order) dto.OrderResponse {
	items := make([]dto.OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, dto.OrderItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Size:        item.Size,
			Unit:        item.Unit,
			Quantity:    item.Quantity,
			Price:       item.Price,
			Total:       item.Total,
		})
	}
	return dto.OrderResponse{
		Ref:               order.Ref,
		PaymentStatus:     string(order.PaymentStatus),
		FulfillmentStatus: string(order.FulfillmentStatus),
		PaymentMethod:     order.PaymentMethod,
		GatewayOrderRef:   order.GatewayOrderRef,
		PaymentRef:        order.PaymentRef,
		ShipmentRef:       order.ShipmentRef,
		AWBCode:           order.AWBCode,
		CourierName:       order.CourierName,
		TrackingURL:       order.TrackingURL,
		Address: dto.AddressPayload{
			Name:     order.Address.Name,
			Phone:    order.Address.Phone,
			Email:    order.Address.Email,
			Line:     order.Address.Line,
			City:     order.Address.City,
			State:    order.Address.State,
			Pincode:  order.Address.Pincode,
			Landmark: order.Address.Landmark,
		},
		Items:        items,
		Subtotal:     order.Subtotal,
		ShippingCost: order.ShippingCost,
		Total:        order.Total,
		CustomerNote: order.CustomerNote,
		DeliveredAt:  order.DeliveredAt,
		CreatedAt:    order.CreatedAt,
		UpdatedAt:    order.UpdatedAt,
	}
}

func toHistoryResponse(entries []model.HistoryEntry) []dto.HistoryEntryResponse {
	history := make([]dto.HistoryEntryResponse, 0, len(entries))
	for _, entry := range entries {
		history = append(history, dto.HistoryEntryResponse{
			Actor:     entry.Actor,
			FromState: entry.FromState,
			ToState:   entry.ToState,
			Note:      entry.Note,
			CreatedAt: entry.CreatedAt,
		})
	}
	return history
}

func toResultResponse(result *usecase.Result) dto.OrderResultResponse {
	return dto.OrderResultResponse{
		Order:       toOrderResponse(result.Order),
		PendingSync: result.PendingSync,
	}
}
