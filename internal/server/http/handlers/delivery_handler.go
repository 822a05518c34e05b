package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/puredesi/oilshop/internal/domain/model"
	"github.com/puredesi/oilshop/internal/server/http/dto"
)

// DeliveryHandler processes serviceability checks, shipping estimates, and
// courier webhook pushes.
type DeliveryHandler struct {
	facade DeliveryFacade
}

// NewDeliveryHandler creates DeliveryHandler instance.
func NewDeliveryHandler(facade DeliveryFacade) *DeliveryHandler {
	return &DeliveryHandler{facade: facade}
}

// CheckPincode handles GET /api/delivery/check-pincode/:pincode.
func (h *DeliveryHandler) CheckPincode(c *gin.Context) {
	quote, err := h.facade.CheckPincode(c.Request.Context(), c.Param("pincode"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.PincodeResponse{
		Serviceable:   quote.Serviceable,
		Pincode:       quote.Pincode,
		City:          quote.City,
		State:         quote.State,
		CODAvailable:  quote.CODAvailable,
		EstimatedDays: quote.EstimatedDays,
		CourierName:   quote.CourierName,
	})
}

// CalculateShipping handles POST /api/delivery/calculate-shipping.
func (h *DeliveryHandler) CalculateShipping(c *gin.Context) {
	var req dto.ShippingEstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	charge, err := h.facade.EstimateShipping(c.Request.Context(), req.Pincode, req.Subtotal, req.Weight, req.COD)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ShippingEstimateResponse{ShippingCharge: charge})
}

// Track handles GET /api/delivery/track/:ref.
func (h *DeliveryHandler) Track(c *gin.Context) {
	order, history, err := h.facade.TrackOrder(c.Request.Context(), c.Param("ref"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TrackOrderResponse{
		Ref:               order.Ref,
		FulfillmentStatus: string(order.FulfillmentStatus),
		CourierName:       order.CourierName,
		AWBCode:           order.AWBCode,
		TrackingURL:       order.TrackingURL,
		DeliveredAt:       order.DeliveredAt,
		History:           toHistoryResponse(history),
	})
}

// Webhook handles POST /api/delivery/webhook/:ref.
func (h *DeliveryHandler) Webhook(c *gin.Context) {
	var req dto.TrackingWebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Status == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	timestamp := req.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now().UTC()
	}

	result, err := h.facade.ApplyTracking(c.Request.Context(), c.Param("ref"), model.TrackingEvent{
		RawStatus:   req.Status,
		Location:    req.Location,
		Description: req.Description,
		Timestamp:   timestamp,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toResultResponse(result))
}
