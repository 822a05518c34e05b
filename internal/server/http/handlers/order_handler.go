package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/puredesi/oilshop/internal/server/http/dto"
)

// OrderHandler processes order placement and lookup.
type OrderHandler struct {
	facade CheckoutFacade
}

// NewOrderHandler creates OrderHandler instance.
func NewOrderHandler(facade CheckoutFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Create handles POST /api/orders.
func (h *OrderHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	order, err := h.facade.CreateOrder(c.Request.Context(), req.Input())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toOrderResponse(order))
}

// Get handles GET /api/orders/:ref.
func (h *OrderHandler) Get(c *gin.Context) {
	ref := c.Param("ref")
	if ref == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	order, history, err := h.facade.Order(c.Request.Context(), ref)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OrderDetailResponse{
		Order:   toOrderResponse(order),
		History: toHistoryResponse(history),
	})
}
