package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/puredesi/oilshop/internal/server/http/dto"
	"github.com/puredesi/oilshop/internal/usecase"
)

// PaymentHandler processes gateway session creation and payment verification.
type PaymentHandler struct {
	facade PaymentFacade
}

// NewPaymentHandler creates PaymentHandler instance.
func NewPaymentHandler(facade PaymentFacade) *PaymentHandler {
	return &PaymentHandler{facade: facade}
}

// CreateSession handles POST /api/payments/create.
func (h *PaymentHandler) CreateSession(c *gin.Context) {
	var req dto.PaymentSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.OrderRef == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	session, err := h.facade.CreatePaymentSession(c.Request.Context(), req.OrderRef)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.PaymentSessionResponse{
		GatewayOrderRef: session.Ref,
		Amount:          session.Amount,
		Currency:        session.Currency,
		KeyID:           session.KeyID,
	})
}

// Verify handles POST /api/payments/verify.
func (h *PaymentHandler) Verify(c *gin.Context) {
	var req dto.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.OrderRef == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	result, err := h.facade.VerifyPayment(c.Request.Context(), req.OrderRef, usecase.PaymentProof{
		GatewayOrderRef: req.GatewayOrderRef,
		PaymentRef:      req.PaymentRef,
		Signature:       req.Signature,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toResultResponse(result))
}
