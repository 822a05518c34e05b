package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/puredesi/oilshop/internal/domain/errors"
	"github.com/puredesi/oilshop/internal/server/http/dto"
	"github.com/puredesi/oilshop/internal/server/http/middleware"
)

// AdminHandler processes admin login and manual lifecycle interventions.
type AdminHandler struct {
	facade AdminFacade
}

// NewAdminHandler creates AdminHandler instance.
func NewAdminHandler(facade AdminFacade) *AdminHandler {
	return &AdminHandler{facade: facade}
}

// Login handles POST /api/admin/login.
func (h *AdminHandler) Login(c *gin.Context) {
	var req dto.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	token, err := h.facade.AuthenticateAdmin(req.Login, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrInvalidCredentials):
			c.Status(http.StatusUnauthorized)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	middleware.SetAuthCookie(c, token)
	c.Status(http.StatusOK)
}

// Ship handles POST /api/admin/orders/:ref/ship.
func (h *AdminHandler) Ship(c *gin.Context) {
	result, err := h.facade.ShipOrder(c.Request.Context(), c.Param("ref"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toResultResponse(result))
}

// Cancel handles POST /api/admin/orders/:ref/cancel.
func (h *AdminHandler) Cancel(c *gin.Context) {
	var req dto.CancelOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	if req.Reason == "" {
		req.Reason = "cancelled by " + CurrentAdmin(c)
	}

	result, err := h.facade.CancelOrder(c.Request.Context(), c.Param("ref"), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toResultResponse(result))
}
