package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/puredesi/oilshop/internal/server/http/handlers"
	"github.com/puredesi/oilshop/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.CommerceFacade, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	orderHandler := handlers.NewOrderHandler(facade)
	paymentHandler := handlers.NewPaymentHandler(facade)
	deliveryHandler := handlers.NewDeliveryHandler(facade)
	adminHandler := handlers.NewAdminHandler(facade)

	api := engine.Group("/api")
	api.POST("/orders", orderHandler.Create)
	api.GET("/orders/:ref", orderHandler.Get)
	api.POST("/payments/create", paymentHandler.CreateSession)
	api.POST("/payments/verify", paymentHandler.Verify)

	delivery := api.Group("/delivery")
	delivery.GET("/check-pincode/:pincode", deliveryHandler.CheckPincode)
	delivery.POST("/calculate-shipping", deliveryHandler.CalculateShipping)
	delivery.GET("/track/:ref", deliveryHandler.Track)
	delivery.POST("/webhook/:ref", deliveryHandler.Webhook)

	admin := api.Group("/admin")
	admin.POST("/login", adminHandler.Login)

	adminAuth := admin.Group("")
	adminAuth.Use(middleware.AuthRequired(facade))
	adminAuth.POST("/orders/:ref/ship", adminHandler.Ship)
	adminAuth.POST("/orders/:ref/cancel", adminHandler.Cancel)

	return engine
}
