package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/99minutos/carrier-gateway/internal/api/handler"
	"github.com/99minutos/carrier-gateway/internal/api/middleware"
	"github.com/99minutos/carrier-gateway/internal/core/service"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(registry *service.Registry, refresher handler.RefreshEnqueuer, jwtSecret string, carrierTest bool, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("carrier_gateway"))

	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(registry)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – is any carrier registered?

	// --- Carrier routes ---
	carrierHandler := handler.NewCarrierHandler(registry, refresher, carrierTest, log)

	v1 := e.Group("/v1", middleware.Auth(jwtSecret))
	read := v1.Group("", middleware.RBAC("client", "ops", "admin"))
	write := v1.Group("", middleware.RBAC("ops", "admin"))

	read.POST("/carriers/:carrier/rates", carrierHandler.Rates)
	read.GET("/carriers/:carrier/tracking/:tracking_number", carrierHandler.Tracking)
	read.POST("/carriers/:carrier/tracking/refresh", carrierHandler.RefreshTracking)
	read.POST("/carriers/:carrier/addresses/validate", carrierHandler.ValidateAddresses)
	read.POST("/carriers/:carrier/addresses/verify", carrierHandler.VerifyAddress)
	read.POST("/carriers/:carrier/pickups/availability", carrierHandler.PickupAvailability)

	write.POST("/carriers/:carrier/pickups", carrierHandler.Dispatch)
	write.DELETE("/carriers/:carrier/pickups/:confirmation_number", carrierHandler.DispatchCancel)
	write.POST("/carriers/:carrier/shipments", carrierHandler.CreateShipment)
	write.DELETE("/carriers/:carrier/shipments/:shipment_id", carrierHandler.CancelShipment)

	return e
}
