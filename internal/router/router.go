// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/alxtravel/travel-booking-api/internal/handler"
)

// Handlers bundles everything the router needs to register the API surface.
type Handlers struct {
	ServiceName string
	Listings    *handler.ListingHandler
	Bookings    *handler.BookingHandler
	Reviews     *handler.ReviewHandler
	Payments    *handler.PaymentHandler
}

// RegisterRoutes registers the health check and the /api endpoints. The
// optional cache middleware (Redis response cache) is applied to the /api
// group; it only acts on the configured methods.
func RegisterRoutes(e *echo.Echo, h Handlers, cache ...echo.MiddlewareFunc) {
	// Health check for load balancers and monitoring.
	e.GET("/health/", handler.Health(h.ServiceName))

	api := e.Group("/api", cache...)

	// Listings: full CRUD, plus nested reviews.
	api.GET("/listings/", h.Listings.List)
	api.POST("/listings/", h.Listings.Create)
	api.GET("/listings/:id/", h.Listings.Get)
	api.PUT("/listings/:id/", h.Listings.Update)
	api.DELETE("/listings/:id/", h.Listings.Delete)
	api.GET("/listings/:id/reviews/", h.Reviews.List)
	api.POST("/listings/:id/reviews/", h.Reviews.Create)

	// Bookings: create persists the row then enqueues the confirmation email.
	api.GET("/bookings/", h.Bookings.List)
	api.POST("/bookings/", h.Bookings.Create)
	api.GET("/bookings/:id/", h.Bookings.Get)

	// Payments: initialize/verify round trip against the Chapa gateway.
	api.POST("/payments/initialize/", h.Payments.Initialize)
	api.GET("/payments/verify/", h.Payments.Verify)
}
