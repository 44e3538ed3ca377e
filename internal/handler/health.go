package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health returns a health-check handler used by load balancers and
// monitoring systems to verify that the service is running. It reports the
// configured service name alongside a static "healthy" status.
func Health(serviceName string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"status":  "healthy",
			"service": serviceName,
		})
	}
}
