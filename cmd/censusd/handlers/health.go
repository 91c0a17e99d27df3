package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	apicensus "github.com/v6census/v6census/pkg/api/types/census"
	kdb "github.com/v6census/v6census/pkg/domain/census/db"
)

// HealthHandler reports liveness. With a snapshot store configured it
// also pings the store; a failing ping degrades the report to 503.
func HealthHandler(db kdb.Database) echo.HandlerFunc {
	return func(c echo.Context) error {
		health := apicensus.Health{Status: "ok", Store: "off"}
		if db == nil {
			return c.JSON(http.StatusOK, health)
		}

		ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			health.Status = "degraded"
			health.Store = err.Error()
			return c.JSON(http.StatusServiceUnavailable, health)
		}

		health.Store = "ok"
		return c.JSON(http.StatusOK, health)
	}
}
