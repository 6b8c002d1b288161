package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mycelium-catalog/mycelium/pkg/api/types/health"
)

// Prober checks a backing service is reachable.
type Prober interface {
	Probe(context.Context) error
}

// DirectoryChecker checks a directory is accessible.
type DirectoryChecker interface {
	CheckDirectory() error
}

// HealthHandler responds 200 when the database is reachable, and 503 otherwise.
//
// An inaccessible templates directory is reported, but it does not make the service unhealthy.
func HealthHandler(db Prober, templates DirectoryChecker, version string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		if err := db.Probe(ctx); err != nil {
			c.Logger().Errorf("health check failed: %s", err)
			return c.JSON(
				http.StatusServiceUnavailable,
				health.Health{
					Status: health.StatusUnhealthy,
					Code:   health.CodeServiceUnavailable,
				},
			)
		}

		dir := health.DirectoryOk
		if err := templates.CheckDirectory(); err != nil {
			c.Logger().Warnf("templates directory is not accessible: %s", err)
			dir = health.DirectoryError
		}

		return c.JSON(http.StatusOK, health.Health{
			Status:             health.StatusHealthy,
			Database:           health.DatabaseConnected,
			TemplatesDirectory: dir,
			Version:            version,
		})
	}
}
