package main

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/mycelium-catalog/mycelium/cmd/myceliumd/handlers"
	apierr "github.com/mycelium-catalog/mycelium/pkg/api/types/errors"
	"github.com/mycelium-catalog/mycelium/pkg/buildtime"
	"github.com/mycelium-catalog/mycelium/pkg/configs/server"
	"github.com/mycelium-catalog/mycelium/pkg/domain/mycelium"
	"github.com/mycelium-catalog/mycelium/pkg/utils/echoutil"
)

const (
	paramId = "id"

	pathDataContracts = "/data-contracts/"
	pathTemplates     = "/templates/"
	pathHealth        = "/health/"
)

// BuildServer assembles routes and middlewares on m.
func BuildServer(m mycelium.Mycelium, conf *server.ServerConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	echoutil.SetLevel(e, conf.LogLevel())

	e.HTTPErrorHandler = func(err error, c echo.Context) {
		e.Logger.Error(err)
		if c.Response().Committed {
			return
		}
		if err := apierr.Render(err, c); err != nil {
			e.Logger.Error(err)
		}
	}

	e.Pre(middleware.AddTrailingSlash())

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(echoutil.LogHandlerFunc)
	e.Use(middleware.Recover())
	e.Use(echoutil.TrustedHosts(conf.AllowedHosts()))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     conf.AllowedOrigins(),
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowCredentials: true,
		MaxAge:           3600,
	}))
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{MinLength: 1000}))
	e.Use(middleware.BodyLimit("4M"))
	if secret := conf.AuthSecret(); secret != "" {
		e.Use(echoutil.BearerAuth([]byte(secret), func(c echo.Context) bool {
			return c.Path() == pathHealth || c.Request().Method == http.MethodOptions
		}))
	}

	{
		svc := m.DataContract()
		e.POST(pathDataContracts, handlers.CreateDataContractHandler(svc))
		e.GET(pathDataContracts, handlers.ListDataContractsHandler(svc))
		e.GET(pathDataContracts+":"+paramId+"/", handlers.GetDataContractHandler(svc, paramId))
		e.PUT(pathDataContracts+":"+paramId+"/", handlers.UpdateDataContractHandler(svc, paramId))
		e.DELETE(pathDataContracts+":"+paramId+"/", handlers.DeleteDataContractHandler(svc, paramId))
	}

	{
		catalog := m.Template()
		e.GET(pathTemplates, handlers.ListTemplatesHandler(catalog))
		e.GET(pathTemplates+":"+paramId+"/", handlers.GetTemplateHandler(catalog, paramId))
	}

	e.GET(pathHealth, handlers.HealthHandler(m, m.Template(), buildtime.VERSION()))

	return e
}
