package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mycelium-catalog/mycelium/pkg/api/types/envelope"
	apierr "github.com/mycelium-catalog/mycelium/pkg/api/types/errors"
	"github.com/mycelium-catalog/mycelium/pkg/domain"
	domerr "github.com/mycelium-catalog/mycelium/pkg/domain/errors"
	"github.com/mycelium-catalog/mycelium/pkg/domain/template"
)

func ListTemplatesHandler(catalog template.Interface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		templates, err := catalog.List(ctx)
		if err != nil {
			return apierr.InternalServerError("Failed to retrieve templates", err)
		}
		if templates == nil {
			templates = []domain.Template{}
		}
		return c.JSON(
			http.StatusOK,
			envelope.New("Templates retrieved successfully", templates),
		)
	}
}

func GetTemplateHandler(catalog template.Interface, paramId string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		id := c.Param(paramId)

		t, err := catalog.Get(ctx, id)
		if err != nil {
			if errors.Is(err, domerr.ErrMissing) {
				return apierr.NotFound(fmt.Sprintf("Template not found: %s", id))
			}
			return apierr.InternalServerError("Failed to retrieve template", err)
		}
		return c.JSON(
			http.StatusOK,
			envelope.New("Template retrieved successfully", t),
		)
	}
}
