package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/mycelium-catalog/mycelium/pkg/api/types/envelope"
	apierr "github.com/mycelium-catalog/mycelium/pkg/api/types/errors"
	"github.com/mycelium-catalog/mycelium/pkg/domain"
	"github.com/mycelium-catalog/mycelium/pkg/domain/datacontract"
)

func CreateDataContractHandler(svc datacontract.Interface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		body, err := readJSON(c)
		if err != nil {
			return err
		}
		if emptyId(body) {
			return apierr.BadRequest("Data contract ID is required", nil)
		}

		dc, err := domain.ParseDataContract(body)
		if err != nil {
			if he := invalidRequest(err); he != nil {
				return he
			}
			return apierr.InternalServerError("Failed to create data contract", err)
		}

		created, err := svc.Create(ctx, dc)
		if err != nil {
			return dataContractError(err, "create", dc.Id)
		}
		return c.JSON(
			http.StatusCreated,
			envelope.New("Data contract created successfully", created),
		)
	}
}

// emptyId is true for a JSON object whose "id" is an empty string.
//
// Other kinds of problems, including an absent or null "id", are left to validation.
func emptyId(body []byte) bool {
	var probe struct {
		Id *string `json:"id"`
	}
	if err := json.Unmarshal(body, &probe); err != nil {
		return false
	}
	return probe.Id != nil && *probe.Id == ""
}

func GetDataContractHandler(svc datacontract.Interface, paramId string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		id := c.Param(paramId)

		dc, err := svc.Get(ctx, id)
		if err != nil {
			return dataContractError(err, "retrieve", id)
		}
		return c.JSON(
			http.StatusOK,
			envelope.New("Data contract retrieved successfully", dc),
		)
	}
}

func ListDataContractsHandler(svc datacontract.Interface) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		dcs, err := svc.List(ctx)
		if err != nil {
			return apierr.InternalServerError("Failed to retrieve data contracts", err)
		}
		if dcs == nil {
			dcs = []*domain.DataContract{}
		}
		return c.JSON(
			http.StatusOK,
			envelope.New("Data contracts retrieved successfully", dcs),
		)
	}
}

func UpdateDataContractHandler(svc datacontract.Interface, paramId string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		id := c.Param(paramId)

		body, err := readJSON(c)
		if err != nil {
			return err
		}

		patch, err := domain.ParseDataContractPatch(body)
		if err != nil {
			if he := invalidRequest(err); he != nil {
				return he
			}
			return apierr.InternalServerError("Failed to update data contract", err)
		}
		if bodyId, ok := patch.Id.Get(); ok && bodyId != id {
			return apierr.UnprocessableEntity(
				[]apierr.FieldError{{
					Loc:  []string{domain.LocBody, "id"},
					Msg:  "Input should be the same as the id in the path",
					Type: "value_error",
				}},
				nil,
			)
		}

		updated, err := svc.Update(ctx, id, patch)
		if err != nil {
			return dataContractError(err, "update", id)
		}
		return c.JSON(
			http.StatusOK,
			envelope.New("Data contract updated successfully", updated),
		)
	}
}

func DeleteDataContractHandler(svc datacontract.Interface, paramId string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		id := c.Param(paramId)

		deleted, err := svc.Delete(ctx, id)
		if err != nil {
			return dataContractError(err, "delete", id)
		}
		return c.JSON(
			http.StatusOK,
			envelope.New("Data contract deleted successfully", deleted),
		)
	}
}
