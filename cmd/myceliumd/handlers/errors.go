package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime"

	"github.com/labstack/echo/v4"
	apierr "github.com/mycelium-catalog/mycelium/pkg/api/types/errors"
	"github.com/mycelium-catalog/mycelium/pkg/domain"
	domerr "github.com/mycelium-catalog/mycelium/pkg/domain/errors"
)

// readJSON reads the request body, rejecting media types other than JSON.
//
// Requests without Content-Type are read as JSON.
func readJSON(c echo.Context) ([]byte, error) {
	req := c.Request()
	if ctyp := req.Header.Get(echo.HeaderContentType); ctyp != "" {
		mediatype, _, err := mime.ParseMediaType(ctyp)
		if err != nil || mediatype != echo.MIMEApplicationJSON {
			return nil, apierr.BadRequest(
				"unexpected content type. it should be application/json", err,
			)
		}
	}
	if req.Body == nil {
		return []byte{}, nil
	}
	body, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, apierr.BadRequest("can not read the request body", err)
	}
	return body, nil
}

// fieldErrors converts violations into the wire format.
func fieldErrors(verr *domain.ValidationError) []apierr.FieldError {
	ret := make([]apierr.FieldError, len(verr.Errors))
	for i, fe := range verr.Errors {
		ret[i] = apierr.FieldError{Loc: fe.Loc, Msg: fe.Msg, Type: fe.Type}
	}
	return ret
}

// invalidRequest maps errors found in request bodies into 400 or 422.
//
// It returns nil for other errors.
func invalidRequest(err error) *echo.HTTPError {
	if verr := new(domain.ValidationError); errors.As(err, &verr) {
		return apierr.UnprocessableEntity(fieldErrors(verr), err)
	}
	if errors.Is(err, domerr.ErrMalformed) {
		return apierr.BadRequest(fmt.Sprintf("Invalid data contract schema: %s", err), err)
	}
	return nil
}

// dataContractError maps errors from data contract operations into HTTP errors.
//
// operation is a verb used in the message of 500, like "create" or "retrieve".
// Internals of err are not shown to clients.
func dataContractError(err error, operation string, id string) *echo.HTTPError {
	switch {
	case errors.Is(err, domerr.ErrCorrupted):
		// corrupted rows are not the fault of requests, even if they fail validation.
	case errors.Is(err, domerr.ErrMissing):
		return apierr.NotFound(fmt.Sprintf("Data contract with id '%s' not found", id))
	case errors.Is(err, domerr.ErrConflict):
		return apierr.Conflict(fmt.Sprintf("Data contract with id '%s' already exists", id), err)
	default:
		if he := invalidRequest(err); he != nil {
			return he
		}
	}
	return apierr.InternalServerError(fmt.Sprintf("Failed to %s data contract", operation), err)
}
