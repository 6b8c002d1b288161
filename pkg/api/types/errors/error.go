package errors

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorResponse is the body of every error response.
//
// Detail is a string, or a list of FieldError.
type ErrorResponse struct {
	Detail any `json:"detail"`
}

// FieldError tells where in a request body a problem is.
type FieldError struct {
	Loc  []string `json:"loc"`
	Msg  string   `json:"msg"`
	Type string   `json:"type"`
}

// ErrorMessage is put into echo.HTTPError as its Message.
//
// Cause is logged, but not sent to clients.
type ErrorMessage struct {
	Detail any
	Cause  error
}

func (e ErrorMessage) Response() ErrorResponse {
	return ErrorResponse{Detail: e.Detail}
}

func (e ErrorMessage) String() string {
	if e.Cause != nil {
		return fmt.Sprintf("%v (caused by: %s)", e.Detail, e.Cause)
	}
	return fmt.Sprint(e.Detail)
}

func (e ErrorMessage) Error() string {
	return e.String()
}

func (e ErrorMessage) Unwrap() error {
	return e.Cause
}

type ErrorMessageOption func(in *ErrorMessage) *ErrorMessage

func WithError(err error) ErrorMessageOption {
	return func(in *ErrorMessage) *ErrorMessage {
		if err != nil {
			in.Cause = err
		}
		return in
	}
}

func NewErrorMessage(code int, detail any, opts ...ErrorMessageOption) *echo.HTTPError {
	msg := ErrorMessage{Detail: detail}
	for _, opt := range opts {
		msg = *opt(&msg)
	}

	he := echo.NewHTTPError(code, msg)
	if msg.Cause != nil {
		he = he.SetInternal(msg.Cause)
	}
	return he
}

func BadRequest(detail string, err error) *echo.HTTPError {
	return NewErrorMessage(http.StatusBadRequest, detail, WithError(err))
}

func NotFound(detail string) *echo.HTTPError {
	return NewErrorMessage(http.StatusNotFound, detail)
}

func Conflict(detail string, err error) *echo.HTTPError {
	return NewErrorMessage(http.StatusConflict, detail, WithError(err))
}

// UnprocessableEntity reports problems in a request body, field by field.
func UnprocessableEntity(fields []FieldError, err error) *echo.HTTPError {
	if fields == nil {
		fields = []FieldError{}
	}
	return NewErrorMessage(http.StatusUnprocessableEntity, fields, WithError(err))
}

func ServiceUnavailable(detail string, err error) *echo.HTTPError {
	return NewErrorMessage(http.StatusServiceUnavailable, detail, WithError(err))
}

// InternalServerError hides err from clients. detail should not contain internals.
func InternalServerError(detail string, err error) *echo.HTTPError {
	return NewErrorMessage(http.StatusInternalServerError, detail, WithError(err))
}

// Render writes err as ErrorResponse.
//
// Errors other than echo.HTTPError are rendered as 500 without their messages.
func Render(err error, c echo.Context) error {
	code := http.StatusInternalServerError
	body := ErrorResponse{Detail: http.StatusText(code)}

	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		switch msg := he.Message.(type) {
		case ErrorMessage:
			body = msg.Response()
		case string:
			body = ErrorResponse{Detail: msg}
		case error:
			body = ErrorResponse{Detail: msg.Error()}
		default:
			body = ErrorResponse{Detail: http.StatusText(code)}
		}
	}

	if c.Request().Method == http.MethodHead {
		return c.NoContent(code)
	}
	return c.JSON(code, body)
}

func Unauthorized(detail string, err error) *echo.HTTPError {
	return NewErrorMessage(http.StatusUnauthorized, detail, WithError(err))
}
