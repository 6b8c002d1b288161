package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/labstack/echo/v4"
)

type RequestOption func(req *http.Request) *http.Request

func WithHeader(key string, value string) RequestOption {
	return func(req *http.Request) *http.Request {
		req.Header.Set(key, value)
		return req
	}
}

// = WithHeader("Content-Type", ctyp)
func ContentType(ctyp string) RequestOption {
	return WithHeader(echo.HeaderContentType, ctyp)
}

// = WithHeader("Authorization", "Bearer " + token)
func Bearer(token string) RequestOption {
	return WithHeader(echo.HeaderAuthorization, "Bearer "+token)
}

// WithHost overwrites the Host header. Requests have "example.com" by default.
func WithHost(host string) RequestOption {
	return func(req *http.Request) *http.Request {
		req.Host = host
		return req
	}
}

// JSON encodes v as a request body. It panics when v can not be encoded.
func JSON(v any) io.Reader {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return bytes.NewReader(b)
}

func NewRequest(method string, target string, body io.Reader, reqopts ...RequestOption) *http.Request {
	req := httptest.NewRequest(method, target, body)
	for _, opt := range reqopts {
		req = opt(req)
	}
	return req
}

// Serve sends a request to h, and records the response.
func Serve(h http.Handler, method string, target string, body io.Reader, reqopts ...RequestOption) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, NewRequest(method, target, body, reqopts...))
	return resp
}

// Context builds echo.Context for a request, to invoke a handler directly.
func Context(e *echo.Echo, method string, target string, body io.Reader, reqopts ...RequestOption) (echo.Context, *httptest.ResponseRecorder) {
	resp := httptest.NewRecorder()
	return e.NewContext(NewRequest(method, target, body, reqopts...), resp), resp
}

func Get(e *echo.Echo, target string, reqopts ...RequestOption) (echo.Context, *httptest.ResponseRecorder) {
	return Context(e, http.MethodGet, target, nil, reqopts...)
}

func Post(e *echo.Echo, target string, data io.Reader, reqopts ...RequestOption) (echo.Context, *httptest.ResponseRecorder) {
	return Context(e, http.MethodPost, target, data, reqopts...)
}

func Put(e *echo.Echo, target string, data io.Reader, reqopts ...RequestOption) (echo.Context, *httptest.ResponseRecorder) {
	return Context(e, http.MethodPut, target, data, reqopts...)
}

func Delete(e *echo.Echo, target string, reqopts ...RequestOption) (echo.Context, *httptest.ResponseRecorder) {
	return Context(e, http.MethodDelete, target, nil, reqopts...)
}
