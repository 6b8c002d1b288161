package echoutil

import (
	"net"
	"strings"

	"github.com/labstack/echo/v4"
	apierr "github.com/mycelium-catalog/mycelium/pkg/api/types/errors"
)

// TrustedHosts rejects requests whose Host header is not in allowed.
//
// "*" allows any host, and "*.example.com" allows subdomains of example.com.
// Ports are not compared.
func TrustedHosts(allowed []string) echo.MiddlewareFunc {
	anyHost := false
	for _, a := range allowed {
		if a == "*" {
			anyHost = true
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if anyHost {
			return next
		}
		return func(c echo.Context) error {
			if !IsTrustedHost(c.Request().Host, allowed) {
				return apierr.BadRequest("Invalid host header", nil)
			}
			return next(c)
		}
	}
}

// IsTrustedHost tells whether host (with or without port) matches one of allowed.
func IsTrustedHost(host string, allowed []string) bool {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	host = strings.ToLower(strings.Trim(host, "[]"))

	for _, a := range allowed {
		a = strings.ToLower(a)
		switch {
		case a == "*":
			return true
		case strings.HasPrefix(a, "*."):
			if strings.HasSuffix(host, a[1:]) {
				return true
			}
		case host == a:
			return true
		}
	}
	return false
}
