package echoutil

import (
	"errors"
	"strings"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	apierr "github.com/mycelium-catalog/mycelium/pkg/api/types/errors"
)

// ContextKeyClaims is the key of verified claims in echo.Context.
const ContextKeyClaims = "mycelium.claims"

var ErrNoBearerToken = errors.New("no bearer token")

// BearerAuth accepts only requests with a JWT signed with secret in HS256.
//
// Requests for which skip returns true pass through without a token.
// Verified claims are set into echo.Context as ContextKeyClaims.
func BearerAuth(secret []byte, skip func(echo.Context) bool) echo.MiddlewareFunc {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
	)
	keyfunc := func(*jwt.Token) (interface{}, error) { return secret, nil }

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if skip != nil && skip(c) {
				return next(c)
			}

			token, ok := bearer(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
				return apierr.Unauthorized("Not authenticated", ErrNoBearerToken)
			}

			claims := new(jwt.RegisteredClaims)
			if _, err := parser.ParseWithClaims(token, claims, keyfunc); err != nil {
				c.Response().Header().Set(echo.HeaderWWWAuthenticate, `Bearer error="invalid_token"`)
				return apierr.Unauthorized("Invalid token", err)
			}
			c.Set(ContextKeyClaims, claims)
			return next(c)
		}
	}
}

func bearer(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
