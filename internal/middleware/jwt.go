// Package middleware provides reusable HTTP middleware: JWT
// authentication, role enforcement, rate limiting and response caching.
package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mayastay/booking-api/internal/utils"
)

// principalKey is the context key under which the authenticated principal
// is stored for handlers.
const principalKey = "principal"

// JWTAuth returns middleware that validates a Bearer access token and
// stores the reconstructed principal in the request context.  Protected
// routes must be wrapped with it; handlers read the principal via
// Principal(c).
func JWTAuth(issuer *utils.TokenIssuer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")
			p, err := issuer.ParsePrincipal(raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			c.Set(principalKey, p)
			return next(c)
		}
	}
}
