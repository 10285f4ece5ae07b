package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mayastay/booking-api/internal/model"
)

// Principal returns the authenticated principal stored by JWTAuth.  The
// second return is false when the route was not wrapped with JWTAuth.
func Principal(c echo.Context) (model.Principal, bool) {
	p, ok := c.Get(principalKey).(model.Principal)
	return p, ok
}

// RequireRole returns middleware that enforces that the authenticated
// principal holds one of the given roles.  Admins pass every check: they
// may do anything an owner or customer can.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	allowed := make(map[model.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			p, ok := Principal(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			if p.Role != model.RoleAdmin && !allowed[p.Role] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
