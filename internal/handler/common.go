// Package handler contains the HTTP handlers for the booking API.
// Handlers bind and validate request bodies, call into the domain
// services and repositories, and translate errors into HTTP responses.
package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/mayastay/booking-api/internal/booking"
	"github.com/mayastay/booking-api/internal/middleware"
	"github.com/mayastay/booking-api/internal/model"
)

// dbTimeout bounds every database round trip made from a handler.
const dbTimeout = 5 * time.Second

const dateLayout = "2006-01-02"

// principal fetches the authenticated user placed in the context by the
// JWT middleware. A missing principal on a protected route means the
// route was wired without the middleware, so treat it as unauthorized.
func principal(c echo.Context) (model.Principal, error) {
	p, ok := middleware.Principal(c)
	if !ok {
		return model.Principal{}, echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid token")
	}
	return p, nil
}

func parseIDParam(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// writeDomainError maps the booking error taxonomy onto HTTP statuses.
// Anything outside the taxonomy is logged and reported as a 500 without
// leaking internals to the client.
func writeDomainError(c echo.Context, log *zap.Logger, err error) error {
	switch {
	case errors.Is(err, booking.ErrValidation):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, sql.ErrNoRows):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	default:
		log.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
}
