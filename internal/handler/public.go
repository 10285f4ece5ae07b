package handler

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/mayastay/booking-api/internal/repository"
)

// PublicHandler serves the unauthenticated browse surface. Only
// approved listings are visible here.
type PublicHandler struct {
	Repo *repository.ListingRepo
	Log  *zap.Logger
}

// Browse lists approved listings, optionally filtered by a location
// substring via the "location" query parameter.
func (h *PublicHandler) Browse(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	rows, err := h.Repo.ListApproved(ctx, c.QueryParam("location"))
	if err != nil {
		h.Log.Error("listing browse failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"listings": listingViews(rows, false)})
}

// Detail returns a single approved listing.
func (h *PublicHandler) Detail(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	l, err := h.Repo.GetBookable(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "listing not found"})
		}
		h.Log.Error("listing detail failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"listing": listingView(l, false)})
}
