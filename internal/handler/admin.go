package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/mayastay/booking-api/internal/model"
	"github.com/mayastay/booking-api/internal/repository"
)

// AdminHandler serves the moderation and reporting endpoints. Routes
// using it must sit behind the admin role guard.
type AdminHandler struct {
	Listings *repository.ListingRepo
	Bookings *repository.BookingRepo
	Users    *repository.UserRepo
	Log      *zap.Logger
}

// PendingListings returns listings awaiting review, oldest first.
func (h *AdminHandler) PendingListings(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	rows, err := h.Listings.ListByStatus(ctx, model.ListingPending)
	if err != nil {
		h.Log.Error("pending listings failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"listings": listingViews(rows, true)})
}

// AllListings returns every listing regardless of status.
func (h *AdminHandler) AllListings(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	rows, err := h.Listings.ListAll(ctx)
	if err != nil {
		h.Log.Error("all listings failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"listings": listingViews(rows, true)})
}

type moderateRequest struct {
	Notes *string `json:"notes" validate:"omitempty,max=1000"`
}

// Approve marks a pending listing approved and records the reviewer.
func (h *AdminHandler) Approve(c echo.Context) error {
	return h.moderate(c, model.ListingApproved, "listing approved")
}

// Reject marks a listing rejected, usually with reviewer notes.
func (h *AdminHandler) Reject(c echo.Context) error {
	return h.moderate(c, model.ListingRejected, "listing rejected")
}

func (h *AdminHandler) moderate(c echo.Context, status model.ListingStatus, msg string) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req moderateRequest
	if err := c.Bind(&req); err == nil {
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Listings.SetStatus(ctx, id, status, p.ID, req.Notes); err != nil {
		return writeDomainError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": msg})
}

// AllBookings returns every booking on the platform, newest first.
func (h *AdminHandler) AllBookings(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	rows, err := h.Bookings.ListAll(ctx)
	if err != nil {
		h.Log.Error("all bookings failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}

	out := make([]echo.Map, 0, len(rows))
	for _, r := range rows {
		out = append(out, echo.Map{
			"id":             r.ID,
			"reference":      r.Reference,
			"customer_name":  r.CustomerName,
			"customer_email": r.CustomerEmail,
			"listing_id":     r.ListingID,
			"listing_name":   r.ListingName,
			"check_in":       r.CheckIn.Format(dateLayout),
			"check_out":      r.CheckOut.Format(dateLayout),
			"guests":         r.Guests,
			"rooms":          r.Rooms,
			"total_cents":    r.TotalCents,
			"status":         r.Status,
			"created_at":     r.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": out})
}

// Stats returns the platform dashboard counters.
func (h *AdminHandler) Stats(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	bookings, err := h.Bookings.CountStats(ctx)
	if err != nil {
		h.Log.Error("booking stats failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
	listings, err := h.Listings.CountByStatus(ctx)
	if err != nil {
		h.Log.Error("listing stats failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
	users, err := h.Users.CountAll(ctx)
	if err != nil {
		h.Log.Error("user stats failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"users": users,
		"listings": echo.Map{
			"pending":  listings[model.ListingPending],
			"approved": listings[model.ListingApproved],
			"rejected": listings[model.ListingRejected],
		},
		"bookings": echo.Map{
			"total":         bookings.Total,
			"cancelled":     bookings.Cancelled,
			"revenue_cents": bookings.RevenueCents,
		},
	})
}
