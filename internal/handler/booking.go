package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/mayastay/booking-api/internal/booking"
	"github.com/mayastay/booking-api/internal/model"
	"github.com/mayastay/booking-api/internal/repository"
	queue_publisher "github.com/mayastay/booking-api/internal/service"
)

// BookingHandler serves the booking lifecycle endpoints.
type BookingHandler struct {
	Svc      *booking.Service
	Listings *repository.ListingRepo
	Events   *queue_publisher.Publisher
	Log      *zap.Logger
}

type addonRequest struct {
	Name       string `json:"name" validate:"required,max=100"`
	PriceCents int64  `json:"price_cents" validate:"gte=0"`
}

type createBookingRequest struct {
	ListingID       uint64         `json:"listing_id" validate:"required"`
	CheckIn         string         `json:"check_in" validate:"required"`
	CheckOut        string         `json:"check_out" validate:"required"`
	Guests          int            `json:"guests" validate:"required"`
	Rooms           int            `json:"rooms" validate:"required"`
	SpecialRequests *string        `json:"special_requests"`
	AddonServices   []addonRequest `json:"addon_services" validate:"dive"`
}

// Create books a stay on an approved listing.
func (h *BookingHandler) Create(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req createBookingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	checkIn, err := parseDate(req.CheckIn)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_in must be a YYYY-MM-DD date"})
	}
	checkOut, err := parseDate(req.CheckOut)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_out must be a YYYY-MM-DD date"})
	}

	addons := make([]model.AddonService, 0, len(req.AddonServices))
	for _, a := range req.AddonServices {
		addons = append(addons, model.AddonService{Name: a.Name, PriceCents: a.PriceCents})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	b, listing, err := h.Svc.Create(ctx, p, booking.CreateInput{
		ListingID:       req.ListingID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Guests:          req.Guests,
		Rooms:           req.Rooms,
		SpecialRequests: req.SpecialRequests,
		AddonServices:   addons,
	})
	if err != nil {
		return writeDomainError(c, h.Log, err)
	}

	h.Events.BookingCreated(c.Request().Context(), b, listing)

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "booking created",
		"booking": echo.Map{
			"id":           b.ID,
			"reference":    b.Reference,
			"listing_name": listing.Name,
			"check_in":     b.CheckIn.Format(dateLayout),
			"check_out":    b.CheckOut.Format(dateLayout),
			"guests":       b.Guests,
			"rooms":        b.Rooms,
			"total_cents":  b.TotalCents,
			"status":       b.Status,
			"created_at":   b.CreatedAt,
		},
	})
}

// ListMine returns the acting customer's bookings, newest first.
func (h *BookingHandler) ListMine(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	rows, err := h.Svc.ListMine(ctx, p)
	if err != nil {
		return writeDomainError(c, h.Log, err)
	}

	out := make([]echo.Map, 0, len(rows))
	for _, d := range rows {
		out = append(out, echo.Map{
			"id":                  d.ID,
			"reference":           d.Reference,
			"listing_id":          d.ListingID,
			"listing_name":        d.ListingName,
			"listing_location":    d.ListingLocation,
			"listing_address":     d.ListingAddress,
			"check_in":            d.CheckIn.Format(dateLayout),
			"check_out":           d.CheckOut.Format(dateLayout),
			"guests":              d.Guests,
			"rooms":               d.Rooms,
			"total_cents":         d.TotalCents,
			"addon_services":      d.AddonServices,
			"status":              d.Status,
			"payment_status":      d.PaymentStatus,
			"special_requests":    d.SpecialRequests,
			"cancellation_reason": d.CancellationReason,
			"cancelled_at":        d.CancelledAt,
			"created_at":          d.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": out})
}

type cancelBookingRequest struct {
	Reason *string `json:"reason" validate:"omitempty,max=500"`
}

// Cancel cancels a booking owned by the caller (or by any admin).
func (h *BookingHandler) Cancel(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	// An empty body is a cancel without a reason.
	var req cancelBookingRequest
	if err := c.Bind(&req); err == nil {
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	b, err := h.Svc.Cancel(ctx, p, id, req.Reason)
	if err != nil {
		return writeDomainError(c, h.Log, err)
	}

	listingName := ""
	if l, lerr := h.Listings.GetByID(ctx, b.ListingID); lerr == nil {
		listingName = l.Name
	}
	h.Events.BookingCancelled(c.Request().Context(), b, listingName)

	return c.JSON(http.StatusOK, echo.Map{
		"message": "booking cancelled",
		"booking": echo.Map{
			"id":           b.ID,
			"reference":    b.Reference,
			"status":       b.Status,
			"cancelled_at": b.CancelledAt,
		},
	})
}

// ListForListing returns the bookings placed on a listing. Only the
// listing's owner or an admin may see them.
func (h *BookingHandler) ListForListing(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	listingID, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	rows, err := h.Svc.ListForListing(ctx, p, listingID)
	if err != nil {
		return writeDomainError(c, h.Log, err)
	}

	out := make([]echo.Map, 0, len(rows))
	for _, r := range rows {
		out = append(out, echo.Map{
			"id":             r.ID,
			"reference":      r.Reference,
			"customer_name":  r.CustomerName,
			"customer_email": r.CustomerEmail,
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
