package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/mayastay/booking-api/internal/model"
	"github.com/mayastay/booking-api/internal/repository"
)

// ListingHandler serves the owner-facing listing endpoints.
type ListingHandler struct {
	Repo *repository.ListingRepo
	Log  *zap.Logger
}

type listingRequest struct {
	Name               string  `json:"name" validate:"required,max=200"`
	Description        *string `json:"description"`
	Location           string  `json:"location" validate:"required,max=200"`
	Address            string  `json:"address" validate:"required,max=300"`
	PricePerNightCents int64   `json:"price_per_night_cents" validate:"required,gt=0"`
	ImageURL           *string `json:"image_url" validate:"omitempty,url"`
	Phone              *string `json:"phone" validate:"omitempty,max=30"`
	Email              *string `json:"email" validate:"omitempty,email"`
	Website            *string `json:"website" validate:"omitempty,url"`
	RoomsAvailable     *int    `json:"rooms_available" validate:"omitempty,gte=1"`
}

// Create registers a new listing in pending state, awaiting admin review.
func (h *ListingHandler) Create(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req listingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	id, err := h.Repo.Create(ctx, repository.ListingCreateInput{
		OwnerID:            p.ID,
		Name:               req.Name,
		Description:        req.Description,
		Location:           req.Location,
		Address:            req.Address,
		PricePerNightCents: req.PricePerNightCents,
		ImageURL:           req.ImageURL,
		Phone:              req.Phone,
		Email:              req.Email,
		Website:            req.Website,
		RoomsAvailable:     req.RoomsAvailable,
	})
	if err != nil {
		h.Log.Error("listing create failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message":    "listing submitted for review",
		"listing_id": id,
		"status":     model.ListingPending,
	})
}

// Mine returns all listings owned by the caller, whatever their status.
func (h *ListingHandler) Mine(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	rows, err := h.Repo.ListByOwner(ctx, p.ID)
	if err != nil {
		h.Log.Error("listing mine failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"listings": listingViews(rows, true)})
}

// Update replaces the mutable fields of a listing the caller owns.
func (h *ListingHandler) Update(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	var req listingRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	err = h.Repo.UpdateOwned(ctx, id, p.ID, repository.ListingUpdateInput{
		Name:               req.Name,
		Description:        req.Description,
		Location:           req.Location,
		Address:            req.Address,
		PricePerNightCents: req.PricePerNightCents,
		ImageURL:           req.ImageURL,
		Phone:              req.Phone,
		Email:              req.Email,
		Website:            req.Website,
		RoomsAvailable:     req.RoomsAvailable,
	})
	if err != nil {
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "listing belongs to another owner"})
		}
		return writeDomainError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "listing updated"})
}

// Delete removes a listing the caller owns.
func (h *ListingHandler) Delete(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Repo.DeleteOwned(ctx, id, p.ID); err != nil {
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "listing belongs to another owner"})
		}
		return writeDomainError(c, h.Log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "listing deleted"})
}

// listingViews renders listings for JSON output. Owner views include
// moderation fields that the public browse surface omits.
func listingViews(rows []model.Listing, ownerView bool) []echo.Map {
	out := make([]echo.Map, 0, len(rows))
	for i := range rows {
		out = append(out, listingView(&rows[i], ownerView))
	}
	return out
}

func listingView(l *model.Listing, ownerView bool) echo.Map {
	v := echo.Map{
		"id":                    l.ID,
		"name":                  l.Name,
		"description":           l.Description,
		"location":              l.Location,
		"address":               l.Address,
		"price_per_night_cents": l.PricePerNightCents,
		"image_url":             l.ImageURL,
		"phone":                 l.Phone,
		"email":                 l.Email,
		"website":               l.Website,
		"rooms_available":       l.RoomsAvailable,
		"created_at":            l.CreatedAt,
	}
	if ownerView {
		v["status"] = l.Status
		v["admin_notes"] = l.AdminNotes
		v["approved_at"] = l.ApprovedAt
	}
	return v
}
