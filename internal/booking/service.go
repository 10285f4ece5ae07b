package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mayastay/booking-api/internal/model"
	"github.com/mayastay/booking-api/internal/pricing"
	"github.com/mayastay/booking-api/internal/reference"
)

// Bounds on stay parameters, matching what the registration form offers.
const (
	MinGuests = 1
	MaxGuests = 10
	MinRooms  = 1
	MaxRooms  = 5
)

// createAttempts bounds the insert retry loop when the unique index
// rejects a reference that passed the pre-check.
const createAttempts = 3

// Store is the persistence contract the service works against.  The MySQL
// repository satisfies it; tests substitute function-field mocks.  Lookups
// that find nothing return sql.ErrNoRows.
type Store interface {
	// Create inserts a booking and fills in its ID and timestamps.  It
	// returns ErrDuplicateReference when the reference unique index
	// rejects the row.
	Create(ctx context.Context, b *model.Booking) error
	// GetByID loads a booking by its surrogate ID.
	GetByID(ctx context.Context, id uint64) (*model.Booking, error)
	// Cancel conditionally marks a booking cancelled.  It must only touch
	// rows whose status is not already cancelled and report whether a row
	// was updated, so concurrent cancels resolve to exactly one winner.
	Cancel(ctx context.Context, id uint64, reason *string, at time.Time) (bool, error)
	// ListByUser returns the user's bookings with listing details joined,
	// newest first.
	ListByUser(ctx context.Context, userID uint64) ([]Detail, error)
	// ListByListing returns a listing's bookings with customer name and
	// email joined, ordered by check-in descending.
	ListByListing(ctx context.Context, listingID uint64) ([]ListingBooking, error)
	// ReferenceExists reports whether a booking reference is in use.
	ReferenceExists(ctx context.Context, ref string) (bool, error)
}

// Catalog resolves listings.  The listing repository satisfies it.
type Catalog interface {
	// GetBookable returns the listing only when it exists and is approved;
	// otherwise sql.ErrNoRows.
	GetBookable(ctx context.Context, id uint64) (*model.Listing, error)
	// GetOwnerID returns the owner of a listing regardless of its
	// moderation state, or sql.ErrNoRows when the listing is absent.
	GetOwnerID(ctx context.Context, id uint64) (uint64, error)
}

// Detail is a booking joined with the listing fields customers see in
// their booking list.
type Detail struct {
	model.Booking
	ListingName     string
	ListingLocation string
	ListingAddress  string
}

// ListingBooking is the owner-facing view of a booking: stay and price
// data plus minimal customer contact fields.
type ListingBooking struct {
	ID            uint64
	Reference     string
	CustomerName  string
	CustomerEmail string
	CheckIn       time.Time
	CheckOut      time.Time
	Guests        int
	Rooms         int
	TotalCents    int64
	Status        model.BookingStatus
	CreatedAt     time.Time
}

// CreateInput carries the customer-supplied parameters for a new booking.
// Dates are calendar dates at UTC midnight.
type CreateInput struct {
	ListingID       uint64
	CheckIn         time.Time
	CheckOut        time.Time
	Guests          int
	Rooms           int
	SpecialRequests *string
	AddonServices   []model.AddonService
}

// Service runs the booking lifecycle.  It holds no cross-request state;
// every operation round-trips through the store.
type Service struct {
	store   Store
	catalog Catalog
	now     func() time.Time
}

// NewService wires a Service to its collaborators.
func NewService(store Store, catalog Catalog) *Service {
	if store == nil || catalog == nil {
		panic("nil dependency passed to booking.NewService")
	}
	return &Service{store: store, catalog: catalog, now: func() time.Time { return time.Now().UTC() }}
}

// Create validates the request, derives the total from the listing's rate,
// assigns a unique reference and persists the booking as confirmed with
// payment pending.  The listing is returned alongside the booking so
// callers can render its name without a second lookup.
func (s *Service) Create(ctx context.Context, p model.Principal, in CreateInput) (*model.Booking, *model.Listing, error) {
	if in.Guests < MinGuests || in.Guests > MaxGuests {
		return nil, nil, fmt.Errorf("%w: guests must be between %d and %d", ErrValidation, MinGuests, MaxGuests)
	}
	if in.Rooms < MinRooms || in.Rooms > MaxRooms {
		return nil, nil, fmt.Errorf("%w: rooms must be between %d and %d", ErrValidation, MinRooms, MaxRooms)
	}
	nights := pricing.Nights(in.CheckIn, in.CheckOut)
	if nights < 1 {
		return nil, nil, fmt.Errorf("%w: check_out must be after check_in", ErrValidation)
	}

	listing, err := s.catalog.GetBookable(ctx, in.ListingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, fmt.Errorf("%w: listing not found or not available", ErrNotFound)
		}
		return nil, nil, err
	}

	total, err := pricing.Total(listing.PricePerNightCents, nights, in.Rooms, in.AddonServices)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	// The exists pre-check keeps collisions off the common path; the
	// unique index and the retry below close the remaining race window.
	for attempt := 0; attempt < createAttempts; attempt++ {
		ref, err := reference.Generate(ctx, s.store.ReferenceExists)
		if err != nil {
			if errors.Is(err, reference.ErrExhausted) {
				return nil, nil, fmt.Errorf("%w: could not assign a booking reference", ErrConflict)
			}
			return nil, nil, err
		}
		b := &model.Booking{
			Reference:       ref,
			UserID:          p.ID,
			ListingID:       listing.ID,
			CheckIn:         in.CheckIn,
			CheckOut:        in.CheckOut,
			Guests:          in.Guests,
			Rooms:           in.Rooms,
			TotalCents:      total,
			AddonServices:   in.AddonServices,
			Status:          model.BookingConfirmed,
			PaymentStatus:   model.PaymentPending,
			SpecialRequests: in.SpecialRequests,
		}
		err = s.store.Create(ctx, b)
		if err == nil {
			return b, listing, nil
		}
		if errors.Is(err, ErrDuplicateReference) {
			continue
		}
		return nil, nil, err
	}
	return nil, nil, fmt.Errorf("%w: could not assign a booking reference", ErrConflict)
}

// ListMine returns the principal's bookings, newest first.
func (s *Service) ListMine(ctx context.Context, p model.Principal) ([]Detail, error) {
	return s.store.ListByUser(ctx, p.ID)
}

// Cancel transitions a booking to cancelled.  Only the booking's customer
// or an admin may cancel; cancelling an already-cancelled booking is a
// conflict, not a no-op.  The conditional update in the store guarantees
// at most one concurrent caller observes success.
func (s *Service) Cancel(ctx context.Context, p model.Principal, bookingID uint64, reason *string) (*model.Booking, error) {
	b, err := s.store.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: booking not found", ErrNotFound)
		}
		return nil, err
	}
	if b.UserID != p.ID && !p.IsAdmin() {
		return nil, fmt.Errorf("%w: booking belongs to another user", ErrForbidden)
	}
	if b.Status == model.BookingCancelled {
		return nil, fmt.Errorf("%w: booking is already cancelled", ErrConflict)
	}
	now := s.now()
	ok, err := s.store.Cancel(ctx, bookingID, reason, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost the race to another cancel between the read and the update.
		return nil, fmt.Errorf("%w: booking is already cancelled", ErrConflict)
	}
	b.Status = model.BookingCancelled
	b.CancelledAt = &now
	b.CancellationReason = reason
	b.UpdatedAt = now
	return b, nil
}

// ListForListing returns a listing's bookings for its owner or an admin.
func (s *Service) ListForListing(ctx context.Context, p model.Principal, listingID uint64) ([]ListingBooking, error) {
	ok, err := s.CanManageListing(ctx, p, listingID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: listing not found", ErrNotFound)
		}
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: you do not manage this listing", ErrForbidden)
	}
	return s.store.ListByListing(ctx, listingID)
}

// CanManageListing reports whether the principal may act on a listing:
// admins always may, owners only for their own listings.  A missing
// listing surfaces as sql.ErrNoRows so callers choose between 404 and 403
// per endpoint.
func (s *Service) CanManageListing(ctx context.Context, p model.Principal, listingID uint64) (bool, error) {
	if p.IsAdmin() {
		return true, nil
	}
	ownerID, err := s.catalog.GetOwnerID(ctx, listingID)
	if err != nil {
		return false, err
	}
	return ownerID == p.ID, nil
}
