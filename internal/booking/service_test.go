package booking_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/mayastay/booking-api/internal/booking"
	"github.com/mayastay/booking-api/internal/model"
)

type storeMock struct {
	createFn    func(ctx context.Context, b *model.Booking) error
	getFn       func(ctx context.Context, id uint64) (*model.Booking, error)
	cancelFn    func(ctx context.Context, id uint64, reason *string, at time.Time) (bool, error)
	byUserFn    func(ctx context.Context, userID uint64) ([]booking.Detail, error)
	byListingFn func(ctx context.Context, listingID uint64) ([]booking.ListingBooking, error)
	existsFn    func(ctx context.Context, ref string) (bool, error)
}

func (m *storeMock) Create(ctx context.Context, b *model.Booking) error { return m.createFn(ctx, b) }
func (m *storeMock) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	return m.getFn(ctx, id)
}
func (m *storeMock) Cancel(ctx context.Context, id uint64, reason *string, at time.Time) (bool, error) {
	return m.cancelFn(ctx, id, reason, at)
}
func (m *storeMock) ListByUser(ctx context.Context, userID uint64) ([]booking.Detail, error) {
	return m.byUserFn(ctx, userID)
}
func (m *storeMock) ListByListing(ctx context.Context, listingID uint64) ([]booking.ListingBooking, error) {
	return m.byListingFn(ctx, listingID)
}
func (m *storeMock) ReferenceExists(ctx context.Context, ref string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, ref)
	}
	return false, nil
}

type catalogMock struct {
	bookableFn func(ctx context.Context, id uint64) (*model.Listing, error)
	ownerFn    func(ctx context.Context, id uint64) (uint64, error)
}

func (m *catalogMock) GetBookable(ctx context.Context, id uint64) (*model.Listing, error) {
	return m.bookableFn(ctx, id)
}
func (m *catalogMock) GetOwnerID(ctx context.Context, id uint64) (uint64, error) {
	return m.ownerFn(ctx, id)
}

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

var customer = model.Principal{ID: 7, Email: "c@example.com", Name: "Carla Cliente", Role: model.RoleCustomer}
var admin = model.Principal{ID: 1, Email: "a@example.com", Name: "Ana Admin", Role: model.RoleAdmin}

func approvedListing(id, owner uint64, rate int64) *model.Listing {
	return &model.Listing{ID: id, OwnerID: owner, Name: "Casa Azul", Location: "Tulum",
		Address: "Calle 5", PricePerNightCents: rate, Status: model.ListingApproved}
}

func validInput() booking.CreateInput {
	return booking.CreateInput{
		ListingID: 3,
		CheckIn:   date("2024-06-01"),
		CheckOut:  date("2024-06-04"),
		Guests:    2,
		Rooms:     2,
	}
}

func TestCreateComputesTotalAndPersists(t *testing.T) {
	var saved *model.Booking
	store := &storeMock{
		createFn: func(ctx context.Context, b *model.Booking) error {
			saved = b
			b.ID = 42
			return nil
		},
	}
	cat := &catalogMock{
		bookableFn: func(ctx context.Context, id uint64) (*model.Listing, error) {
			return approvedListing(id, 9, 10000), nil
		},
	}
	svc := booking.NewService(store, cat)

	in := validInput()
	in.AddonServices = []model.AddonService{{Name: "breakfast", PriceCents: 2000}}
	b, listing, err := svc.Create(context.Background(), customer, in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	// 100.00/night * 3 nights * 2 rooms + 20.00 addon = 620.00
	if b.TotalCents != 62000 {
		t.Errorf("TotalCents = %d, want 62000", b.TotalCents)
	}
	if b.Status != model.BookingConfirmed || b.PaymentStatus != model.PaymentPending {
		t.Errorf("status = %s/%s, want confirmed/pending", b.Status, b.PaymentStatus)
	}
	if b.UserID != customer.ID || b.ListingID != 3 {
		t.Errorf("ownership fields wrong: user=%d listing=%d", b.UserID, b.ListingID)
	}
	if b.Reference == "" || saved == nil || saved.Reference != b.Reference {
		t.Errorf("reference not assigned before persist")
	}
	if listing == nil || listing.Name != "Casa Azul" {
		t.Errorf("listing not returned")
	}
}

func TestCreateRejectsBadDates(t *testing.T) {
	store := &storeMock{createFn: func(ctx context.Context, b *model.Booking) error {
		t.Fatal("must not persist on validation failure")
		return nil
	}}
	cat := &catalogMock{bookableFn: func(ctx context.Context, id uint64) (*model.Listing, error) {
		return approvedListing(id, 9, 10000), nil
	}}
	svc := booking.NewService(store, cat)

	in := validInput()
	in.CheckOut = in.CheckIn // zero nights
	if _, _, err := svc.Create(context.Background(), customer, in); !errors.Is(err, booking.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	in.CheckOut = date("2024-05-30") // before check-in
	if _, _, err := svc.Create(context.Background(), customer, in); !errors.Is(err, booking.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestCreateRejectsOutOfRangeGuestsAndRooms(t *testing.T) {
	svc := booking.NewService(&storeMock{}, &catalogMock{})
	cases := []struct {
		guests, rooms int
	}{
		{0, 1}, {11, 1}, {1, 0}, {1, 6},
	}
	for _, c := range cases {
		in := validInput()
		in.Guests, in.Rooms = c.guests, c.rooms
		if _, _, err := svc.Create(context.Background(), customer, in); !errors.Is(err, booking.ErrValidation) {
			t.Errorf("guests=%d rooms=%d: expected ErrValidation, got %v", c.guests, c.rooms, err)
		}
	}
}

func TestCreateUnknownListing(t *testing.T) {
	cat := &catalogMock{bookableFn: func(ctx context.Context, id uint64) (*model.Listing, error) {
		return nil, sql.ErrNoRows
	}}
	svc := booking.NewService(&storeMock{}, cat)
	if _, _, err := svc.Create(context.Background(), customer, validInput()); !errors.Is(err, booking.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateRetriesDuplicateReference(t *testing.T) {
	refs := map[string]bool{}
	attempts := 0
	store := &storeMock{
		createFn: func(ctx context.Context, b *model.Booking) error {
			attempts++
			if attempts == 1 {
				// Simulate losing the check-then-insert race once.
				return booking.ErrDuplicateReference
			}
			if refs[b.Reference] {
				t.Fatalf("reference %q reused across attempts", b.Reference)
			}
			refs[b.Reference] = true
			return nil
		},
	}
	cat := &catalogMock{bookableFn: func(ctx context.Context, id uint64) (*model.Listing, error) {
		return approvedListing(id, 9, 10000), nil
	}}
	svc := booking.NewService(store, cat)
	b, _, err := svc.Create(context.Background(), customer, validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if attempts != 2 {
		t.Errorf("expected 2 insert attempts, got %d", attempts)
	}
	if b.Reference == "" {
		t.Error("booking has no reference")
	}
}

func TestCancelFlow(t *testing.T) {
	stored := &model.Booking{ID: 5, UserID: customer.ID, Status: model.BookingConfirmed}
	store := &storeMock{
		getFn: func(ctx context.Context, id uint64) (*model.Booking, error) {
			cp := *stored
			return &cp, nil
		},
		cancelFn: func(ctx context.Context, id uint64, reason *string, at time.Time) (bool, error) {
			if stored.Status == model.BookingCancelled {
				return false, nil
			}
			stored.Status = model.BookingCancelled
			stored.CancelledAt = &at
			stored.CancellationReason = reason
			return true, nil
		},
	}
	svc := booking.NewService(store, &catalogMock{})

	reason := "change of plans"
	b, err := svc.Cancel(context.Background(), customer, 5, &reason)
	if err != nil {
		t.Fatalf("first Cancel: %v", err)
	}
	if b.Status != model.BookingCancelled || b.CancelledAt == nil {
		t.Errorf("booking not cancelled: %+v", b)
	}
	firstAt := *stored.CancelledAt

	// Second cancel must conflict and leave the original record untouched.
	if _, err := svc.Cancel(context.Background(), customer, 5, &reason); !errors.Is(err, booking.ErrConflict) {
		t.Fatalf("second Cancel: expected ErrConflict, got %v", err)
	}
	if !stored.CancelledAt.Equal(firstAt) || *stored.CancellationReason != reason {
		t.Error("second cancel mutated the stored record")
	}
}

func TestCancelAuthorization(t *testing.T) {
	store := &storeMock{
		getFn: func(ctx context.Context, id uint64) (*model.Booking, error) {
			return &model.Booking{ID: id, UserID: 99, Status: model.BookingConfirmed}, nil
		},
		cancelFn: func(ctx context.Context, id uint64, reason *string, at time.Time) (bool, error) {
			return true, nil
		},
	}
	svc := booking.NewService(store, &catalogMock{})

	if _, err := svc.Cancel(context.Background(), customer, 5, nil); !errors.Is(err, booking.ErrForbidden) {
		t.Fatalf("customer cancelling another's booking: expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Cancel(context.Background(), admin, 5, nil); err != nil {
		t.Fatalf("admin cancel: %v", err)
	}
}

func TestCancelUnknownBooking(t *testing.T) {
	store := &storeMock{getFn: func(ctx context.Context, id uint64) (*model.Booking, error) {
		return nil, sql.ErrNoRows
	}}
	svc := booking.NewService(store, &catalogMock{})
	if _, err := svc.Cancel(context.Background(), customer, 404, nil); !errors.Is(err, booking.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCancelLosesRace(t *testing.T) {
	store := &storeMock{
		getFn: func(ctx context.Context, id uint64) (*model.Booking, error) {
			return &model.Booking{ID: id, UserID: customer.ID, Status: model.BookingConfirmed}, nil
		},
		cancelFn: func(ctx context.Context, id uint64, reason *string, at time.Time) (bool, error) {
			return false, nil // another request cancelled between read and update
		},
	}
	svc := booking.NewService(store, &catalogMock{})
	if _, err := svc.Cancel(context.Background(), customer, 5, nil); !errors.Is(err, booking.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestListForListingGuards(t *testing.T) {
	owner := model.Principal{ID: 9, Role: model.RoleListingOwner}
	store := &storeMock{
		byListingFn: func(ctx context.Context, listingID uint64) ([]booking.ListingBooking, error) {
			return []booking.ListingBooking{{ID: 1, CustomerName: "Carla Cliente", CustomerEmail: "c@example.com"}}, nil
		},
	}
	cat := &catalogMock{ownerFn: func(ctx context.Context, id uint64) (uint64, error) {
		if id == 3 {
			return 9, nil
		}
		return 0, sql.ErrNoRows
	}}
	svc := booking.NewService(store, cat)

	if _, err := svc.ListForListing(context.Background(), owner, 3); err != nil {
		t.Fatalf("owner list: %v", err)
	}
	if _, err := svc.ListForListing(context.Background(), admin, 3); err != nil {
		t.Fatalf("admin list: %v", err)
	}
	if _, err := svc.ListForListing(context.Background(), customer, 3); !errors.Is(err, booking.ErrForbidden) {
		t.Fatalf("non-owner list: expected ErrForbidden, got %v", err)
	}
	if _, err := svc.ListForListing(context.Background(), owner, 404); !errors.Is(err, booking.ErrNotFound) {
		t.Fatalf("missing listing: expected ErrNotFound, got %v", err)
	}
}

func TestListMinePassesPrincipalID(t *testing.T) {
	store := &storeMock{
		byUserFn: func(ctx context.Context, userID uint64) ([]booking.Detail, error) {
			if userID != customer.ID {
				t.Errorf("ListByUser called with %d, want %d", userID, customer.ID)
			}
			return nil, nil
		},
	}
	svc := booking.NewService(store, &catalogMock{})
	if _, err := svc.ListMine(context.Background(), customer); err != nil {
		t.Fatalf("ListMine: %v", err)
	}
}
