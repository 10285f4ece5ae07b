package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/mayastay/booking-api/internal/booking"
	"github.com/mayastay/booking-api/internal/model"
	queue_publisher "github.com/mayastay/booking-api/internal/service"
	"github.com/mayastay/booking-api/internal/validation"
)

type storeMock struct {
	createFn func(ctx context.Context, b *model.Booking) error
	getFn    func(ctx context.Context, id uint64) (*model.Booking, error)
	cancelFn func(ctx context.Context, id uint64, reason *string, at time.Time) (bool, error)
}

func (m *storeMock) Create(ctx context.Context, b *model.Booking) error { return m.createFn(ctx, b) }
func (m *storeMock) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	return m.getFn(ctx, id)
}
func (m *storeMock) Cancel(ctx context.Context, id uint64, reason *string, at time.Time) (bool, error) {
	return m.cancelFn(ctx, id, reason, at)
}
func (m *storeMock) ListByUser(ctx context.Context, userID uint64) ([]booking.Detail, error) {
	return nil, nil
}
func (m *storeMock) ListByListing(ctx context.Context, listingID uint64) ([]booking.ListingBooking, error) {
	return nil, nil
}
func (m *storeMock) ReferenceExists(ctx context.Context, ref string) (bool, error) {
	return false, nil
}

type catalogMock struct {
	bookableFn func(ctx context.Context, id uint64) (*model.Listing, error)
}

func (m *catalogMock) GetBookable(ctx context.Context, id uint64) (*model.Listing, error) {
	return m.bookableFn(ctx, id)
}
func (m *catalogMock) GetOwnerID(ctx context.Context, id uint64) (uint64, error) {
	return 0, sql.ErrNoRows
}

func newBookingHandler(store *storeMock, catalog *catalogMock) *BookingHandler {
	log := zap.NewNop()
	return &BookingHandler{
		Svc:    booking.NewService(store, catalog),
		Events: queue_publisher.New("", log),
		Log:    log,
	}
}

// doJSON runs a handler against a synthetic authenticated request and
// returns the recorder.
func doJSON(t *testing.T, h echo.HandlerFunc, method, target, body string, p model.Principal, params map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.Validator = validation.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("principal", p)
	for k, v := range params {
		c.SetParamNames(k)
		c.SetParamValues(v)
	}
	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestCreateBookingSuccess(t *testing.T) {
	store := &storeMock{
		createFn: func(ctx context.Context, b *model.Booking) error {
			b.ID = 77
			b.CreatedAt = time.Now().UTC()
			return nil
		},
	}
	catalog := &catalogMock{
		bookableFn: func(ctx context.Context, id uint64) (*model.Listing, error) {
			return &model.Listing{ID: id, Name: "Seaside Inn", PricePerNightCents: 10000, Status: model.ListingApproved}, nil
		},
	}
	h := newBookingHandler(store, catalog)

	body := `{"listing_id":3,"check_in":"2026-09-01","check_out":"2026-09-04","guests":2,"rooms":1}`
	rec := doJSON(t, h.Create, http.MethodPost, "/v1/bookings", body, model.Principal{ID: 9, Role: model.RoleCustomer}, nil)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d, body %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	var resp struct {
		Booking struct {
			ID          uint64 `json:"id"`
			Reference   string `json:"reference"`
			ListingName string `json:"listing_name"`
			TotalCents  int64  `json:"total_cents"`
		} `json:"booking"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Booking.ID != 77 {
		t.Errorf("id = %d, want 77", resp.Booking.ID)
	}
	if resp.Booking.ListingName != "Seaside Inn" {
		t.Errorf("listing_name = %q", resp.Booking.ListingName)
	}
	if resp.Booking.TotalCents != 30000 {
		t.Errorf("total_cents = %d, want 30000", resp.Booking.TotalCents)
	}
	if !strings.HasPrefix(resp.Booking.Reference, "MY") {
		t.Errorf("reference = %q, want MY prefix", resp.Booking.Reference)
	}
}

func TestCreateBookingBadDate(t *testing.T) {
	h := newBookingHandler(&storeMock{}, &catalogMock{})

	body := `{"listing_id":3,"check_in":"01/09/2026","check_out":"2026-09-04","guests":2,"rooms":1}`
	rec := doJSON(t, h.Create, http.MethodPost, "/v1/bookings", body, model.Principal{ID: 9, Role: model.RoleCustomer}, nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestCreateBookingUnknownListing(t *testing.T) {
	catalog := &catalogMock{
		bookableFn: func(ctx context.Context, id uint64) (*model.Listing, error) {
			return nil, sql.ErrNoRows
		},
	}
	h := newBookingHandler(&storeMock{}, catalog)

	body := `{"listing_id":999,"check_in":"2026-09-01","check_out":"2026-09-04","guests":2,"rooms":1}`
	rec := doJSON(t, h.Create, http.MethodPost, "/v1/bookings", body, model.Principal{ID: 9, Role: model.RoleCustomer}, nil)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d, body %s", rec.Code, http.StatusNotFound, rec.Body.String())
	}
}

func TestCreateBookingMissingFields(t *testing.T) {
	h := newBookingHandler(&storeMock{}, &catalogMock{})

	rec := doJSON(t, h.Create, http.MethodPost, "/v1/bookings", `{"listing_id":3}`, model.Principal{ID: 9, Role: model.RoleCustomer}, nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestCancelBookingAlreadyCancelled(t *testing.T) {
	store := &storeMock{
		getFn: func(ctx context.Context, id uint64) (*model.Booking, error) {
			return &model.Booking{ID: id, UserID: 9, Status: model.BookingCancelled}, nil
		},
	}
	h := newBookingHandler(store, &catalogMock{})

	rec := doJSON(t, h.Cancel, http.MethodPut, "/v1/bookings/5/cancel", `{}`, model.Principal{ID: 9, Role: model.RoleCustomer}, map[string]string{"id": "5"})

	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d, body %s", rec.Code, http.StatusConflict, rec.Body.String())
	}
}

func TestCancelBookingForbidden(t *testing.T) {
	store := &storeMock{
		getFn: func(ctx context.Context, id uint64) (*model.Booking, error) {
			return &model.Booking{ID: id, UserID: 42, Status: model.BookingConfirmed}, nil
		},
	}
	h := newBookingHandler(store, &catalogMock{})

	rec := doJSON(t, h.Cancel, http.MethodPut, "/v1/bookings/5/cancel", `{}`, model.Principal{ID: 9, Role: model.RoleCustomer}, map[string]string{"id": "5"})

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestCancelBookingInvalidID(t *testing.T) {
	h := newBookingHandler(&storeMock{}, &catalogMock{})

	rec := doJSON(t, h.Cancel, http.MethodPut, "/v1/bookings/abc/cancel", `{}`, model.Principal{ID: 9, Role: model.RoleCustomer}, map[string]string{"id": "abc"})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
