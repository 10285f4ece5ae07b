package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/mayastay/booking-api/internal/booking"
	"github.com/mayastay/booking-api/internal/model"
)

// BookingRepo persists bookings.  It satisfies booking.Store: the unique
// index on booking_reference backstops the generator's check-then-insert
// race, and cancellation is a conditional update so concurrent cancels
// resolve to one winner.  All timestamps are stored in UTC.
type BookingRepo struct{ DB *sql.DB }

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{DB: db} }

// Compile-time check that the repo satisfies the service contract.
var _ booking.Store = (*BookingRepo)(nil)

// Create inserts a booking row and populates the generated ID and
// timestamps on b.  A duplicate booking_reference maps to
// booking.ErrDuplicateReference so the service retries with a fresh code.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	var addons interface{}
	if len(b.AddonServices) > 0 {
		data, err := json.Marshal(b.AddonServices)
		if err != nil {
			return err
		}
		addons = data
	}
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO bookings (booking_reference, user_id, listing_id, check_in, check_out,
		 guests, rooms, total_cents, addon_services, status, payment_status, special_requests)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		b.Reference, b.UserID, b.ListingID, b.CheckIn, b.CheckOut,
		b.Guests, b.Rooms, b.TotalCents, addons, string(b.Status), string(b.PaymentStatus),
		b.SpecialRequests)
	if err != nil {
		if isDuplicateKey(err) {
			return booking.ErrDuplicateReference
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	// Read back server-side timestamps.
	return r.DB.QueryRowContext(ctx,
		`SELECT created_at, updated_at FROM bookings WHERE id = ?`, b.ID,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
}

const bookingColumns = `id, booking_reference, user_id, listing_id, check_in, check_out,
	guests, rooms, total_cents, addon_services, status, payment_status,
	special_requests, cancelled_at, cancellation_reason, created_at, updated_at`

// GetByID loads a booking by its surrogate ID.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id)
	return scanBooking(row)
}

// ReferenceExists reports whether a booking reference is already in use.
func (r *BookingRepo) ReferenceExists(ctx context.Context, ref string) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		`SELECT 1 FROM bookings WHERE booking_reference = ? LIMIT 1`, ref).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Cancel marks a booking cancelled if and only if it is not cancelled
// already.  The status guard in the WHERE clause serializes concurrent
// cancels at the database: exactly one caller sees a true result.
func (r *BookingRepo) Cancel(ctx context.Context, id uint64, reason *string, at time.Time) (bool, error) {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE bookings SET status='cancelled', cancelled_at=?, cancellation_reason=?, updated_at=?
		 WHERE id=? AND status <> 'cancelled'`,
		at, reason, at, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListByUser returns a user's bookings with listing display fields joined,
// newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]booking.Detail, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT b.id, b.booking_reference, b.user_id, b.listing_id, b.check_in, b.check_out,
		        b.guests, b.rooms, b.total_cents, b.addon_services, b.status, b.payment_status,
		        b.special_requests, b.cancelled_at, b.cancellation_reason, b.created_at, b.updated_at,
		        l.name, l.location, l.address
		 FROM bookings b
		 JOIN listings l ON l.id = b.listing_id
		 WHERE b.user_id = ?
		 ORDER BY b.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]booking.Detail, 0)
	for rows.Next() {
		var d booking.Detail
		b, err := scanBookingInto(rows, &d.ListingName, &d.ListingLocation, &d.ListingAddress)
		if err != nil {
			return nil, err
		}
		d.Booking = *b
		out = append(out, d)
	}
	return out, rows.Err()
}

// ListByListing returns a listing's bookings with the customer's name and
// email joined, ordered by check-in descending.  Authorization happens in
// the booking service before this is called.
func (r *BookingRepo) ListByListing(ctx context.Context, listingID uint64) ([]booking.ListingBooking, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT b.id, b.booking_reference, CONCAT(u.first_name, ' ', u.last_name), u.email,
		        b.check_in, b.check_out, b.guests, b.rooms, b.total_cents, b.status, b.created_at
		 FROM bookings b
		 JOIN users u ON u.id = b.user_id
		 WHERE b.listing_id = ?
		 ORDER BY b.check_in DESC`, listingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]booking.ListingBooking, 0)
	for rows.Next() {
		var (
			lb     booking.ListingBooking
			status string
		)
		if err := rows.Scan(&lb.ID, &lb.Reference, &lb.CustomerName, &lb.CustomerEmail,
			&lb.CheckIn, &lb.CheckOut, &lb.Guests, &lb.Rooms, &lb.TotalCents,
			&status, &lb.CreatedAt); err != nil {
			return nil, err
		}
		lb.Status = model.BookingStatus(status)
		out = append(out, lb)
	}
	return out, rows.Err()
}

// AdminRow is a booking joined with listing and customer identifiers for
// the admin overview.
type AdminRow struct {
	booking.ListingBooking
	ListingID   uint64
	ListingName string
}

// ListAll returns every booking for the admin dashboard, newest first.
func (r *BookingRepo) ListAll(ctx context.Context) ([]AdminRow, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT b.id, b.booking_reference, CONCAT(u.first_name, ' ', u.last_name), u.email,
		        b.check_in, b.check_out, b.guests, b.rooms, b.total_cents, b.status, b.created_at,
		        l.id, l.name
		 FROM bookings b
		 JOIN users u ON u.id = b.user_id
		 JOIN listings l ON l.id = b.listing_id
		 ORDER BY b.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]AdminRow, 0)
	for rows.Next() {
		var (
			row    AdminRow
			status string
		)
		if err := rows.Scan(&row.ID, &row.Reference, &row.CustomerName, &row.CustomerEmail,
			&row.CheckIn, &row.CheckOut, &row.Guests, &row.Rooms, &row.TotalCents,
			&status, &row.CreatedAt, &row.ListingID, &row.ListingName); err != nil {
			return nil, err
		}
		row.Status = model.BookingStatus(status)
		out = append(out, row)
	}
	return out, rows.Err()
}

// Stats aggregates booking counts and revenue for admin reporting.
// Cancelled bookings are excluded from revenue.
type Stats struct {
	Total        int64
	Cancelled    int64
	RevenueCents int64
}

// CountStats returns platform-wide booking statistics.
func (r *BookingRepo) CountStats(ctx context.Context) (Stats, error) {
	var s Stats
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(status = 'cancelled'), 0),
		        COALESCE(SUM(CASE WHEN status <> 'cancelled' THEN total_cents ELSE 0 END), 0)
		 FROM bookings`).Scan(&s.Total, &s.Cancelled, &s.RevenueCents)
	return s, err
}

func scanBooking(row *sql.Row) (*model.Booking, error) {
	var (
		b          model.Booking
		addons     sql.NullString
		status     string
		payStatus  string
		special    sql.NullString
		cancelled  sql.NullTime
		cancReason sql.NullString
	)
	err := row.Scan(&b.ID, &b.Reference, &b.UserID, &b.ListingID, &b.CheckIn, &b.CheckOut,
		&b.Guests, &b.Rooms, &b.TotalCents, &addons, &status, &payStatus,
		&special, &cancelled, &cancReason, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return finishBooking(&b, addons, status, payStatus, special, cancelled, cancReason)
}

// scanBookingInto scans the shared booking columns plus any trailing join
// columns from a rows cursor.
func scanBookingInto(rows *sql.Rows, extra ...interface{}) (*model.Booking, error) {
	var (
		b          model.Booking
		addons     sql.NullString
		status     string
		payStatus  string
		special    sql.NullString
		cancelled  sql.NullTime
		cancReason sql.NullString
	)
	dest := []interface{}{&b.ID, &b.Reference, &b.UserID, &b.ListingID, &b.CheckIn, &b.CheckOut,
		&b.Guests, &b.Rooms, &b.TotalCents, &addons, &status, &payStatus,
		&special, &cancelled, &cancReason, &b.CreatedAt, &b.UpdatedAt}
	dest = append(dest, extra...)
	if err := rows.Scan(dest...); err != nil {
		return nil, err
	}
	return finishBooking(&b, addons, status, payStatus, special, cancelled, cancReason)
}

func finishBooking(b *model.Booking, addons sql.NullString, status, payStatus string,
	special sql.NullString, cancelled sql.NullTime, cancReason sql.NullString) (*model.Booking, error) {
	b.Status = model.BookingStatus(status)
	b.PaymentStatus = model.PaymentStatus(payStatus)
	if addons.Valid && addons.String != "" {
		if err := json.Unmarshal([]byte(addons.String), &b.AddonServices); err != nil {
			return nil, err
		}
	}
	if special.Valid {
		v := special.String
		b.SpecialRequests = &v
	}
	if cancelled.Valid {
		v := cancelled.Time
		b.CancelledAt = &v
	}
	if cancReason.Valid {
		v := cancReason.String
		b.CancellationReason = &v
	}
	return b, nil
}
