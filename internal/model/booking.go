package model

import "time"

// BookingStatus is the lifecycle state of a booking.  A booking is created
// confirmed and can only move to cancelled; cancelled is terminal.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

// PaymentStatus tracks payment collection independently of the booking
// lifecycle.  It is set by an external payment collaborator and merely
// stored here.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

// AddonService is an optional named extra charge attached to a booking at
// creation time.  Prices are integer cents; a missing or negative price
// contributes nothing to the total rather than failing the request.
type AddonService struct {
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
}

// Booking records a customer's stay at a listing.  Check-in and check-out
// are calendar dates stored at UTC midnight.  The reference is a short,
// human-shareable code, unique across all bookings and immutable once
// assigned.
//
// Fields:
//  ID                 – primary key identifier.
//  Reference          – unique booking code (e.g. MY483920).
//  UserID             – customer who owns the booking, immutable.
//  ListingID          – listing being booked, immutable.
//  CheckIn/CheckOut   – stay dates; check_out is strictly after check_in.
//  Guests             – number of guests (1–10).
//  Rooms              – number of rooms (1–5).
//  TotalCents         – derived total: nightly rate × nights × rooms plus
//                       addon prices.  Never client-trusted.
//  AddonServices      – ordered list of extras, stored as JSON.
//  Status             – lifecycle state.
//  PaymentStatus      – payment axis, independent of Status.
//  SpecialRequests    – optional free text from the customer.
//  CancelledAt        – set exactly when Status is cancelled.
//  CancellationReason – optional reason recorded at cancellation.
//  CreatedAt          – set at insert.
//  UpdatedAt          – set on every mutation.
type Booking struct {
	ID                 uint64         // bookings.id
	Reference          string         // bookings.booking_reference
	UserID             uint64         // bookings.user_id
	ListingID          uint64         // bookings.listing_id
	CheckIn            time.Time      // bookings.check_in (DATE)
	CheckOut           time.Time      // bookings.check_out (DATE)
	Guests             int            // bookings.guests
	Rooms              int            // bookings.rooms
	TotalCents         int64          // bookings.total_cents
	AddonServices      []AddonService // bookings.addon_services (JSON)
	Status             BookingStatus  // bookings.status
	PaymentStatus      PaymentStatus  // bookings.payment_status
	SpecialRequests    *string        // bookings.special_requests (nullable)
	CancelledAt        *time.Time     // bookings.cancelled_at (nullable)
	CancellationReason *string        // bookings.cancellation_reason (nullable)
	CreatedAt          time.Time      // bookings.created_at
	UpdatedAt          time.Time      // bookings.updated_at
}
