// Package queue defines message payloads exchanged over the message
// broker and the background consumer that processes them.
package queue

// EventQueueName is the durable queue all booking lifecycle events share;
// the Type field distinguishes them.
const EventQueueName = "booking.events"

// Event types.
const (
	TypeBookingCreated   = "booking.created"
	TypeBookingCancelled = "booking.cancelled"
)

// BookingEvent is published when a booking is created or cancelled.  It
// carries enough for downstream consumers to notify or feed analytics
// without querying the primary database.  EventID is a UUID so consumers
// can deduplicate redeliveries.
type BookingEvent struct {
	EventID     string  `json:"event_id"`
	Type        string  `json:"type"`
	BookingID   uint64  `json:"booking_id"`
	Reference   string  `json:"reference"`
	UserID      uint64  `json:"user_id"`
	ListingID   uint64  `json:"listing_id"`
	ListingName string  `json:"listing_name"`
	CheckIn     string  `json:"check_in"`
	CheckOut    string  `json:"check_out"`
	Guests      int     `json:"guests"`
	Rooms       int     `json:"rooms"`
	TotalCents  int64   `json:"total_cents"`
	Reason      *string `json:"reason,omitempty"` // cancellation only
	OccurredAt  string  `json:"occurred_at"`
}
