// Package queue_publisher publishes booking lifecycle events to RabbitMQ.
// Publishing is best-effort: errors are logged and returned so callers
// can ignore failures without interrupting the request flow.
package queue_publisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/mayastay/booking-api/internal/model"
	q "github.com/mayastay/booking-api/internal/queue"
)

// Publisher sends booking events to the broker.  A Publisher with an
// empty URL is valid and drops everything, so wiring stays unconditional.
type Publisher struct {
	url string
	log *zap.Logger
}

// New returns a Publisher for the given AMQP URL.
func New(url string, log *zap.Logger) *Publisher {
	return &Publisher{url: url, log: log}
}

// BookingCreated publishes a booking.created event.
func (p *Publisher) BookingCreated(ctx context.Context, b *model.Booking, listing *model.Listing) {
	p.publish(ctx, eventFrom(q.TypeBookingCreated, b, listing.Name, nil))
}

// BookingCancelled publishes a booking.cancelled event.  The listing name
// is resolved by the caller when available; an empty name is fine.
func (p *Publisher) BookingCancelled(ctx context.Context, b *model.Booking, listingName string) {
	p.publish(ctx, eventFrom(q.TypeBookingCancelled, b, listingName, b.CancellationReason))
}

func eventFrom(typ string, b *model.Booking, listingName string, reason *string) q.BookingEvent {
	return q.BookingEvent{
		EventID:     uuid.NewString(),
		Type:        typ,
		BookingID:   b.ID,
		Reference:   b.Reference,
		UserID:      b.UserID,
		ListingID:   b.ListingID,
		ListingName: listingName,
		CheckIn:     b.CheckIn.Format("2006-01-02"),
		CheckOut:    b.CheckOut.Format("2006-01-02"),
		Guests:      b.Guests,
		Rooms:       b.Rooms,
		TotalCents:  b.TotalCents,
		Reason:      reason,
		OccurredAt:  time.Now().UTC().Format(time.RFC3339),
	}
}

func (p *Publisher) publish(ctx context.Context, ev q.BookingEvent) {
	if p.url == "" {
		return
	}
	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.log.Warn("rabbitmq: dial failed", zap.Error(err))
		return
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.log.Warn("rabbitmq: channel open failed", zap.Error(err))
		return
	}
	defer func() { _ = ch.Close() }()

	// Idempotent declare; durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(q.EventQueueName, true, false, false, false, nil); err != nil {
		p.log.Warn("rabbitmq: queue declare failed", zap.Error(err))
		return
	}

	body, err := json.Marshal(ev)
	if err != nil {
		p.log.Warn("rabbitmq: marshal event failed", zap.Error(err))
		return
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.EventID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", q.EventQueueName, false, false, pub); err != nil {
		p.log.Warn("rabbitmq: publish failed", zap.Error(err), zap.String("type", ev.Type))
	}
}
