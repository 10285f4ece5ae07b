package queue

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// StartConsumer connects to RabbitMQ, declares the booking.events queue
// (durable), and consumes messages. Each event is appended to
// logs/notifications.log in a single-line, human-friendly format, standing
// in for an email/notification sender. The function runs a reconnect loop
// and keeps running across broker outages; processing errors are logged
// and the offending message rejected so the server continues operating.
func StartConsumer(url string, log *zap.Logger) {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Warn("consumer: broker dial failed", zap.Error(err), zap.Duration("retry_in", backoff))
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn, log); err != nil {
			log.Warn("consumer: consume loop ended", zap.Error(err))
			time.Sleep(2 * time.Second)
		}
	}
}

func consumeLoop(conn *amqp.Connection, log *zap.Logger) error {
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Warn("consumer: set QoS failed", zap.Error(err))
	}

	if _, err := ch.QueueDeclare(EventQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(EventQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := handleMessage(d.Body); err != nil {
			log.Error("consumer: handle message failed", zap.Error(err))
			_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func handleMessage(body []byte) error {
	var ev BookingEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	fpath := filepath.Join("logs", "notifications.log")
	f, err := os.OpenFile(fpath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	var line string
	switch ev.Type {
	case TypeBookingCancelled:
		reason := ""
		if ev.Reason != nil {
			reason = *ev.Reason
		}
		line = fmt.Sprintf("[%s] Booking cancelled | ref=%s | booking_id=%d | user_id=%d | listing=%q | reason=%q\n",
			ev.OccurredAt, ev.Reference, ev.BookingID, ev.UserID, ev.ListingName, reason)
	default:
		line = fmt.Sprintf("[%s] Booking created | ref=%s | booking_id=%d | user_id=%d | listing=%q | %s -> %s | guests=%d rooms=%d | total=%d cents\n",
			ev.OccurredAt, ev.Reference, ev.BookingID, ev.UserID, ev.ListingName,
			ev.CheckIn, ev.CheckOut, ev.Guests, ev.Rooms, ev.TotalCents)
	}
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}
