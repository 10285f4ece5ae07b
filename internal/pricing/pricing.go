// Package pricing computes booking totals.  All amounts are integer cents
// so repeated additions stay exact; nothing here touches floating point.
package pricing

import (
	"errors"
	"time"

	"github.com/mayastay/booking-api/internal/model"
)

// ErrInvalidInput is returned when a total is requested for out-of-range
// parameters (negative rate, fewer than one night or room).
var ErrInvalidInput = errors.New("pricing: invalid input")

// Nights returns the number of calendar nights between two dates.  Both
// arguments are expected at UTC midnight; the result is zero or negative
// when checkOut does not follow checkIn.
func Nights(checkIn, checkOut time.Time) int {
	return int(checkOut.Sub(checkIn) / (24 * time.Hour))
}

// Total computes the grand total for a stay:
//
//	rate × nights × rooms + Σ addon prices
//
// Addons are lenient by design: an entry with a non-positive price
// contributes nothing instead of failing the booking.  The result is
// never negative for valid inputs.
func Total(ratePerNightCents int64, nights, rooms int, addons []model.AddonService) (int64, error) {
	if ratePerNightCents < 0 || nights < 1 || rooms < 1 {
		return 0, ErrInvalidInput
	}
	total := ratePerNightCents * int64(nights) * int64(rooms)
	for _, a := range addons {
		if a.PriceCents > 0 {
			total += a.PriceCents
		}
	}
	return total, nil
}
