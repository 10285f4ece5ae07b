// Package reference generates short, human-shareable booking codes.
package reference

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
)

const (
	prefix      = "MY"
	maxAttempts = 10
)

// ErrExhausted is returned when no unused code could be produced within
// the attempt budget.  Collisions on a six-digit space are rare enough
// that hitting this indicates something is wrong upstream.
var ErrExhausted = errors.New("reference: exhausted generation attempts")

// ExistsFunc reports whether a candidate code is already in use.  It is
// satisfied by the booking repository's reference lookup.
type ExistsFunc func(ctx context.Context, ref string) (bool, error)

// Generate returns a code of the form MY###### that the exists check did
// not know at the time of the call.  The check-then-use window is closed
// by the unique index on the bookings table: callers must treat a
// duplicate-key error on insert as "retry with a fresh code", not as a
// fatal failure.
func Generate(ctx context.Context, exists ExistsFunc) (string, error) {
	for i := 0; i < maxAttempts; i++ {
		cand, err := candidate()
		if err != nil {
			return "", err
		}
		inUse, err := exists(ctx, cand)
		if err != nil {
			return "", err
		}
		if !inUse {
			return cand, nil
		}
	}
	return "", ErrExhausted
}

// candidate produces the prefix plus six random digits (100000–999999)
// from crypto/rand.
func candidate() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%d", prefix, n.Int64()+100000), nil
}
