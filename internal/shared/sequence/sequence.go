// Package sequence generates human-readable sequential identifiers such as
// ORD001 or DRV042 by incrementing the suffix of the latest stored identifier.
//
// The generator does not lock. Concurrent creators may compute the same
// candidate; the storage unique constraint rejects the loser, which then
// regenerates from the new latest identifier.
package sequence

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MinDigits is the minimum zero-padded width of the numeric suffix.
const MinDigits = 3

// DefaultAttempts bounds Generate retries on identifier collisions.
const DefaultAttempts = 5

var (
	// ErrDuplicate is returned by CreateFunc when the candidate identifier is taken.
	ErrDuplicate = errors.New("identifier already exists")
	// ErrMalformed reports a stored identifier without the expected numeric suffix.
	ErrMalformed = errors.New("identifier suffix is not numeric")
	// ErrExhausted reports that every attempt collided.
	ErrExhausted = errors.New("identifier generation attempts exhausted")
)

// Next returns the identifier following latest. An empty latest yields prefix+"001".
func Next(prefix, latest string) (string, error) {
	latest = strings.TrimSpace(latest)
	if latest == "" {
		return format(prefix, 1), nil
	}
	suffix := strings.TrimPrefix(latest, prefix)
	n, err := strconv.Atoi(suffix)
	if err != nil || n < 0 {
		return "", fmt.Errorf("%w: %q", ErrMalformed, latest)
	}
	return format(prefix, n+1), nil
}

func format(prefix string, n int) string {
	return fmt.Sprintf("%s%0*d", prefix, MinDigits, n)
}

// LatestFunc reads the identifier of the most recently created record, or "" if none.
type LatestFunc func(ctx context.Context) (string, error)

// CreateFunc persists a record under id and reports ErrDuplicate on collision.
type CreateFunc func(ctx context.Context, id string) error

// Generate reads the latest identifier, derives the next one and attempts the
// create, retrying with a fresh identifier while the store reports ErrDuplicate.
func Generate(ctx context.Context, prefix string, latest LatestFunc, create CreateFunc, attempts int) (string, error) {
	if attempts <= 0 {
		attempts = DefaultAttempts
	}
	for i := 0; i < attempts; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		current, err := latest(ctx)
		if err != nil {
			return "", err
		}
		id, err := Next(prefix, current)
		if err != nil {
			return "", err
		}
		err = create(ctx, id)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, ErrDuplicate) {
			return "", err
		}
	}
	return "", fmt.Errorf("%w: prefix %s after %d attempts", ErrExhausted, prefix, attempts)
}
