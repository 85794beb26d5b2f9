package dyngeo

import (
	"errors"
	"fmt"

	"github.com/hupe1980/dyngeo/geohash"
)

var (
	// ErrNonPositiveRadius is returned when a radius query is issued with a
	// radius of zero or less.
	ErrNonPositiveRadius = errors.New("radius must be positive")

	// ErrInvalidRectangle is returned when a rectangle query's minimum corner
	// does not lie south-west of its maximum corner.
	ErrInvalidRectangle = errors.New("rectangle min corner must be south-west of max corner")

	// ErrMissingRangeKey is returned when a point operation is issued without
	// a range key value.
	ErrMissingRangeKey = errors.New("range key value is required")
)

// ErrInvalidCoordinates indicates a latitude/longitude pair outside the
// WGS84 domain. It aliases the geohash package's error type so callers only
// need to import dyngeo.
type ErrInvalidCoordinates = geohash.ErrInvalidCoordinates

// ErrFanOutExceeded is returned when the planned number of parallel store
// queries for a single request exceeds the configured budget. No store call
// has been issued when this error is returned. Query describes the offending
// request's parameters.
type ErrFanOutExceeded struct {
	Query  string
	Plans  int
	Budget int
}

func (e *ErrFanOutExceeded) Error() string {
	msg := fmt.Sprintf("query requires %d parallel store queries, budget is %d", e.Plans, e.Budget)
	if e.Query != "" {
		msg = e.Query + ": " + msg
	}
	return msg
}

// StoreError wraps a failed DynamoDB round-trip. For fan-out queries it is
// the first failure observed; all sibling queries have been cancelled and no
// partial result is returned.
//
// The underlying AWS SDK error can be accessed via errors.Unwrap.
type StoreError struct {
	Op    string
	cause error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s failed: %v", e.Op, e.cause)
}

func (e *StoreError) Unwrap() error { return e.cause }

func newStoreError(op string, cause error) *StoreError {
	return &StoreError{Op: op, cause: cause}
}
