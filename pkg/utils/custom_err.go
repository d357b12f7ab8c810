package utils

import "errors"

// Engine error taxonomy.
var (
	// ErrNetwork covers any external call that was unreachable or timed out.
	ErrNetwork = errors.New("external service unreachable")
	// ErrMalformedResponse marks AI or JSON output that is invalid or references unknown candidates.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrNoCandidates is returned when filtering leaves nothing to schedule.
	ErrNoCandidates = errors.New("no places match")
	// ErrUnresolvedAnchor is returned when the lodging address cannot be geocoded.
	ErrUnresolvedAnchor = errors.New("anchor could not be resolved")
	// ErrGeometryUnresolved is returned when an activity has no coordinate.
	ErrGeometryUnresolved = errors.New("activity has no coordinate")
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrTripNotFound     = errors.New("trip not found")
	ErrDayNotFound      = errors.New("day not found")
	ErrActivityNotFound = errors.New("activity not found")
	ErrPlaceNotFound    = errors.New("place not found")
	ErrDatabaseError    = errors.New("database error")
	ErrStaleGeneration  = errors.New("superseded by a newer generation request")
	ErrAINotConfigured  = errors.New("ai provider not configured")
	ErrUnauthorized     = errors.New("unauthorized")
)
