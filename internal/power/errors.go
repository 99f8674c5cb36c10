package power

import "errors"

var (
	// ErrUnknownLocation is returned when a site id is not in the profile table.
	ErrUnknownLocation = errors.New("unknown location")

	// ErrInvalidInput is returned when a fixed-length input sequence has the
	// wrong number of elements.
	ErrInvalidInput = errors.New("invalid input")
)
