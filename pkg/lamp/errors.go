package lamp

import "errors"

var (
	// ErrInvalidArgument indicates a lamp number or duration outside the accepted range
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFound indicates no active timer (or record id) matched
	ErrNotFound = errors.New("timer not found")

	// ErrIOFailure indicates the record store or publisher call failed
	ErrIOFailure = errors.New("io failure")

	// ErrNotConnected indicates the publisher has no broker connection
	ErrNotConnected = errors.New("publisher not connected")
)
