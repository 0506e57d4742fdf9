package domain

import "errors"

var (
	// Common domain errors
	ErrUnknownIntent   = errors.New("unknown intercom intent")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNoDestination   = errors.New("no destination configured for intent")
)
