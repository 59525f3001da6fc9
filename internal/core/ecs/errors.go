package ecs

import "errors"

var (
	// ErrNotFound is returned when a row required to exist is absent.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateKey is returned by Insert when the primary key is taken.
	ErrDuplicateKey = errors.New("duplicate key")
	// ErrInvariantViolation marks a request that would break a world invariant,
	// e.g. promoting a queued action while another one is running.
	ErrInvariantViolation = errors.New("invariant violation")
)
