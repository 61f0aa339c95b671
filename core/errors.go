package core

import "errors"

var (
	// ErrInvalidPeriod marks a degenerate, inverted, or pathologically long
	// reporting range.
	ErrInvalidPeriod = errors.New("invalid period")
	// ErrInvalidMode marks an unknown period mode string.
	ErrInvalidMode = errors.New("invalid mode")
	// ErrMissingIdentifier marks an absent required user or session reference.
	ErrMissingIdentifier = errors.New("missing identifier")
	// ErrNotFound marks an operation targeting a row that does not exist.
	ErrNotFound = errors.New("not found")
)
