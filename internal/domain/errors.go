package domain

import "errors"

// Error kinds surfaced by every component. Callers wrap them with %w so the
// CLI can map each kind to its own exit code.
var (
	ErrValidation    = errors.New("validation failed")
	ErrNotFound      = errors.New("not found")
	ErrSourceRead    = errors.New("cannot read source")
	ErrInvalidStatus = errors.New("invalid status")
	ErrDelivery      = errors.New("delivery failed")
)
