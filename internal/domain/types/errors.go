package types

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("requested item not found")

	ErrDestinationNotFound = fmt.Errorf("destination: %w", ErrNotFound)
	ErrQuoteNotFound       = fmt.Errorf("fare quote: %w", ErrNotFound)
	ErrTicketNotFound      = fmt.Errorf("ticket: %w", ErrNotFound)
	ErrNoLocationSamples   = fmt.Errorf("bus location: %w", ErrNotFound)

	// ErrTicketExists is reported by the ticket store when the quote already has a ticket.
	ErrTicketExists = errors.New("ticket for quote already exists")

	ErrStoreUnavailable    = errors.New("fare store is unavailable")
	ErrLocationUnavailable = errors.New("current location is unavailable")

	ErrInvalidTransition = errors.New("action is not allowed in the current terminal state")
	ErrInvalidCoordinate = errors.New("coordinate out of range")
	ErrInvalidEvent      = errors.New("invalid fare lifecycle event")
	ErrValidation        = errors.New("validation failed")

	ErrInvalidToken = errors.New("invalid token")
)
