package models

import (
	"time"

	"github.com/google/uuid"
)

// Ticket is the immutable record of a confirmed fare.
// Origin, DestinationID, Fare and Currency always equal the source quote.
type Ticket struct {
	ID            string     `json:"id" copier:"-"`
	QuoteID       uuid.UUID  `json:"quote_id"`
	BusID         string     `json:"bus_id,omitempty"`
	DriverID      string     `json:"driver_id,omitempty"`
	Origin        Coordinate `json:"origin"`
	DestinationID uuid.UUID  `json:"destination_id"`
	Fare          int64      `json:"fare"`
	Currency      string     `json:"currency"`
	Status        string     `json:"status"`
	ConfirmedAt   time.Time  `json:"confirmed_at"`
}

type ConfirmRequest struct {
	QuoteID  uuid.UUID
	BusID    string
	DriverID string
}
