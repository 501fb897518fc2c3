package models

import (
	"time"

	"github.com/google/uuid"
)

type FareBreakdown struct {
	Base       int64   `json:"base"`
	PerKm      int64   `json:"per_km"`
	DistanceKm float64 `json:"distance_km"`
}

// FareQuote is a priced fare proposal. It is never mutated after creation.
type FareQuote struct {
	ID            uuid.UUID     `json:"id"`
	Origin        Coordinate    `json:"origin"`
	DestinationID uuid.UUID     `json:"destination_id"`
	Fare          int64         `json:"fare"`
	Currency      string        `json:"currency"`
	Breakdown     FareBreakdown `json:"breakdown"`
	DistanceKm    float64       `json:"distance_km"`
	EtaMinutes    int           `json:"eta_minutes"`
	BusID         string        `json:"bus_id,omitempty"`
	DriverID      string        `json:"driver_id,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}

// QuoteRequest holds the input of a quote creation.
type QuoteRequest struct {
	Origin        Coordinate
	DestinationID uuid.UUID
	BusID         string
	DriverID      string
}
