package models

import (
	"github.com/google/uuid"
)

// Destination is a named point of interest maintained outside of the fare engine.
type Destination struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	Address    string     `json:"address,omitempty"`
	Coordinate Coordinate `json:"coordinate"`
	Zone       string     `json:"zone,omitempty"`
	IsActive   bool       `json:"is_active"`
}

// NearbyDestination is an active destination annotated with its distance from a reference point.
type NearbyDestination struct {
	Destination
	DistanceKm *float64 `json:"distance_km,omitempty"`
	Frequent   bool     `json:"frequent"`
}
