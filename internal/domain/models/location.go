package models

import (
	"fmt"
	"time"

	"github.com/Temutjin2k/bus-fare-terminal/internal/domain/types"
)

// Coordinate is an immutable geographic point in degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Validate reports whether the coordinate lies in the valid latitude/longitude ranges.
func (c Coordinate) Validate() error {
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("%w: latitude %v", types.ErrInvalidCoordinate, c.Latitude)
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("%w: longitude %v", types.ErrInvalidCoordinate, c.Longitude)
	}
	return nil
}

// BusLocationSample is one append-only position observation of a bus.
type BusLocationSample struct {
	BusID          string     `json:"bus_id"`
	Coordinate     Coordinate `json:"coordinate"`
	SpeedKmh       float64    `json:"speed_kmh"`
	HeadingDegrees float64    `json:"heading_degrees"`
	Timestamp      time.Time  `json:"timestamp"`
}

// DeviceFix is a position reported by the driver's device geolocation.
type DeviceFix struct {
	Coordinate Coordinate
	SpeedKmh   *float64
	ReceivedAt time.Time
}
