package dto

import (
	"time"

	"github.com/Temutjin2k/bus-fare-terminal/internal/domain/models"
	"github.com/Temutjin2k/bus-fare-terminal/pkg/validator"
)

type CoordinateReq struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

func (r *CoordinateReq) Validate(v *validator.Validator) {
	if r.Latitude != nil && r.Longitude != nil {
		v.Check(*r.Latitude >= -90 && *r.Latitude <= 90, "latitude", "must be between -90 and 90")
		v.Check(*r.Longitude >= -180 && *r.Longitude <= 180, "longitude", "must be between -180 and 180")
	} else {
		v.Check(r.Latitude != nil, "latitude", "must be provided")
		v.Check(r.Longitude != nil, "longitude", "must be provided")
	}
}

// ToModel must be called after a successful Validate.
func (r *CoordinateReq) ToModel() models.Coordinate {
	return models.Coordinate{Latitude: *r.Latitude, Longitude: *r.Longitude}
}

// RecordLocationReq is one position report of the fleet tracker.
type RecordLocationReq struct {
	CoordinateReq
	SpeedKmh       *float64 `json:"speed_kmh"`
	HeadingDegrees *float64 `json:"heading_degrees"`
}

func (r *RecordLocationReq) Validate(v *validator.Validator) {
	r.CoordinateReq.Validate(v)
	if r.SpeedKmh != nil {
		v.Check(*r.SpeedKmh >= 0, "speed_kmh", "must not be negative")
	}
	if r.HeadingDegrees != nil {
		v.Check(*r.HeadingDegrees >= 0 && *r.HeadingDegrees < 360, "heading_degrees", "must be between 0 and 360")
	}
}

// DevicePositionReq is the driver device geolocation. Denied reports that
// the device refused to share a position.
type DevicePositionReq struct {
	CoordinateReq
	SpeedKmh *float64 `json:"speed_kmh"`
	Denied   bool     `json:"denied"`
}

func (r *DevicePositionReq) Validate(v *validator.Validator) {
	if r.Denied {
		v.Check(r.Latitude == nil && r.Longitude == nil, "denied", "must not be sent together with a position")
		return
	}
	r.CoordinateReq.Validate(v)
	if r.SpeedKmh != nil {
		v.Check(*r.SpeedKmh >= 0, "speed_kmh", "must not be negative")
	}
}

type LocationResponse struct {
	BusID          string    `json:"bus_id"`
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	SpeedKmh       float64   `json:"speed_kmh"`
	HeadingDegrees float64   `json:"heading_degrees"`
	Timestamp      time.Time `json:"timestamp"`
}

func NewLocationResponse(s models.BusLocationSample) LocationResponse {
	return LocationResponse{
		BusID:          s.BusID,
		Latitude:       s.Coordinate.Latitude,
		Longitude:      s.Coordinate.Longitude,
		SpeedKmh:       s.SpeedKmh,
		HeadingDegrees: s.HeadingDegrees,
		Timestamp:      s.Timestamp,
	}
}

func NewLocationResponses(samples []models.BusLocationSample) []LocationResponse {
	out := make([]LocationResponse, 0, len(samples))
	for _, s := range samples {
		out = append(out, NewLocationResponse(s))
	}
	return out
}
