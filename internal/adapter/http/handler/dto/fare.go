package dto

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/Temutjin2k/bus-fare-terminal/internal/domain/models"
	"github.com/Temutjin2k/bus-fare-terminal/pkg/validator"
	"github.com/google/uuid"
)

type SelectDestinationReq struct {
	DestinationID string `json:"destination_id"`
}

func (r *SelectDestinationReq) Validate(v *validator.Validator) {
	v.Check(r.DestinationID != "", "destination_id", "must be provided")
	if r.DestinationID != "" {
		_, err := uuid.Parse(r.DestinationID)
		v.Check(err == nil, "destination_id", "must be a valid uuid")
	}
}

// DestinationQuery holds the query string of the destination list.
type DestinationQuery struct {
	Near *models.Coordinate
	Term string
}

const maxSearchTerm = 100

// ParseDestinationQuery reads lat, lng and q. A reference point needs both coordinates.
func ParseDestinationQuery(q url.Values, v *validator.Validator) DestinationQuery {
	var out DestinationQuery

	out.Term = strings.TrimSpace(q.Get("q"))
	v.Check(len(out.Term) <= maxSearchTerm, "q", "must not be more than 100 characters")

	rawLat, rawLng := q.Get("lat"), q.Get("lng")
	if rawLat == "" && rawLng == "" {
		return out
	}
	v.Check(rawLat != "", "lat", "must be provided together with lng")
	v.Check(rawLng != "", "lng", "must be provided together with lat")
	if !v.Valid() {
		return out
	}

	lat, err := strconv.ParseFloat(rawLat, 64)
	v.Check(err == nil, "lat", "must be a number")
	lng, err := strconv.ParseFloat(rawLng, 64)
	v.Check(err == nil, "lng", "must be a number")
	if !v.Valid() {
		return out
	}

	c := CoordinateReq{Latitude: &lat, Longitude: &lng}
	c.Validate(v)
	if v.Valid() {
		near := c.ToModel()
		out.Near = &near
	}
	return out
}
