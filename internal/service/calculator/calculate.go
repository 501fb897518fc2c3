package farecalc

import (
	"math"

	"github.com/Temutjin2k/bus-fare-terminal/internal/domain/models"
)

const earthRadiusKm = 6371 // радиус Земли в км

// Distance returns the great-circle distance in kilometers using the haversine formula.
// Coordinates are not validated.
func Distance(p1, p2 models.Coordinate) float64 {
	// градусы в радианы
	lat1Rad := p1.Latitude * math.Pi / 180
	lon1Rad := p1.Longitude * math.Pi / 180
	lat2Rad := p2.Latitude * math.Pi / 180
	lon2Rad := p2.Longitude * math.Pi / 180

	diffLat := lat2Rad - lat1Rad
	diffLon := lon2Rad - lon1Rad

	a := math.Pow(math.Sin(diffLat/2), 2) + math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Pow(math.Sin(diffLon/2), 2)
	angle := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * angle
}

// Policy is the fixed rate table of a deployment.
type Policy struct {
	BaseFare        int64
	PerKmRate       int64
	Currency        string
	AverageSpeedKmh float64
}

// Route is the priced result of PriceRoute.
type Route struct {
	Fare       int64
	Breakdown  models.FareBreakdown
	DistanceKm float64
	EtaMinutes int
}

// PriceRoute prices the trip from origin to destination.
func (p Policy) PriceRoute(origin, destination models.Coordinate) Route {
	distanceKm := Distance(origin, destination)

	return Route{
		Fare: p.Fare(distanceKm),
		Breakdown: models.FareBreakdown{
			Base:       p.BaseFare,
			PerKm:      p.PerKmRate,
			DistanceKm: RoundTo2(distanceKm),
		},
		DistanceKm: distanceKm,
		EtaMinutes: p.Duration(distanceKm),
	}
}

// Fare rounds base + distance*perKm to the nearest whole currency unit.
func (p Policy) Fare(distanceKm float64) int64 {
	return int64(math.Round(float64(p.BaseFare) + distanceKm*float64(p.PerKmRate)))
}

// Duration returns the ETA in whole minutes, rounded up.
func (p Policy) Duration(distanceKm float64) int {
	if distanceKm <= 0 || p.AverageSpeedKmh <= 0 {
		return 0
	}
	// Время (в минутах) = (Расстояние / Скорость) * 60
	minutes := distanceKm / p.AverageSpeedKmh * 60
	return int(math.Ceil(minutes))
}

func RoundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}
