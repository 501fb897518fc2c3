package terminal

import (
	"context"

	"github.com/Temutjin2k/bus-fare-terminal/internal/domain/models"
)

type QuoteCreator interface {
	CreateQuote(ctx context.Context, req models.QuoteRequest) (*models.FareQuote, error)
}

type QuoteConfirmer interface {
	ConfirmQuote(ctx context.Context, req models.ConfirmRequest) (*models.Ticket, error)
}

type LocationFeed interface {
	RecordLocation(ctx context.Context, busID string, c models.Coordinate, speedKmh, headingDegrees *float64) error
	GetCurrentLocation(ctx context.Context, busID string) (*models.Coordinate, error)
}

// DeviceFixes answers with the usable fix of the driver device, if any.
type DeviceFixes interface {
	Latest(busID string) (*models.DeviceFix, bool)
}

type Publisher interface {
	Publish(ctx context.Context, event models.FareEvent)
}
