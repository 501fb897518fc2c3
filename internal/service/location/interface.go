package location

import (
	"context"

	"github.com/Temutjin2k/bus-fare-terminal/internal/domain/models"
)

type SampleRepo interface {
	Create(ctx context.Context, s models.BusLocationSample) error
	Latest(ctx context.Context, busID string) (*models.BusLocationSample, error)
	LatestPerBus(ctx context.Context) ([]models.BusLocationSample, error)
}
