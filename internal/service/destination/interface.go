package destination

import (
	"context"

	"github.com/google/uuid"

	"github.com/Temutjin2k/bus-fare-terminal/internal/domain/models"
)

type Repo interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Destination, error)
	ListActive(ctx context.Context) ([]models.Destination, error)
}
