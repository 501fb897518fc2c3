package quote

import (
	"context"

	"github.com/google/uuid"

	"github.com/Temutjin2k/bus-fare-terminal/internal/domain/models"
)

type DestinationReader interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Destination, error)
}

type QuoteRepo interface {
	Create(ctx context.Context, q *models.FareQuote) error
	Get(ctx context.Context, id uuid.UUID) (*models.FareQuote, error)
}
