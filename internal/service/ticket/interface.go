package ticket

import (
	"context"

	"github.com/google/uuid"

	"github.com/Temutjin2k/bus-fare-terminal/internal/domain/models"
)

type QuoteReader interface {
	Get(ctx context.Context, id uuid.UUID) (*models.FareQuote, error)
}

type TicketRepo interface {
	Create(ctx context.Context, t *models.Ticket) error
	Get(ctx context.Context, id string) (*models.Ticket, error)
	GetByQuoteID(ctx context.Context, quoteID uuid.UUID) (*models.Ticket, error)
}
