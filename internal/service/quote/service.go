package quote

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Temutjin2k/bus-fare-terminal/internal/domain/models"
	"github.com/Temutjin2k/bus-fare-terminal/internal/domain/types"
	farecalc "github.com/Temutjin2k/bus-fare-terminal/internal/service/calculator"
	"github.com/Temutjin2k/bus-fare-terminal/pkg/logger"
	wrap "github.com/Temutjin2k/bus-fare-terminal/pkg/logger/wrapper"
	"github.com/Temutjin2k/bus-fare-terminal/pkg/metrics"
)

// Service creates and reads immutable fare quotes.
type Service struct {
	destinations DestinationReader
	quotes       QuoteRepo
	policy       farecalc.Policy

	now func() time.Time
	log logger.Logger
}

func New(destinations DestinationReader, quotes QuoteRepo, policy farecalc.Policy, log logger.Logger) *Service {
	return &Service{
		destinations: destinations,
		quotes:       quotes,
		policy:       policy,
		now:          time.Now,
		log:          log,
	}
}

// WithClock replaces the time source, used by tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// CreateQuote prices the route from req.Origin to the destination and persists the quote.
// No row is written when the destination is unknown or inactive.
func (s *Service) CreateQuote(ctx context.Context, req models.QuoteRequest) (_ *models.FareQuote, err error) {
	ctx = wrap.WithAction(ctx, types.ActionCreateQuote)
	ctx = wrap.WithBusID(ctx, req.BusID)
	defer func() { metrics.RecordQuote(err) }()

	destination, err := s.destinations.Get(ctx, req.DestinationID)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("resolve destination %s: %w", req.DestinationID, err))
	}
	if !destination.IsActive {
		return nil, wrap.Error(ctx, types.ErrDestinationNotFound)
	}

	route := s.policy.PriceRoute(req.Origin, destination.Coordinate)

	q := &models.FareQuote{
		ID:            uuid.New(),
		Origin:        req.Origin,
		DestinationID: destination.ID,
		Fare:          route.Fare,
		Currency:      s.policy.Currency,
		Breakdown:     route.Breakdown,
		DistanceKm:    route.DistanceKm,
		EtaMinutes:    route.EtaMinutes,
		BusID:         req.BusID,
		DriverID:      req.DriverID,
		CreatedAt:     s.now().UTC(),
	}

	ctx = wrap.WithQuoteID(ctx, q.ID.String())
	if err := s.quotes.Create(ctx, q); err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("persist quote: %w", err))
	}

	s.log.Info(ctx, "fare quote created",
		"destination", destination.Name,
		"distance_km", route.Breakdown.DistanceKm,
		"fare", q.Fare,
		"eta_minutes", q.EtaMinutes,
	)

	return q, nil
}

func (s *Service) GetQuote(ctx context.Context, id uuid.UUID) (*models.FareQuote, error) {
	ctx = wrap.WithAction(ctx, types.ActionGetQuote)
	ctx = wrap.WithQuoteID(ctx, id.String())

	q, err := s.quotes.Get(ctx, id)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}
	return q, nil
}
