package location

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Temutjin2k/bus-fare-terminal/internal/domain/models"
	"github.com/Temutjin2k/bus-fare-terminal/internal/domain/types"
	"github.com/Temutjin2k/bus-fare-terminal/pkg/logger"
	wrap "github.com/Temutjin2k/bus-fare-terminal/pkg/logger/wrapper"
	"github.com/Temutjin2k/bus-fare-terminal/pkg/metrics"
)

// Feed is the pull-based record of where each bus was last seen.
type Feed struct {
	repo SampleRepo
	now  func() time.Time
	log  logger.Logger
}

func NewFeed(repo SampleRepo, log logger.Logger) *Feed {
	return &Feed{repo: repo, now: time.Now, log: log}
}

// WithClock replaces the time source, used by tests.
func (f *Feed) WithClock(now func() time.Time) *Feed {
	f.now = now
	return f
}

// RecordLocation appends one sample for the bus. Missing speed or heading are stored as 0.
func (f *Feed) RecordLocation(ctx context.Context, busID string, c models.Coordinate, speedKmh, headingDegrees *float64) (err error) {
	ctx = wrap.WithAction(ctx, types.ActionRecordLocation)
	ctx = wrap.WithBusID(ctx, busID)
	defer func() { metrics.RecordLocationSample(err) }()

	if strings.TrimSpace(busID) == "" {
		return fmt.Errorf("%w: bus id is required", types.ErrValidation)
	}
	if err := c.Validate(); err != nil {
		return err
	}

	sample := models.BusLocationSample{
		BusID:      busID,
		Coordinate: c,
		Timestamp:  f.now().UTC(),
	}
	if speedKmh != nil {
		sample.SpeedKmh = *speedKmh
	}
	if headingDegrees != nil {
		sample.HeadingDegrees = *headingDegrees
	}

	if err := f.repo.Create(ctx, sample); err != nil {
		return wrap.Error(ctx, fmt.Errorf("record location: %w", err))
	}

	f.log.Debug(ctx, "location recorded", "lat", c.Latitude, "lng", c.Longitude, "speed_kmh", sample.SpeedKmh)
	return nil
}

// GetCurrentLocation returns the coordinate of the latest sample of the bus,
// or nil when the bus has never reported one.
func (f *Feed) GetCurrentLocation(ctx context.Context, busID string) (*models.Coordinate, error) {
	s, err := f.CurrentSample(ctx, busID)
	if err != nil || s == nil {
		return nil, err
	}
	return &s.Coordinate, nil
}

// CurrentSample is GetCurrentLocation with speed, heading and timestamp.
func (f *Feed) CurrentSample(ctx context.Context, busID string) (*models.BusLocationSample, error) {
	ctx = wrap.WithAction(ctx, types.ActionCurrentLocation)
	ctx = wrap.WithBusID(ctx, busID)

	s, err := f.repo.Latest(ctx, busID)
	if err != nil {
		if errors.Is(err, types.ErrNoLocationSamples) {
			return nil, nil
		}
		return nil, wrap.Error(ctx, fmt.Errorf("current location: %w", err))
	}
	return s, nil
}

// FleetPositions returns the latest sample of every bus that ever reported.
func (f *Feed) FleetPositions(ctx context.Context) ([]models.BusLocationSample, error) {
	ctx = wrap.WithAction(ctx, types.ActionFleetPositions)

	samples, err := f.repo.LatestPerBus(ctx)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("fleet positions: %w", err))
	}
	return samples, nil
}
