package terminal

import (
	"context"
	"fmt"

	"github.com/Temutjin2k/bus-fare-terminal/internal/domain/models"
	"github.com/Temutjin2k/bus-fare-terminal/internal/domain/types"
	"github.com/Temutjin2k/bus-fare-terminal/pkg/logger"
	wrap "github.com/Temutjin2k/bus-fare-terminal/pkg/logger/wrapper"
)

// Locator resolves the origin of a fare: device fix, then the last position
// known to the location feed, then the configured default.
type Locator struct {
	device   DeviceFixes
	feed     LocationFeed
	fallback *models.Coordinate
	log      logger.Logger
}

func NewLocator(device DeviceFixes, feed LocationFeed, fallback *models.Coordinate, log logger.Logger) *Locator {
	return &Locator{device: device, feed: feed, fallback: fallback, log: log}
}

func (l *Locator) Resolve(ctx context.Context, busID string) (models.Coordinate, LocationSource, error) {
	ctx = wrap.WithAction(ctx, types.ActionResolveLocation)

	if l.device != nil {
		if fix, ok := l.device.Latest(busID); ok {
			if l.feed != nil {
				if err := l.feed.RecordLocation(ctx, busID, fix.Coordinate, fix.SpeedKmh, nil); err != nil {
					l.log.Warn(ctx, "failed to record device fix", "error", err.Error())
				}
			}
			return fix.Coordinate, SourceDevice, nil
		}
	}

	if l.feed != nil {
		c, err := l.feed.GetCurrentLocation(ctx, busID)
		switch {
		case err != nil:
			l.log.Warn(ctx, "last known location lookup failed", "error", err.Error())
		case c != nil:
			return *c, SourceLastKnown, nil
		}
	}

	if l.fallback != nil {
		return *l.fallback, SourceDefault, nil
	}

	return models.Coordinate{}, "", fmt.Errorf("bus %s: %w", busID, types.ErrLocationUnavailable)
}
