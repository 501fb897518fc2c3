package destination

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/Temutjin2k/bus-fare-terminal/internal/domain/models"
	"github.com/Temutjin2k/bus-fare-terminal/internal/domain/types"
	farecalc "github.com/Temutjin2k/bus-fare-terminal/internal/service/calculator"
	"github.com/Temutjin2k/bus-fare-terminal/pkg/logger"
	wrap "github.com/Temutjin2k/bus-fare-terminal/pkg/logger/wrapper"
)

// FrequentCount is how many leading entries of a listing are flagged as frequent.
const FrequentCount = 4

// Catalog serves the destination picker of the driver terminal.
type Catalog struct {
	repo Repo
	log  logger.Logger
}

func NewCatalog(repo Repo, log logger.Logger) *Catalog {
	return &Catalog{repo: repo, log: log}
}

// Get returns an active destination.
func (c *Catalog) Get(ctx context.Context, id uuid.UUID) (*models.Destination, error) {
	d, err := c.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !d.IsActive {
		return nil, types.ErrDestinationNotFound
	}
	return d, nil
}

// List returns the active destinations matching term (case-insensitive on
// name, address and zone). When near is set the result is ordered by distance
// from it, otherwise by name.
func (c *Catalog) List(ctx context.Context, near *models.Coordinate, term string) ([]models.NearbyDestination, error) {
	ctx = wrap.WithAction(ctx, types.ActionListDestinations)

	all, err := c.repo.ListActive(ctx)
	if err != nil {
		return nil, wrap.Error(ctx, err)
	}

	term = strings.ToLower(strings.TrimSpace(term))
	out := make([]models.NearbyDestination, 0, len(all))
	for _, d := range all {
		if !d.IsActive || !matches(d, term) {
			continue
		}

		nd := models.NearbyDestination{Destination: d}
		if near != nil {
			km := farecalc.RoundTo2(farecalc.Distance(*near, d.Coordinate))
			nd.DistanceKm = &km
		}
		out = append(out, nd)
	}

	if near != nil {
		sort.SliceStable(out, func(i, j int) bool {
			return *out[i].DistanceKm < *out[j].DistanceKm
		})
	} else {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Name < out[j].Name
		})
	}

	for i := range out {
		out[i].Frequent = i < FrequentCount
	}

	c.log.Debug(ctx, "destinations listed", "count", len(out), "term", term, "by_distance", near != nil)
	return out, nil
}

func matches(d models.Destination, term string) bool {
	if term == "" {
		return true
	}
	for _, field := range []string{d.Name, d.Address, d.Zone} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}
