package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	repo "github.com/Temutjin2k/bus-fare-terminal/internal/adapter/postgres"
	"github.com/Temutjin2k/bus-fare-terminal/internal/domain/models"
	"github.com/Temutjin2k/bus-fare-terminal/internal/domain/types"
	"github.com/Temutjin2k/bus-fare-terminal/pkg/trm"
	"github.com/Temutjin2k/bus-fare-terminal/testutil"
)

var errRollback = assert.AnError

// inTx runs fn inside a transaction that is always rolled back, so tests never leave rows behind.
func inTx(t *testing.T, pool *pgxpool.Pool, fn func(ctx context.Context)) {
	t.Helper()
	err := trm.New(pool).Do(context.Background(), func(ctx context.Context) error {
		fn(ctx)
		return errRollback
	})
	require.ErrorIs(t, err, errRollback)
}

func insertDestination(t *testing.T, ctx context.Context, pool *pgxpool.Pool, name string, active bool) uuid.UUID {
	t.Helper()
	var id uuid.UUID
	err := repo.TxorDB(ctx, pool).QueryRow(ctx,
		`INSERT INTO destinations (name, latitude, longitude, zone, is_active) VALUES ($1, -25.29, -57.63, 'Test', $2) RETURNING id`,
		name, active,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

func newQuote(destID uuid.UUID) *models.FareQuote {
	return &models.FareQuote{
		ID:            uuid.New(),
		Origin:        models.Coordinate{Latitude: -25.2808, Longitude: -57.6312},
		DestinationID: destID,
		Fare:          9500,
		Currency:      "PYG",
		Breakdown:     models.FareBreakdown{Base: 5000, PerKm: 1500, DistanceKm: 3},
		DistanceKm:    3.0001,
		EtaMinutes:    7,
		BusID:         "BUS_001",
		CreatedAt:     time.Now().UTC().Truncate(time.Microsecond),
	}
}

func TestDestinationRepo(t *testing.T) {
	pool := testutil.NewPool(t)
	destinations := repo.NewDestinationRepo(pool)

	inTx(t, pool, func(ctx context.Context) {
		active := insertDestination(t, ctx, pool, "zz-active", true)
		inactive := insertDestination(t, ctx, pool, "zz-inactive", false)

		d, err := destinations.Get(ctx, active)
		require.NoError(t, err)
		assert.Equal(t, "zz-active", d.Name)
		assert.Equal(t, "Test", d.Zone)
		assert.Empty(t, d.Address)

		_, err = destinations.Get(ctx, inactive)
		assert.ErrorIs(t, err, types.ErrNotFound)

		list, err := destinations.ListActive(ctx)
		require.NoError(t, err)
		var names []string
		for _, d := range list {
			names = append(names, d.Name)
		}
		assert.Contains(t, names, "zz-active")
		assert.NotContains(t, names, "zz-inactive")
	})
}

func TestQuoteAndTicketRepo(t *testing.T) {
	pool := testutil.NewPool(t)
	quotes := repo.NewQuoteRepo(pool)
	tickets := repo.NewTicketRepo(pool)

	inTx(t, pool, func(ctx context.Context) {
		destID := insertDestination(t, ctx, pool, "zz-centro", true)
		q := newQuote(destID)
		require.NoError(t, quotes.Create(ctx, q))

		got, err := quotes.Get(ctx, q.ID)
		require.NoError(t, err)
		assert.Equal(t, q.Fare, got.Fare)
		assert.Equal(t, q.Breakdown, got.Breakdown)
		assert.Equal(t, "BUS_001", got.BusID)
		assert.Empty(t, got.DriverID)
		assert.True(t, q.CreatedAt.Equal(got.CreatedAt))

		_, err = quotes.Get(ctx, uuid.New())
		assert.ErrorIs(t, err, types.ErrQuoteNotFound)

		ticket := &models.Ticket{
			ID: "tkt_" + uuid.NewString(), QuoteID: q.ID, BusID: q.BusID,
			Origin: q.Origin, DestinationID: q.DestinationID, Fare: q.Fare, Currency: q.Currency,
			Status: types.TicketStatusConfirmed, ConfirmedAt: time.Now().UTC().Truncate(time.Microsecond),
		}
		require.NoError(t, tickets.Create(ctx, ticket))

		byQuote, err := tickets.GetByQuoteID(ctx, q.ID)
		require.NoError(t, err)
		assert.Equal(t, ticket.ID, byQuote.ID)
		assert.Equal(t, q.Fare, byQuote.Fare)

		_, err = tickets.Get(ctx, "tkt_missing")
		assert.ErrorIs(t, err, types.ErrTicketNotFound)
	})
}

func TestTicketRepo_UniquePerQuote(t *testing.T) {
	pool := testutil.NewPool(t)
	quotes := repo.NewQuoteRepo(pool)
	tickets := repo.NewTicketRepo(pool)

	inTx(t, pool, func(ctx context.Context) {
		q := newQuote(insertDestination(t, ctx, pool, "zz-unique", true))
		require.NoError(t, quotes.Create(ctx, q))

		mk := func() *models.Ticket {
			return &models.Ticket{
				ID: "tkt_" + uuid.NewString(), QuoteID: q.ID, Origin: q.Origin, DestinationID: q.DestinationID,
				Fare: q.Fare, Currency: q.Currency, Status: types.TicketStatusConfirmed, ConfirmedAt: time.Now(),
			}
		}
		require.NoError(t, tickets.Create(ctx, mk()))
		assert.ErrorIs(t, tickets.Create(ctx, mk()), types.ErrTicketExists)
	})
}

func TestBusLocationRepo(t *testing.T) {
	pool := testutil.NewPool(t)
	locations := repo.NewBusLocationRepo(pool)

	inTx(t, pool, func(ctx context.Context) {
		base := time.Now().UTC().Truncate(time.Second)
		busA := "zz-" + uuid.NewString()
		busB := "zz-" + uuid.NewString()

		require.NoError(t, locations.Create(ctx, models.BusLocationSample{BusID: busA, Coordinate: models.Coordinate{Latitude: 1, Longitude: 1}, Timestamp: base}))
		require.NoError(t, locations.Create(ctx, models.BusLocationSample{BusID: busA, Coordinate: models.Coordinate{Latitude: 2, Longitude: 2}, SpeedKmh: 30, Timestamp: base.Add(time.Minute)}))
		require.NoError(t, locations.Create(ctx, models.BusLocationSample{BusID: busB, Coordinate: models.Coordinate{Latitude: 3, Longitude: 3}, Timestamp: base}))

		latest, err := locations.Latest(ctx, busA)
		require.NoError(t, err)
		assert.Equal(t, 2.0, latest.Coordinate.Latitude)
		assert.Equal(t, 30.0, latest.SpeedKmh)

		_, err = locations.Latest(ctx, "zz-nobody")
		assert.ErrorIs(t, err, types.ErrNotFound)

		all, err := locations.LatestPerBus(ctx)
		require.NoError(t, err)
		perBus := map[string]float64{}
		for _, s := range all {
			perBus[s.BusID] = s.Coordinate.Latitude
		}
		assert.Equal(t, 2.0, perBus[busA])
		assert.Equal(t, 3.0, perBus[busB])
	})
}
