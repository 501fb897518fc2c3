package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Temutjin2k/bus-fare-terminal/internal/domain/models"
	"github.com/Temutjin2k/bus-fare-terminal/internal/domain/types"
	"github.com/Temutjin2k/bus-fare-terminal/pkg/postgres"
)

// QuoteRepo is insert-only: quotes are never updated or deleted.
type QuoteRepo struct {
	db *pgxpool.Pool
}

func NewQuoteRepo(db *pgxpool.Pool) *QuoteRepo {
	return &QuoteRepo{db: db}
}

func (r *QuoteRepo) Create(ctx context.Context, q *models.FareQuote) (err error) {
	const op = "QuoteRepo.Create"
	defer func(start time.Time) { observe(op, start, err) }(time.Now())

	query := `
		INSERT INTO fare_quotes (
			id, origin_latitude, origin_longitude, destination_id, fare, currency,
			base_fare, per_km_rate, breakdown_distance_km, distance_km, eta_minutes,
			bus_id, driver_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);`

	_, err = TxorDB(ctx, r.db).Exec(ctx, query,
		q.ID, q.Origin.Latitude, q.Origin.Longitude, q.DestinationID, q.Fare, q.Currency,
		q.Breakdown.Base, q.Breakdown.PerKm, q.Breakdown.DistanceKm, q.DistanceKm, q.EtaMinutes,
		nullable(q.BusID), nullable(q.DriverID), q.CreatedAt,
	)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return types.ErrDestinationNotFound
		}
		return dbError(ctx, op, err)
	}

	return nil
}

func (r *QuoteRepo) Get(ctx context.Context, id uuid.UUID) (_ *models.FareQuote, err error) {
	const op = "QuoteRepo.Get"
	defer func(start time.Time) { observe(op, start, err) }(time.Now())

	query := `
		SELECT id, origin_latitude, origin_longitude, destination_id, fare, currency,
			base_fare, per_km_rate, breakdown_distance_km, distance_km, eta_minutes,
			bus_id, driver_id, created_at
		FROM fare_quotes
		WHERE id = $1;`

	var (
		q                models.FareQuote
		busID, driverID *string
	)
	err = TxorDB(ctx, r.db).QueryRow(ctx, query, id).Scan(
		&q.ID, &q.Origin.Latitude, &q.Origin.Longitude, &q.DestinationID, &q.Fare, &q.Currency,
		&q.Breakdown.Base, &q.Breakdown.PerKm, &q.Breakdown.DistanceKm, &q.DistanceKm, &q.EtaMinutes,
		&busID, &driverID, &q.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrQuoteNotFound
		}
		return nil, dbError(ctx, op, err)
	}
	q.BusID = deref(busID)
	q.DriverID = deref(driverID)

	return &q, nil
}
