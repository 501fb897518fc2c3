package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Temutjin2k/bus-fare-terminal/internal/domain/models"
	"github.com/Temutjin2k/bus-fare-terminal/internal/domain/types"
)

// BusLocationRepo appends location samples and reads the latest ones.
type BusLocationRepo struct {
	db *pgxpool.Pool
}

func NewBusLocationRepo(db *pgxpool.Pool) *BusLocationRepo {
	return &BusLocationRepo{db: db}
}

func (r *BusLocationRepo) Create(ctx context.Context, s models.BusLocationSample) (err error) {
	const op = "BusLocationRepo.Create"
	defer func(start time.Time) { observe(op, start, err) }(time.Now())

	query := `
		INSERT INTO bus_locations (bus_id, latitude, longitude, speed_kmh, heading_degrees, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6);`

	if _, err = TxorDB(ctx, r.db).Exec(ctx, query,
		s.BusID, s.Coordinate.Latitude, s.Coordinate.Longitude, s.SpeedKmh, s.HeadingDegrees, s.Timestamp,
	); err != nil {
		return dbError(ctx, op, err)
	}

	return nil
}

// Latest returns the most recent sample of the bus.
func (r *BusLocationRepo) Latest(ctx context.Context, busID string) (_ *models.BusLocationSample, err error) {
	const op = "BusLocationRepo.Latest"
	defer func(start time.Time) { observe(op, start, err) }(time.Now())

	query := `
		SELECT bus_id, latitude, longitude, speed_kmh, heading_degrees, recorded_at
		FROM bus_locations
		WHERE bus_id = $1
		ORDER BY recorded_at DESC, id DESC
		LIMIT 1;`

	s, err := scanSample(TxorDB(ctx, r.db).QueryRow(ctx, query, busID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrNoLocationSamples
		}
		return nil, dbError(ctx, op, err)
	}
	return s, nil
}

// LatestPerBus returns the most recent sample of every bus.
func (r *BusLocationRepo) LatestPerBus(ctx context.Context) (_ []models.BusLocationSample, err error) {
	const op = "BusLocationRepo.LatestPerBus"
	defer func(start time.Time) { observe(op, start, err) }(time.Now())

	query := `
		SELECT DISTINCT ON (bus_id) bus_id, latitude, longitude, speed_kmh, heading_degrees, recorded_at
		FROM bus_locations
		ORDER BY bus_id, recorded_at DESC, id DESC;`

	rows, err := TxorDB(ctx, r.db).Query(ctx, query)
	if err != nil {
		return nil, dbError(ctx, op, err)
	}
	defer rows.Close()

	out := make([]models.BusLocationSample, 0)
	for rows.Next() {
		s, err := scanSample(rows)
		if err != nil {
			return nil, dbError(ctx, op, err)
		}
		out = append(out, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(ctx, op, err)
	}

	return out, nil
}

func scanSample(row pgx.Row) (*models.BusLocationSample, error) {
	var s models.BusLocationSample
	if err := row.Scan(&s.BusID, &s.Coordinate.Latitude, &s.Coordinate.Longitude, &s.SpeedKmh, &s.HeadingDegrees, &s.Timestamp); err != nil {
		return nil, err
	}
	return &s, nil
}
