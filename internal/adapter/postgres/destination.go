package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Temutjin2k/bus-fare-terminal/internal/domain/models"
	"github.com/Temutjin2k/bus-fare-terminal/internal/domain/types"
)

// DestinationRepo reads destinations. Rows are maintained by the back office, never written here.
type DestinationRepo struct {
	db *pgxpool.Pool
}

func NewDestinationRepo(db *pgxpool.Pool) *DestinationRepo {
	return &DestinationRepo{db: db}
}

const destinationColumns = `id, name, address, latitude, longitude, zone, is_active`

func scanDestination(row pgx.Row) (*models.Destination, error) {
	var (
		d       models.Destination
		address *string
		zone    *string
	)
	if err := row.Scan(&d.ID, &d.Name, &address, &d.Coordinate.Latitude, &d.Coordinate.Longitude, &zone, &d.IsActive); err != nil {
		return nil, err
	}
	d.Address = deref(address)
	d.Zone = deref(zone)

	if err := d.Coordinate.Validate(); err != nil {
		return nil, fmt.Errorf("destination %s: %w", d.ID, err)
	}
	return &d, nil
}

// Get returns an active destination by id.
func (r *DestinationRepo) Get(ctx context.Context, id uuid.UUID) (_ *models.Destination, err error) {
	const op = "DestinationRepo.Get"
	defer func(start time.Time) { observe(op, start, err) }(time.Now())

	query := `
		SELECT ` + destinationColumns + `
		FROM destinations
		WHERE id = $1 AND is_active;`

	d, err := scanDestination(TxorDB(ctx, r.db).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrDestinationNotFound
		}
		return nil, dbError(ctx, op, err)
	}
	return d, nil
}

// ListActive returns every active destination ordered by name.
func (r *DestinationRepo) ListActive(ctx context.Context) (_ []models.Destination, err error) {
	const op = "DestinationRepo.ListActive"
	defer func(start time.Time) { observe(op, start, err) }(time.Now())

	query := `
		SELECT ` + destinationColumns + `
		FROM destinations
		WHERE is_active
		ORDER BY name;`

	rows, err := TxorDB(ctx, r.db).Query(ctx, query)
	if err != nil {
		return nil, dbError(ctx, op, err)
	}
	defer rows.Close()

	var out []models.Destination
	for rows.Next() {
		d, err := scanDestination(rows)
		if err != nil {
			return nil, dbError(ctx, op, err)
		}
		out = append(out, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(ctx, op, err)
	}

	return out, nil
}
