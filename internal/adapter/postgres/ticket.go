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

// TicketRepo is insert-only. tickets.quote_id is unique, one ticket per quote.
type TicketRepo struct {
	db *pgxpool.Pool
}

func NewTicketRepo(db *pgxpool.Pool) *TicketRepo {
	return &TicketRepo{db: db}
}

const ticketColumns = `id, quote_id, bus_id, driver_id, origin_latitude, origin_longitude,
	destination_id, fare, currency, status, confirmed_at`

func (r *TicketRepo) Create(ctx context.Context, t *models.Ticket) (err error) {
	const op = "TicketRepo.Create"
	defer func(start time.Time) { observe(op, start, err) }(time.Now())

	query := `INSERT INTO tickets (` + ticketColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);`

	_, err = TxorDB(ctx, r.db).Exec(ctx, query,
		t.ID, t.QuoteID, nullable(t.BusID), nullable(t.DriverID), t.Origin.Latitude, t.Origin.Longitude,
		t.DestinationID, t.Fare, t.Currency, t.Status, t.ConfirmedAt,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return types.ErrTicketExists
		}
		if postgres.IsForeignKeyViolation(err) {
			return types.ErrQuoteNotFound
		}
		return dbError(ctx, op, err)
	}

	return nil
}

func (r *TicketRepo) Get(ctx context.Context, id string) (_ *models.Ticket, err error) {
	const op = "TicketRepo.Get"
	defer func(start time.Time) { observe(op, start, err) }(time.Now())

	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id = $1;`

	t, err := scanTicket(TxorDB(ctx, r.db).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrTicketNotFound
		}
		return nil, dbError(ctx, op, err)
	}
	return t, nil
}

func (r *TicketRepo) GetByQuoteID(ctx context.Context, quoteID uuid.UUID) (_ *models.Ticket, err error) {
	const op = "TicketRepo.GetByQuoteID"
	defer func(start time.Time) { observe(op, start, err) }(time.Now())

	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE quote_id = $1;`

	t, err := scanTicket(TxorDB(ctx, r.db).QueryRow(ctx, query, quoteID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, types.ErrTicketNotFound
		}
		return nil, dbError(ctx, op, err)
	}
	return t, nil
}

func scanTicket(row pgx.Row) (*models.Ticket, error) {
	var (
		t               models.Ticket
		busID, driverID *string
	)
	if err := row.Scan(
		&t.ID, &t.QuoteID, &busID, &driverID, &t.Origin.Latitude, &t.Origin.Longitude,
		&t.DestinationID, &t.Fare, &t.Currency, &t.Status, &t.ConfirmedAt,
	); err != nil {
		return nil, err
	}
	t.BusID = deref(busID)
	t.DriverID = deref(driverID)
	return &t, nil
}
