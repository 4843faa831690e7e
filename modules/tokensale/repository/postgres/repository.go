package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/tokensale/internal/postgres"
	"github.com/gaze-network/tokensale/modules/tokensale/datagateway"
	"github.com/gaze-network/tokensale/modules/tokensale/internal/entity"
	"github.com/jackc/pgx/v5"
)

// Repository persists ledger events in postgres.
type Repository struct {
	Db postgres.DB
}

var _ datagateway.TokenSaleDataGateway = (*Repository)(nil)

func NewRepository(db postgres.DB) *Repository {
	return &Repository{Db: db}
}

const insertEvent = `INSERT INTO tokensale_events (sequence, type, address, counterparty, block_id, amount, timestamp)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

func (r *Repository) AddEvent(ctx context.Context, event entity.Event) error {
	row := mapEventToRow(event)
	_, err := r.Db.Exec(ctx, insertEvent,
		row.Sequence, row.Type, row.Address, row.Counterparty, row.BlockId, row.Amount, row.Timestamp,
	)
	if err != nil {
		return errors.Wrap(err, "failed to insert event")
	}
	return nil
}

const selectEvents = `SELECT sequence, type, address, counterparty, block_id, amount, timestamp
FROM tokensale_events WHERE ($1 = '' OR type = $1) ORDER BY sequence LIMIT NULLIF($2, 0)`

func (r *Repository) GetEvents(ctx context.Context, params datagateway.GetEventsParams) ([]entity.Event, error) {
	rows, err := r.Db.Query(ctx, selectEvents, string(params.Type), params.Limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query events")
	}
	defer rows.Close()
	return collectEvents(rows)
}

const selectEventsByAddress = `SELECT sequence, type, address, counterparty, block_id, amount, timestamp
FROM tokensale_events WHERE address = $1 OR counterparty = $1 ORDER BY sequence`

func (r *Repository) GetEventsByAddress(ctx context.Context, address string) ([]entity.Event, error) {
	rows, err := r.Db.Query(ctx, selectEventsByAddress, address)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query events by address")
	}
	defer rows.Close()
	return collectEvents(rows)
}

func collectEvents(rows pgx.Rows) ([]entity.Event, error) {
	var events []entity.Event
	for rows.Next() {
		var row eventRow
		if err := rows.Scan(&row.Sequence, &row.Type, &row.Address, &row.Counterparty, &row.BlockId, &row.Amount, &row.Timestamp); err != nil {
			return nil, errors.Wrap(err, "failed to scan event row")
		}
		event, err := mapRowToEvent(row)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate event rows")
	}
	return events, nil
}
