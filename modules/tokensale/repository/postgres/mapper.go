package postgres

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/tokensale/modules/tokensale/internal/entity"
	"github.com/shopspring/decimal"
)

// eventRow mirrors the tokensale_events table. Amounts are stored as text to
// keep fixed-point values exact.
type eventRow struct {
	Sequence     int64
	Type         string
	Address      string
	Counterparty string
	BlockId      int32
	Amount       string
	Timestamp    time.Time
}

func mapEventToRow(event entity.Event) eventRow {
	return eventRow{
		Sequence:     int64(event.Sequence),
		Type:         string(event.Type),
		Address:      event.Address,
		Counterparty: event.Counterparty,
		BlockId:      event.BlockId,
		Amount:       event.Amount.String(),
		Timestamp:    event.Timestamp.UTC(),
	}
}

func mapRowToEvent(row eventRow) (entity.Event, error) {
	amount, err := decimal.NewFromString(row.Amount)
	if err != nil {
		return entity.Event{}, errors.Wrapf(err, "invalid amount %q in event %d", row.Amount, row.Sequence)
	}
	return entity.Event{
		Sequence:     uint64(row.Sequence),
		Type:         entity.EventType(row.Type),
		Address:      row.Address,
		Counterparty: row.Counterparty,
		BlockId:      row.BlockId,
		Amount:       amount,
		Timestamp:    row.Timestamp,
	}, nil
}
