package datagateway

import (
	"context"

	"github.com/gaze-network/tokensale/modules/tokensale/internal/entity"
)

// TokenSaleDataGateway persists the ledger's event log so an external indexer
// can reconstruct ledger state from events alone.
type TokenSaleDataGateway interface {
	AddEvent(ctx context.Context, event entity.Event) error
	GetEvents(ctx context.Context, params GetEventsParams) ([]entity.Event, error)
	GetEventsByAddress(ctx context.Context, address string) ([]entity.Event, error)
}

type GetEventsParams struct {
	// Type filters by event type when non-empty.
	Type entity.EventType
	// Limit caps the number of returned events; zero means no limit.
	Limit int32
}
