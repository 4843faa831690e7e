package memory

import (
	"context"
	"sync"

	"github.com/gaze-network/tokensale/modules/tokensale/datagateway"
	"github.com/gaze-network/tokensale/modules/tokensale/internal/entity"
)

// Repository is an in-memory event store for api-only/dev deployments and
// tests. Events are kept in append order.
type Repository struct {
	mu     sync.RWMutex
	events []entity.Event
}

var _ datagateway.TokenSaleDataGateway = (*Repository)(nil)

func NewRepository() *Repository {
	return &Repository{}
}

func (r *Repository) AddEvent(_ context.Context, event entity.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *Repository) GetEvents(_ context.Context, params datagateway.GetEventsParams) ([]entity.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	events := make([]entity.Event, 0, len(r.events))
	for _, event := range r.events {
		if params.Type != "" && event.Type != params.Type {
			continue
		}
		events = append(events, event)
		if params.Limit > 0 && int32(len(events)) >= params.Limit {
			break
		}
	}
	return events, nil
}

func (r *Repository) GetEventsByAddress(_ context.Context, address string) ([]entity.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var events []entity.Event
	for _, event := range r.events {
		if event.Address == address || event.Counterparty == address {
			events = append(events, event)
		}
	}
	return events, nil
}
