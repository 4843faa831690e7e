package tokensale

import (
	"context"

	"github.com/gaze-network/tokensale/internal/subscription"
	"github.com/gaze-network/tokensale/modules/tokensale/internal/entity"
	"github.com/gaze-network/tokensale/pkg/logger"
	"github.com/gaze-network/tokensale/pkg/logger/slogx"
	"github.com/samber/lo"
)

// Subscribe streams every subsequent ledger event to the given channel until
// the returned subscription is unsubscribed.
func (l *Ledger) Subscribe(channel chan<- entity.Event) *subscription.ClientSubscription[entity.Event] {
	l.mu.Lock()
	defer l.mu.Unlock()

	sub := subscription.NewSubscription(channel)
	l.subs = append(l.subs, sub)
	return sub.Client()
}

// emit assigns the next sequence number, stamps the event and fans it out.
// Persistence failures are logged and do not fail the originating operation:
// the in-memory ledger state is the source of truth, the event log is a
// downstream projection. Caller must hold l.mu.
func (l *Ledger) emit(ctx context.Context, event entity.Event) {
	l.seq++
	event.Sequence = l.seq
	event.Timestamp = l.now()

	if err := l.eventStore.AddEvent(ctx, event); err != nil {
		logger.WarnContext(ctx, "failed to persist ledger event",
			slogx.Error(err),
			slogx.Uint64("sequence", event.Sequence),
			slogx.String("type", string(event.Type)),
		)
	}

	// Dispatch must never block: emit runs under l.mu, so a consumer that
	// stops draining would otherwise wedge every ledger operation. Events
	// that do not fit a subscriber's buffer are dropped for that subscriber.
	l.subs = lo.Filter(l.subs, func(sub *subscription.Subscription[entity.Event], _ int) bool {
		return !sub.IsClosed()
	})
	for _, sub := range l.subs {
		if err := sub.TrySend(event); err != nil {
			logger.WarnContext(ctx, "failed to dispatch ledger event",
				slogx.Error(err),
				slogx.Uint64("sequence", event.Sequence),
			)
		}
	}
}
