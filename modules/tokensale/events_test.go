package tokensale

import (
	"context"
	"testing"
	"time"

	"github.com/gaze-network/tokensale/modules/tokensale/datagateway"
	"github.com/gaze-network/tokensale/modules/tokensale/internal/entity"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventLog(t *testing.T) {
	ctx := context.Background()
	ledger, _, _ := newTestLedger(t)
	eventStore := ledger.eventStore

	require.NoError(t, ledger.AddReferral(ctx, "alice", "ralph"))
	_, err := ledger.Purchase(ctx, "alice", 2, decimal.NewFromInt(10))
	require.NoError(t, err)
	require.NoError(t, ledger.EndSale(ctx, "owner"))

	events, err := eventStore.GetEvents(ctx, datagateway.GetEventsParams{})
	require.NoError(t, err)
	require.Len(t, events, 4)

	types := lo.Map(events, func(event entity.Event, _ int) entity.EventType { return event.Type })
	assert.Equal(t, []entity.EventType{
		entity.EventTypeReferralLinked,
		entity.EventTypeAllocationIssued,
		entity.EventTypeReferralReward,
		entity.EventTypeSaleEnded,
	}, types)

	// Sequence numbers are dense and start at 1.
	for i, event := range events {
		assert.Equal(t, uint64(i+1), event.Sequence)
		assert.False(t, event.Timestamp.IsZero())
	}

	t.Run("filter by type", func(t *testing.T) {
		events, err := eventStore.GetEvents(ctx, datagateway.GetEventsParams{Type: entity.EventTypeReferralReward})
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, "ralph", events[0].Address)
		assert.Equal(t, "0.25", events[0].Amount.String())
	})

	t.Run("limit", func(t *testing.T) {
		events, err := eventStore.GetEvents(ctx, datagateway.GetEventsParams{Limit: 2})
		require.NoError(t, err)
		assert.Len(t, events, 2)
	})

	t.Run("filter by address matches counterparty too", func(t *testing.T) {
		events, err := eventStore.GetEventsByAddress(ctx, "ralph")
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, entity.EventTypeReferralLinked, events[0].Type)
		assert.Equal(t, entity.EventTypeReferralReward, events[1].Type)
	})
}

func TestSubscribe(t *testing.T) {
	ctx := context.Background()
	ledger, _, _ := newTestLedger(t)

	channel := make(chan entity.Event, 16)
	sub := ledger.Subscribe(channel)
	defer sub.Unsubscribe()

	_, err := ledger.Purchase(ctx, "alice", 1, decimal.RequireFromString("7.5"))
	require.NoError(t, err)

	select {
	case event := <-channel:
		assert.Equal(t, entity.EventTypeAllocationIssued, event.Type)
		assert.Equal(t, "alice", event.Address)
		assert.Equal(t, "50", event.Amount.String())
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
	}

	// After unsubscribing no more events are delivered.
	sub.Unsubscribe()
	require.NoError(t, ledger.EndSale(ctx, "owner"))

	select {
	case event, ok := <-channel:
		if ok {
			t.Fatalf("unexpected event %q after unsubscribe", event.Type)
		}
	case <-time.After(100 * time.Millisecond):
	}
}

func TestSubscribeSlowConsumer(t *testing.T) {
	ctx := context.Background()
	ledger, _, _ := newTestLedger(t)

	// The consumer never drains the channel, so the subscription buffer fills
	// up after a handful of events. Ledger operations must keep completing and
	// drop events for the lagging subscriber instead of blocking.
	channel := make(chan entity.Event)
	sub := ledger.Subscribe(channel)
	defer sub.Unsubscribe()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 12; i++ {
			referrer := string(rune('a' + i))
			require.NoError(t, ledger.AddReferral(ctx, "buyer"+referrer, referrer))
		}
		_, err := ledger.Purchase(ctx, "alice", 1, decimal.RequireFromString("7.5"))
		require.NoError(t, err)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("ledger operation blocked by a slow subscriber")
	}

	alloc, _, _, err := ledger.GetAllocation("alice")
	require.NoError(t, err)
	assert.Equal(t, "50", alloc.Amount.String())
}
