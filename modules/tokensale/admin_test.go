package tokensale

import (
	"context"
	"testing"
	"time"

	"github.com/gaze-network/tokensale/common/errs"
	"github.com/gaze-network/tokensale/modules/tokensale/tokenledger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueGrant(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a private allocation", func(t *testing.T) {
		ledger, _, _ := newTestLedger(t)

		alloc, err := ledger.IssueGrant(ctx, "owner", "advisor", 10, decimal.NewFromInt(5000))
		require.NoError(t, err)
		assert.True(t, alloc.IsPrivate)
		assert.Equal(t, int32(10), alloc.BlockId)
		assert.Equal(t, "5000", alloc.Amount.String())

		// Grants bypass caps, limits and tier supplies entirely.
		info := ledger.Info()
		assert.Equal(t, "0", info.State.TotalRaised.String())
		assert.Equal(t, "0", info.Tiers[0].Issued.String())
	})

	t.Run("repeat grant on the same tier tops up", func(t *testing.T) {
		ledger, _, _ := newTestLedger(t)

		_, err := ledger.IssueGrant(ctx, "owner", "advisor", 10, decimal.NewFromInt(100))
		require.NoError(t, err)
		alloc, err := ledger.IssueGrant(ctx, "owner", "advisor", 10, decimal.NewFromInt(50))
		require.NoError(t, err)
		assert.Equal(t, "150", alloc.Amount.String())

		// A different tier conflicts with the existing allocation.
		_, err = ledger.IssueGrant(ctx, "owner", "advisor", 11, decimal.NewFromInt(50))
		assert.ErrorIs(t, err, errs.DuplicateBuyer)
	})

	t.Run("works after the sale has ended", func(t *testing.T) {
		ledger, _, _ := newTestLedger(t)
		require.NoError(t, ledger.EndSale(ctx, "owner"))

		_, err := ledger.IssueGrant(ctx, "owner", "advisor", 10, decimal.NewFromInt(100))
		require.NoError(t, err)
	})

	t.Run("rejections", func(t *testing.T) {
		ledger, _, _ := newTestLedger(t)

		_, err := ledger.IssueGrant(ctx, "mallory", "advisor", 10, decimal.NewFromInt(100))
		assert.ErrorIs(t, err, errs.Unauthorized)

		_, err = ledger.IssueGrant(ctx, "owner", "advisor", 2, decimal.NewFromInt(100))
		assert.ErrorIs(t, err, errs.InvalidTier)

		_, err = ledger.IssueGrant(ctx, "owner", "advisor", 10, decimal.Zero)
		assert.ErrorIs(t, err, errs.InvalidArgument)

		_, err = ledger.IssueGrant(ctx, "owner", "", 10, decimal.NewFromInt(100))
		assert.ErrorIs(t, err, errs.InvalidArgument)

		// A sale buyer cannot also receive a grant.
		_, err = ledger.Purchase(ctx, "alice", 1, decimal.RequireFromString("7.5"))
		require.NoError(t, err)
		_, err = ledger.IssueGrant(ctx, "owner", "alice", 10, decimal.NewFromInt(100))
		assert.ErrorIs(t, err, errs.DuplicateBuyer)
	})
}

func TestEndSale(t *testing.T) {
	ctx := context.Background()
	ledger, clock, _ := newTestLedger(t)

	assert.ErrorIs(t, ledger.EndSale(ctx, "mallory"), errs.Unauthorized)

	clock.Advance(time.Hour)
	require.NoError(t, ledger.EndSale(ctx, "owner"))

	info := ledger.Info()
	assert.True(t, info.State.Ended)
	assert.Equal(t, clock.now, info.State.EndTime)

	assert.ErrorIs(t, ledger.EndSale(ctx, "owner"), errs.AlreadyEnded)
}

func TestSetVestingEpoch(t *testing.T) {
	ctx := context.Background()
	ledger, _, _ := newTestLedger(t)

	epoch := saleStart.Add(48 * time.Hour)
	assert.ErrorIs(t, ledger.SetVestingEpoch(ctx, "mallory", epoch), errs.Unauthorized)
	assert.ErrorIs(t, ledger.SetVestingEpoch(ctx, "owner", time.Time{}), errs.InvalidArgument)

	require.NoError(t, ledger.SetVestingEpoch(ctx, "owner", epoch))
	assert.Equal(t, epoch, ledger.Info().State.EndTime)
}

func TestSetTokenLedger(t *testing.T) {
	ctx := context.Background()

	clock := &testClock{now: saleStart}
	ledger, err := NewLedger(testSaleConfig(), newTestEventStore(), WithClock(clock.Now))
	require.NoError(t, err)

	token := tokenledger.NewMemoryLedger("Gaze Token", "GAZE")
	assert.ErrorIs(t, ledger.SetTokenLedger(ctx, "mallory", token), errs.Unauthorized)
	assert.ErrorIs(t, ledger.SetTokenLedger(ctx, "owner", nil), errs.InvalidArgument)

	require.NoError(t, ledger.SetTokenLedger(ctx, "owner", token))

	// The link is one-time.
	other := tokenledger.NewMemoryLedger("Other", "OTH")
	assert.ErrorIs(t, ledger.SetTokenLedger(ctx, "owner", other), errs.AlreadySet)

	// Claims settle through the linked ledger.
	grantAndEndSale(t, ledger)
	clock.Advance(DefaultLockPeriod + DefaultVestingDuration)
	released, err := ledger.Claim(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "1000", released.String())

	balance, err := token.BalanceOf(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "1000", balance.String())
}
