package tokensale

import (
	"context"
	"testing"
	"time"

	"github.com/gaze-network/tokensale/common/errs"
	"github.com/gaze-network/tokensale/modules/tokensale/internal/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// grantAndEndSale issues a 1000 token grant to "alice" and ends the sale at
// the current clock time, making saleStart the vesting epoch.
func grantAndEndSale(t *testing.T, ledger *Ledger) {
	t.Helper()
	ctx := context.Background()
	_, err := ledger.IssueGrant(ctx, "owner", "alice", 10, decimal.NewFromInt(1000))
	require.NoError(t, err)
	require.NoError(t, ledger.EndSale(ctx, "owner"))
}

func TestClaim(t *testing.T) {
	ctx := context.Background()

	t.Run("locked until lock period passes", func(t *testing.T) {
		ledger, clock, _ := newTestLedger(t)
		grantAndEndSale(t, ledger)

		_, err := ledger.Claim(ctx, "alice")
		assert.ErrorIs(t, err, errs.VestingNotStarted)

		clock.Advance(DefaultLockPeriod - time.Second)
		_, err = ledger.Claim(ctx, "alice")
		assert.ErrorIs(t, err, errs.VestingNotStarted)

		_, _, claimable, err := ledger.GetAllocation("alice")
		require.NoError(t, err)
		assert.Equal(t, "0", claimable.String())
	})

	t.Run("linear vesting", func(t *testing.T) {
		ledger, clock, token := newTestLedger(t)
		grantAndEndSale(t, ledger)

		// Halfway through the vesting window half the grant is claimable.
		clock.Advance(DefaultLockPeriod + DefaultVestingDuration/2)
		alloc, status, claimable, err := ledger.GetAllocation("alice")
		require.NoError(t, err)
		assert.Equal(t, entity.VestingStatusVesting, status)
		assert.Equal(t, "500", claimable.String())
		assert.Equal(t, "0", alloc.Claimed.String())

		released, err := ledger.Claim(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "500", released.String())

		balance, err := token.BalanceOf(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "500", balance.String())

		// Claiming again without time passing yields nothing.
		_, err = ledger.Claim(ctx, "alice")
		assert.ErrorIs(t, err, errs.NoClaimableAmount)

		// A quarter window later another 250 tokens are vested.
		clock.Advance(DefaultVestingDuration / 4)
		released, err = ledger.Claim(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "250", released.String())
	})

	t.Run("fully vested", func(t *testing.T) {
		ledger, clock, token := newTestLedger(t)
		grantAndEndSale(t, ledger)

		clock.Advance(DefaultLockPeriod + DefaultVestingDuration)
		_, status, claimable, err := ledger.GetAllocation("alice")
		require.NoError(t, err)
		assert.Equal(t, entity.VestingStatusFullyVested, status)
		assert.Equal(t, "1000", claimable.String())

		released, err := ledger.Claim(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "1000", released.String())

		alloc, _, _, err := ledger.GetAllocation("alice")
		require.NoError(t, err)
		assert.True(t, alloc.Claimed.Equal(alloc.Amount))

		// Long after the window nothing more vests.
		clock.Advance(365 * 24 * time.Hour)
		_, err = ledger.Claim(ctx, "alice")
		assert.ErrorIs(t, err, errs.NoClaimableAmount)

		balance, err := token.BalanceOf(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "1000", balance.String())
	})

	t.Run("no allocation", func(t *testing.T) {
		ledger, _, _ := newTestLedger(t)
		_, err := ledger.Claim(ctx, "nobody")
		assert.ErrorIs(t, err, errs.NoAllocation)
	})

	t.Run("no vesting epoch before sale end", func(t *testing.T) {
		ledger, clock, _ := newTestLedger(t)
		_, err := ledger.IssueGrant(ctx, "owner", "alice", 10, decimal.NewFromInt(1000))
		require.NoError(t, err)

		clock.Advance(10 * 365 * 24 * time.Hour)
		_, err = ledger.Claim(ctx, "alice")
		assert.ErrorIs(t, err, errs.VestingNotStarted)
	})

	t.Run("claim without token ledger", func(t *testing.T) {
		conf := testSaleConfig()
		clock := &testClock{now: saleStart}
		ledger, err := NewLedger(conf, newTestEventStore(), WithClock(clock.Now))
		require.NoError(t, err)
		grantAndEndSale(t, ledger)

		clock.Advance(DefaultLockPeriod + DefaultVestingDuration)
		_, err = ledger.Claim(ctx, "alice")
		assert.ErrorIs(t, err, errs.NoTokenLedger)
	})
}

func TestVestingEpochOverride(t *testing.T) {
	ctx := context.Background()
	ledger, _, _ := newTestLedger(t)

	_, err := ledger.IssueGrant(ctx, "owner", "alice", 10, decimal.NewFromInt(1000))
	require.NoError(t, err)

	// Start vesting from an epoch in the past without ending the sale.
	epoch := saleStart.Add(-DefaultLockPeriod - DefaultVestingDuration)
	require.NoError(t, ledger.SetVestingEpoch(ctx, "owner", epoch))

	released, err := ledger.Claim(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "1000", released.String())

	// The sale itself is still open.
	assert.False(t, ledger.Info().State.Ended)
	_, err = ledger.Purchase(ctx, "bob", 1, decimal.RequireFromString("7.5"))
	require.NoError(t, err)
}
