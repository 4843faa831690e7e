package tokensale

import (
	"context"
	"testing"

	"github.com/gaze-network/tokensale/common/errs"
	"github.com/gaze-network/tokensale/modules/tokensale/config"
	"github.com/gaze-network/tokensale/modules/tokensale/internal/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddReferral(t *testing.T) {
	ctx := context.Background()
	ledger, _, _ := newTestLedger(t)

	require.NoError(t, ledger.AddReferral(ctx, "alice", "ralph"))

	referrer, ok := ledger.Referrer("alice")
	require.True(t, ok)
	assert.Equal(t, "ralph", referrer)

	assert.ErrorIs(t, ledger.AddReferral(ctx, "alice", "ralph"), errs.AlreadyLinked)
	assert.ErrorIs(t, ledger.AddReferral(ctx, "alice", "rita"), errs.AlreadyLinked)
	assert.ErrorIs(t, ledger.AddReferral(ctx, "bob", "bob"), errs.InvalidArgument)
	assert.ErrorIs(t, ledger.AddReferral(ctx, "", "ralph"), errs.InvalidArgument)
}

func TestReferralRewardOnPurchase(t *testing.T) {
	ctx := context.Background()
	ledger, _, _ := newTestLedger(t)

	require.NoError(t, ledger.AddReferral(ctx, "alice", "ralph"))

	_, err := ledger.Purchase(ctx, "alice", 2, decimal.NewFromInt(10))
	require.NoError(t, err)

	// 2.5% of the 10 unit payment goes to the referrer.
	assert.Equal(t, "0.25", ledger.RewardsPaid("ralph").String())

	// The purchase credited the referral pool with exactly the reward, so the
	// pool nets out to zero.
	balance, err := ledger.PoolBalance(entity.PoolReferral)
	require.NoError(t, err)
	assert.Equal(t, "0", balance.String())

	// Purchases without a link pay no reward but still fund the pool.
	_, err = ledger.Purchase(ctx, "bob", 2, decimal.NewFromInt(10))
	require.NoError(t, err)
	balance, err = ledger.PoolBalance(entity.PoolReferral)
	require.NoError(t, err)
	assert.Equal(t, "0.25", balance.String())
}

func TestManualReferralReward(t *testing.T) {
	ctx := context.Background()
	ledger, _, _ := newTestLedger(t, func(c *config.Sale) { c.MaxBuy = "1000" })

	// Fund the referral pool with 2.5% of a 100 unit purchase.
	_, err := ledger.Purchase(ctx, "alice", 2, decimal.NewFromInt(100))
	require.NoError(t, err)

	err = ledger.ReferralReward(ctx, "mallory", "ralph", decimal.NewFromInt(1))
	assert.ErrorIs(t, err, errs.Unauthorized)

	err = ledger.ReferralReward(ctx, "owner", "ralph", decimal.NewFromInt(10))
	assert.ErrorIs(t, err, errs.InsufficientPool)

	err = ledger.ReferralReward(ctx, "owner", "ralph", decimal.RequireFromString("1.5"))
	require.NoError(t, err)
	assert.Equal(t, "1.5", ledger.RewardsPaid("ralph").String())

	balance, err := ledger.PoolBalance(entity.PoolReferral)
	require.NoError(t, err)
	assert.Equal(t, "1", balance.String())
}
