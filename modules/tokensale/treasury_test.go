package tokensale

import (
	"context"
	"testing"

	"github.com/gaze-network/tokensale/common/errs"
	"github.com/gaze-network/tokensale/modules/tokensale/internal/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentSplit(t *testing.T) {
	ctx := context.Background()
	ledger, _, _ := newTestLedger(t)

	_, err := ledger.Purchase(ctx, "alice", 2, decimal.NewFromInt(10))
	require.NoError(t, err)

	test := func(pool entity.Pool, expected string) {
		balance, err := ledger.PoolBalance(pool)
		require.NoError(t, err)
		assert.Equal(t, expected, balance.String(), "pool %s", pool)
	}

	// 2.5% referral, 30.5% liquidity, remainder to the company.
	test(entity.PoolReferral, "0.25")
	test(entity.PoolLiquidity, "3.05")
	test(entity.PoolCompany, "6.7")

	_, err = ledger.PoolBalance(entity.Pool("treasure"))
	assert.ErrorIs(t, err, errs.InvalidArgument)
}

func TestWithdraw(t *testing.T) {
	ctx := context.Background()
	ledger, _, _ := newTestLedger(t)

	_, err := ledger.Purchase(ctx, "alice", 2, decimal.NewFromInt(10))
	require.NoError(t, err)

	_, err = ledger.Withdraw(ctx, "mallory", entity.PoolCompany, "wallet")
	assert.ErrorIs(t, err, errs.Unauthorized)

	_, err = ledger.Withdraw(ctx, "owner", entity.Pool("treasure"), "wallet")
	assert.ErrorIs(t, err, errs.InvalidArgument)

	amount, err := ledger.Withdraw(ctx, "owner", entity.PoolCompany, "wallet")
	require.NoError(t, err)
	assert.Equal(t, "6.7", amount.String())

	balance, err := ledger.PoolBalance(entity.PoolCompany)
	require.NoError(t, err)
	assert.Equal(t, "0", balance.String())

	// Withdrawals drain the whole pool, a second one finds it empty.
	_, err = ledger.Withdraw(ctx, "owner", entity.PoolCompany, "wallet")
	assert.ErrorIs(t, err, errs.InsufficientPool)

	// Other pools are untouched.
	amount, err = ledger.Withdraw(ctx, "owner", entity.PoolLiquidity, "wallet")
	require.NoError(t, err)
	assert.Equal(t, "3.05", amount.String())
}
