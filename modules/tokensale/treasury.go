package tokensale

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/tokensale/common/errs"
	"github.com/gaze-network/tokensale/modules/tokensale/internal/entity"
	"github.com/shopspring/decimal"
)

// creditPools splits an accepted payment across the three treasury pools:
// the referral rate funds future rewards, the liquidity rate is earmarked for
// market making and the remainder goes to the company. The three parts always
// sum to the payment exactly. Caller must hold l.mu.
func (l *Ledger) creditPools(payment decimal.Decimal) {
	referral := payment.Mul(referralRewardRate)
	liquidity := payment.Mul(liquidityPoolRate)
	company := payment.Sub(referral).Sub(liquidity)

	l.pools[entity.PoolReferral] = l.pools[entity.PoolReferral].Add(referral)
	l.pools[entity.PoolLiquidity] = l.pools[entity.PoolLiquidity].Add(liquidity)
	l.pools[entity.PoolCompany] = l.pools[entity.PoolCompany].Add(company)
}

// PoolBalance returns the current balance of a treasury pool.
func (l *Ledger) PoolBalance(pool entity.Pool) (decimal.Decimal, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	balance, ok := l.pools[pool]
	if !ok {
		return decimal.Zero, errors.Wrapf(errs.InvalidArgument, "unknown pool %q", pool)
	}
	return balance, nil
}

// Withdraw empties a treasury pool to the given destination address. Owner
// only. Withdrawals are all-or-nothing: the full pool balance is paid out.
func (l *Ledger) Withdraw(ctx context.Context, caller string, pool entity.Pool, destination string) (decimal.Decimal, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.requireOwner(caller); err != nil {
		return decimal.Zero, err
	}
	if destination == "" {
		destination = l.companyWallet
	}
	balance, ok := l.pools[pool]
	if !ok {
		return decimal.Zero, errors.Wrapf(errs.InvalidArgument, "unknown pool %q", pool)
	}
	if !balance.IsPositive() {
		return decimal.Zero, errors.Wrapf(errs.InsufficientPool, "pool %q is empty", pool)
	}

	l.pools[pool] = decimal.Zero
	l.emit(ctx, entity.Event{
		Type:         entity.EventTypeWithdrawal,
		Address:      destination,
		Counterparty: string(pool),
		Amount:       balance,
	})
	return balance, nil
}
