package tokensale

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/tokensale/common/errs"
	"github.com/gaze-network/tokensale/modules/tokensale/internal/entity"
	"github.com/shopspring/decimal"
)

// AddReferral links a referee to a referrer. The link is immutable: once a
// referee is linked it can never be re-linked. When the referee later
// purchases, the referrer is automatically paid a reward from the
// referral-reward pool.
func (l *Ledger) AddReferral(ctx context.Context, referee, referrer string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if referee == "" || referrer == "" {
		return errors.Wrap(errs.InvalidArgument, "referee and referrer addresses are required")
	}
	if referee == referrer {
		return errors.Wrapf(errs.InvalidArgument, "%q cannot refer itself", referee)
	}
	if existing, ok := l.referrers[referee]; ok {
		return errors.Wrapf(errs.AlreadyLinked, "%q is already referred by %q", referee, existing)
	}

	l.referrers[referee] = referrer
	l.emit(ctx, entity.Event{
		Type:         entity.EventTypeReferralLinked,
		Address:      referee,
		Counterparty: referrer,
	})
	return nil
}

// ReferralReward pays an ad-hoc reward to the recipient out of the
// referral-reward pool. Owner only.
func (l *Ledger) ReferralReward(ctx context.Context, caller, recipient string, amount decimal.Decimal) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.requireOwner(caller); err != nil {
		return err
	}
	if recipient == "" {
		return errors.Wrap(errs.InvalidArgument, "recipient address is required")
	}
	if !amount.IsPositive() {
		return errors.Wrap(errs.InvalidArgument, "reward amount must be positive")
	}
	if l.pools[entity.PoolReferral].LessThan(amount) {
		return errors.Wrapf(errs.InsufficientPool, "referral pool holds %s, cannot pay %s", l.pools[entity.PoolReferral], amount)
	}

	l.payReward(ctx, recipient, "", amount)
	return nil
}

// RewardsPaid returns the cumulative referral rewards paid to an address.
func (l *Ledger) RewardsPaid(address string) decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	if paid, ok := l.rewardsPaid[address]; ok {
		return paid
	}
	return decimal.Zero
}

// Referrer returns the referrer linked to the given referee, if any.
func (l *Ledger) Referrer(referee string) (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	referrer, ok := l.referrers[referee]
	return referrer, ok
}

// payReward moves a reward out of the referral pool and records it. The
// automatic purchase-time reward is always covered because the purchase
// credits the pool with the same rate before paying out. Caller must hold
// l.mu and have verified pool sufficiency for manual rewards.
func (l *Ledger) payReward(ctx context.Context, recipient, referee string, amount decimal.Decimal) {
	l.pools[entity.PoolReferral] = l.pools[entity.PoolReferral].Sub(amount)
	l.rewardsPaid[recipient] = l.rewardsPaid[recipient].Add(amount)
	l.emit(ctx, entity.Event{
		Type:         entity.EventTypeReferralReward,
		Address:      recipient,
		Counterparty: referee,
		Amount:       amount,
	})
}
