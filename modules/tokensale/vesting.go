package tokensale

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/tokensale/common/errs"
	"github.com/gaze-network/tokensale/modules/tokensale/internal/entity"
	"github.com/shopspring/decimal"
)

// Claim releases the tokens vested since the caller's previous claim and
// transfers them through the linked token ledger. The claimed watermark is
// advanced before the transfer is invoked and rolled back if the transfer
// fails, so a failed claim leaves no state change behind.
func (l *Ledger) Claim(ctx context.Context, buyer string) (decimal.Decimal, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	alloc := l.allocations[buyer]
	if alloc == nil {
		return decimal.Zero, errors.Wrapf(errs.NoAllocation, "no allocation for %q", buyer)
	}
	if alloc.Closed {
		return decimal.Zero, errors.Wrapf(errs.NoClaimableAmount, "allocation for %q is closed", buyer)
	}

	now := l.now()
	claimable, status := l.claimableToDate(*alloc, now)
	if status == entity.VestingStatusLocked {
		return decimal.Zero, errors.Wrapf(errs.VestingNotStarted, "vesting for %q has not started", buyer)
	}

	delta := claimable.Sub(alloc.Claimed)
	if !delta.IsPositive() {
		return decimal.Zero, errors.Wrapf(errs.NoClaimableAmount, "nothing vested for %q since last claim", buyer)
	}
	if l.token == nil {
		return decimal.Zero, errors.Wrap(errs.NoTokenLedger, "cannot process claim")
	}

	prevClaimed := alloc.Claimed
	alloc.Claimed = claimable
	if err := l.token.MintOrTransfer(ctx, buyer, delta); err != nil {
		alloc.Claimed = prevClaimed
		return decimal.Zero, errors.Wrapf(err, "token transfer to %q failed", buyer)
	}

	l.emit(ctx, entity.Event{
		Type:    entity.EventTypeClaimProcessed,
		Address: buyer,
		BlockId: alloc.BlockId,
		Amount:  delta,
	})
	return delta, nil
}

// claimableToDate computes the cumulative amount vested for the allocation at
// the given instant. The schedule is piecewise: zero until the vesting epoch
// plus the lock period, then linear by elapsed seconds over the vesting
// duration, then the full amount. Caller must hold l.mu.
func (l *Ledger) claimableToDate(alloc entity.Allocation, at time.Time) (decimal.Decimal, entity.VestingStatus) {
	if alloc.Closed {
		return alloc.Amount, entity.VestingStatusClosed
	}

	epoch := l.state.EndTime
	if epoch.IsZero() {
		return decimal.Zero, entity.VestingStatusLocked
	}
	vestingStart := epoch.Add(l.lockPeriod)
	if at.Before(vestingStart) {
		return decimal.Zero, entity.VestingStatusLocked
	}
	vestingEnd := vestingStart.Add(l.vestingDuration)
	if !at.Before(vestingEnd) {
		return alloc.Amount, entity.VestingStatusFullyVested
	}

	elapsed := decimal.NewFromInt(int64(at.Sub(vestingStart) / time.Second))
	total := decimal.NewFromInt(int64(l.vestingDuration / time.Second))
	claimable := alloc.Amount.Mul(elapsed).Div(total).Truncate(AmountScale)
	return claimable, entity.VestingStatusVesting
}
