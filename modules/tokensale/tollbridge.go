package tokensale

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/tokensale/common/errs"
	"github.com/gaze-network/tokensale/modules/tokensale/internal/entity"
	"github.com/shopspring/decimal"
)

// TollBridgeRelease lets the holder of a private allocation exit the vesting
// schedule early. Half of the still-unvested remainder is released
// immediately, the other half is forfeited back to the issuer, and the
// allocation is closed for good. Only available once the lock period has
// passed. Returns the released and forfeited amounts.
func (l *Ledger) TollBridgeRelease(ctx context.Context, buyer string) (released, forfeited decimal.Decimal, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	alloc := l.allocations[buyer]
	if alloc == nil {
		return decimal.Zero, decimal.Zero, errors.Wrapf(errs.NoAllocation, "no allocation for %q", buyer)
	}
	if !alloc.IsPrivate {
		return decimal.Zero, decimal.Zero, errors.Wrapf(errs.Unsupported, "toll bridge is limited to private allocations, %q holds a sale allocation", buyer)
	}
	if alloc.Closed {
		return decimal.Zero, decimal.Zero, errors.Wrapf(errs.NoClaimableAmount, "allocation for %q is already closed", buyer)
	}

	now := l.now()
	epoch := l.state.EndTime
	if epoch.IsZero() || now.Before(epoch.Add(l.lockPeriod)) {
		return decimal.Zero, decimal.Zero, errors.Wrapf(errs.VestingNotStarted, "lock period for %q has not passed", buyer)
	}

	unvested := alloc.Remaining()
	if !unvested.IsPositive() {
		return decimal.Zero, decimal.Zero, errors.Wrapf(errs.NoClaimableAmount, "allocation for %q is fully claimed", buyer)
	}
	if l.token == nil {
		return decimal.Zero, decimal.Zero, errors.Wrap(errs.NoTokenLedger, "cannot process toll bridge release")
	}

	released = unvested.Mul(tollBridgeReleaseRatio).Truncate(AmountScale)
	forfeited = unvested.Sub(released)

	prevClaimed := alloc.Claimed
	alloc.Claimed = alloc.Amount
	alloc.Closed = true
	if err := l.token.MintOrTransfer(ctx, buyer, released); err != nil {
		alloc.Claimed = prevClaimed
		alloc.Closed = false
		return decimal.Zero, decimal.Zero, errors.Wrapf(err, "token transfer to %q failed", buyer)
	}

	l.emit(ctx, entity.Event{
		Type:    entity.EventTypeTollBridgeRelease,
		Address: buyer,
		BlockId: alloc.BlockId,
		Amount:  released,
	})
	return released, forfeited, nil
}
