package tokensale

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/tokensale/common/errs"
	"github.com/gaze-network/tokensale/modules/tokensale/internal/entity"
	"github.com/gaze-network/tokensale/modules/tokensale/tokenledger"
	"github.com/shopspring/decimal"
)

func (l *Ledger) requireOwner(caller string) error {
	if caller != l.owner {
		return errors.Wrapf(errs.Unauthorized, "caller %q is not the sale owner", caller)
	}
	return nil
}

// IssueGrant creates a private allocation outside the sale tiers, for
// advisors and private investors. Grants bypass the buy limits, tier supply
// and sale caps, and can be issued before or after the sale has ended. The
// tier id must lie outside the sellable range. A repeat grant to the same
// holder on the same tier tops up the existing allocation; any other
// conflict with an existing allocation is rejected.
func (l *Ledger) IssueGrant(ctx context.Context, caller, holder string, blockId int32, amount decimal.Decimal) (entity.Allocation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.requireOwner(caller); err != nil {
		return entity.Allocation{}, err
	}
	if holder == "" {
		return entity.Allocation{}, errors.Wrap(errs.InvalidArgument, "holder address is required")
	}
	if !amount.IsPositive() {
		return entity.Allocation{}, errors.Wrap(errs.InvalidArgument, "grant amount must be positive")
	}
	if blockId >= firstSellableTier && blockId <= l.lastSellableTier() {
		return entity.Allocation{}, errors.Wrapf(errs.InvalidTier, "tier %d is a sale tier, grants must use a tier outside 1..%d", blockId, l.lastSellableTier())
	}

	alloc := l.allocations[holder]
	if alloc != nil {
		if !alloc.IsPrivate || alloc.BlockId != blockId || alloc.Closed {
			return entity.Allocation{}, errors.Wrapf(errs.DuplicateBuyer, "%q already holds an allocation", holder)
		}
		alloc.Amount = alloc.Amount.Add(amount)
	} else {
		alloc = &entity.Allocation{
			Address:   holder,
			BlockId:   blockId,
			Amount:    amount,
			Claimed:   decimal.Zero,
			IsPrivate: true,
		}
		l.allocations[holder] = alloc
	}

	l.emit(ctx, entity.Event{
		Type:    entity.EventTypeAllocationIssued,
		Address: holder,
		BlockId: blockId,
		Amount:  amount,
	})
	return *alloc, nil
}

// EndSale terminates the sale manually. Owner only, irreversible. The
// termination date becomes the vesting epoch unless one was set beforehand.
func (l *Ledger) EndSale(ctx context.Context, caller string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.requireOwner(caller); err != nil {
		return err
	}
	if l.state.Ended {
		return errors.Wrap(errs.AlreadyEnded, "cannot end sale")
	}
	l.finalizeEnd(ctx, l.now())
	return nil
}

// SetVestingEpoch overrides the vesting epoch, normally derived from the sale
// end date. Owner only. Allows starting vesting schedules independently of
// the sale timeline.
func (l *Ledger) SetVestingEpoch(ctx context.Context, caller string, epoch time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.requireOwner(caller); err != nil {
		return err
	}
	if epoch.IsZero() {
		return errors.Wrap(errs.InvalidArgument, "vesting epoch must be a valid timestamp")
	}
	l.state.EndTime = epoch.UTC()
	return nil
}

// SetTokenLedger links the external token ledger used to settle claims.
// Owner only, one-time: once linked the ledger can never be swapped.
func (l *Ledger) SetTokenLedger(ctx context.Context, caller string, token tokenledger.Ledger) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.requireOwner(caller); err != nil {
		return err
	}
	if token == nil {
		return errors.Wrap(errs.InvalidArgument, "token ledger is required")
	}
	if l.token != nil {
		return errors.Wrap(errs.AlreadySet, "token ledger is already linked")
	}

	l.token = token
	name, err := token.Name(ctx)
	if err != nil {
		name = ""
	}
	l.emit(ctx, entity.Event{
		Type:    entity.EventTypeTokenLedgerLinked,
		Address: name,
	})
	return nil
}
