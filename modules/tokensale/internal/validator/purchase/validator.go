package purchasevalidator

import (
	"time"

	"github.com/gaze-network/tokensale/common/errs"
	"github.com/gaze-network/tokensale/modules/tokensale/internal/entity"
	"github.com/shopspring/decimal"
)

// PurchaseValidator runs the admission checks for a purchase request.
// Checks short-circuit: once a check fails, later checks are skipped and
// Reason holds the first failed condition.
type PurchaseValidator struct {
	Valid  bool
	Reason errs.ErrorKind
}

func New() *PurchaseValidator {
	return &PurchaseValidator{Valid: true}
}

// Err returns the first failed condition, or nil if all checks passed.
func (v *PurchaseValidator) Err() error {
	if v.Valid {
		return nil
	}
	return v.Reason
}

func (v *PurchaseValidator) fail(reason errs.ErrorKind) bool {
	v.Valid = false
	v.Reason = reason
	return v.Valid
}

// SaleOpen checks the purchase window: the sale must have started and must
// not have ended.
func (v *PurchaseValidator) SaleOpen(state entity.SaleState, now time.Time) bool {
	if !v.Valid {
		return false
	}
	if now.Before(state.StartTime) || state.Ended {
		return v.fail(errs.SaleNotOpen)
	}
	return v.Valid
}

// SellableTier checks that blockId falls inside the contiguous sellable
// range. Tiers above the range are grant-only and rejected here.
func (v *PurchaseValidator) SellableTier(blockId int32, firstTier, lastTier int32) bool {
	if !v.Valid {
		return false
	}
	if blockId < firstTier || blockId > lastTier {
		return v.fail(errs.InvalidTier)
	}
	return v.Valid
}

// SingleAllocation enforces strictly one allocation per address for the
// lifetime of the ledger, whether from a prior purchase or a grant.
func (v *PurchaseValidator) SingleAllocation(existing *entity.Allocation) bool {
	if !v.Valid {
		return false
	}
	if existing != nil {
		return v.fail(errs.DuplicateBuyer)
	}
	return v.Valid
}

// WithinLimits checks the resulting token amount against the configured
// purchase limits.
func (v *PurchaseValidator) WithinLimits(tokens, minBuy, maxBuy decimal.Decimal) bool {
	if !v.Valid {
		return false
	}
	if tokens.LessThan(minBuy) {
		return v.fail(errs.BelowMinimum)
	}
	if tokens.GreaterThan(maxBuy) {
		return v.fail(errs.AboveMaximum)
	}
	return v.Valid
}

// SupplyAvailable checks the tier has enough unsold supply left.
func (v *PurchaseValidator) SupplyAvailable(tier entity.SaleTier, tokens decimal.Decimal) bool {
	if !v.Valid {
		return false
	}
	if tier.Issued.Add(tokens).GreaterThan(tier.Supply) {
		return v.fail(errs.SupplyExhausted)
	}
	return v.Valid
}

// WithinHardCap checks that accepting the payment keeps the raised total at
// or below the hard cap. Reservation and raised-total update are
// all-or-nothing, so this must pass before any state is mutated.
func (v *PurchaseValidator) WithinHardCap(state entity.SaleState, payment decimal.Decimal) bool {
	if !v.Valid {
		return false
	}
	if state.TotalRaised.Add(payment).GreaterThan(state.HardCap) {
		return v.fail(errs.CapExceeded)
	}
	return v.Valid
}
