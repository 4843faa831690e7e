package tokensale

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/tokensale/common/errs"
	"github.com/gaze-network/tokensale/internal/subscription"
	"github.com/gaze-network/tokensale/modules/tokensale/config"
	"github.com/gaze-network/tokensale/modules/tokensale/datagateway"
	"github.com/gaze-network/tokensale/modules/tokensale/internal/entity"
	purchasevalidator "github.com/gaze-network/tokensale/modules/tokensale/internal/validator/purchase"
	"github.com/gaze-network/tokensale/modules/tokensale/tokenledger"
	"github.com/gaze-network/tokensale/pkg/decimals"
	"github.com/shopspring/decimal"
)

const Version = "v0.2.0"

// AmountScale is the number of fractional digits carried by fixed-point
// amounts. Token results are rounded to this scale.
const AmountScale = 12

const (
	DefaultLockPeriod      = 30 * 24 * time.Hour
	DefaultVestingDuration = 180 * 24 * time.Hour

	firstSellableTier int32 = 1
)

var (
	// referralRewardRate is the fraction of each linked purchase paid to the
	// referrer.
	referralRewardRate = decimals.MustFromString("0.025")
	// liquidityPoolRate is the fraction of each accepted payment earmarked for
	// the liquidity pool.
	liquidityPoolRate = decimals.MustFromString("0.305")
	// tollBridgeReleaseRatio is the fraction of the unvested remainder released
	// immediately by the toll bridge; the rest is forfeited.
	tollBridgeReleaseRatio = decimals.MustFromString("0.5")
)

// Ledger is the token sale ledger. Every external operation executes to
// completion with exclusive access to all shared state: the ledger is
// whole-state-serialized behind a single mutex and no operation blocks
// internally. Each operation either fully commits or fails with zero state
// change.
//
// Check-effects-interactions ordering is a correctness invariant here: all
// internal bookkeeping (cap totals, allocation claimed, pool balances) is
// validated and committed strictly before the external token transfer is
// invoked, so a reentrant call from the transfer target observes
// already-updated state and cannot re-trigger the same release.
type Ledger struct {
	mu sync.Mutex

	owner             string
	companyWallet     string
	tokenName         string
	tokenSymbol       string
	paymentAssetPrice decimal.Decimal
	lockPeriod        time.Duration
	vestingDuration   time.Duration

	state       entity.SaleState
	tiers       []entity.SaleTier // tier ids firstSellableTier..len(tiers)
	allocations map[string]*entity.Allocation
	referrers   map[string]string // referee -> referrer, immutable once set
	rewardsPaid map[string]decimal.Decimal
	pools       map[entity.Pool]decimal.Decimal

	token      tokenledger.Ledger
	eventStore datagateway.TokenSaleDataGateway
	subs       []*subscription.Subscription[entity.Event]
	seq        uint64

	now func() time.Time
}

type Option func(*Ledger)

// WithClock overrides the ledger clock. Used by tests and administrative
// tooling that replays historical timelines.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

// WithTokenLedger links the external token ledger at construction instead of
// through the one-time SetTokenLedger call.
func WithTokenLedger(token tokenledger.Ledger) Option {
	return func(l *Ledger) {
		l.token = token
	}
}

var defaultTiers = []config.Tier{
	{Price: "20/3", Supply: "1000000"},
	{Price: "5", Supply: "1000000"},
	{Price: "4", Supply: "1000000"},
	{Price: "10/3", Supply: "1000000"},
}

// NewLedger creates a ledger from the given sale parameters.
//
// Unit conventions: softCap, hardCap and totalRaised are payment-asset units;
// minBuy and maxBuy bound the resulting token amount of a purchase. The
// original sale only exercises the token-amount reading of the buy limits, so
// that is the one implemented here.
func NewLedger(conf config.Sale, eventStore datagateway.TokenSaleDataGateway, opts ...Option) (*Ledger, error) {
	if conf.Owner == "" {
		return nil, errors.Wrap(errs.InvalidArgument, "owner address is required")
	}
	if eventStore == nil {
		return nil, errors.Wrap(errs.InvalidArgument, "event store is required")
	}

	softCap, err := parseAmount(conf.SoftCap, "1000")
	if err != nil {
		return nil, errors.Wrap(err, "invalid soft cap")
	}
	hardCap, err := parseAmount(conf.HardCap, "5000")
	if err != nil {
		return nil, errors.Wrap(err, "invalid hard cap")
	}
	minBuy, err := parseAmount(conf.MinBuy, "10")
	if err != nil {
		return nil, errors.Wrap(err, "invalid min buy")
	}
	maxBuy, err := parseAmount(conf.MaxBuy, "50")
	if err != nil {
		return nil, errors.Wrap(err, "invalid max buy")
	}
	paymentAssetPrice, err := parseAmount(conf.PaymentAssetPrice, "0")
	if err != nil {
		return nil, errors.Wrap(err, "invalid payment asset price")
	}
	if hardCap.LessThan(softCap) {
		return nil, errors.Wrap(errs.InvalidArgument, "hard cap must not be below soft cap")
	}
	if maxBuy.LessThan(minBuy) {
		return nil, errors.Wrap(errs.InvalidArgument, "max buy must not be below min buy")
	}

	tierConfs := conf.Tiers
	if len(tierConfs) == 0 {
		tierConfs = defaultTiers
	}
	tiers := make([]entity.SaleTier, len(tierConfs))
	for i, tierConf := range tierConfs {
		price, err := config.ParsePrice(tierConf.Price)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid price for tier %d", i+1)
		}
		if !price.IsPositive() {
			return nil, errors.Wrapf(errs.InvalidArgument, "price for tier %d must be positive", i+1)
		}
		supply, err := parseAmount(tierConf.Supply, "1000000")
		if err != nil {
			return nil, errors.Wrapf(err, "invalid supply for tier %d", i+1)
		}
		tiers[i] = entity.SaleTier{
			Id:     firstSellableTier + int32(i),
			Price:  price,
			Supply: supply,
			Issued: decimal.Zero,
		}
	}

	startTime := time.Unix(conf.StartTime, 0).UTC()
	if conf.StartTime == 0 {
		startTime = time.Now().UTC()
	}
	lockPeriod := DefaultLockPeriod
	if conf.LockPeriodDays > 0 {
		lockPeriod = time.Duration(conf.LockPeriodDays) * 24 * time.Hour
	}
	vestingDuration := DefaultVestingDuration
	if conf.VestingDurationDays > 0 {
		vestingDuration = time.Duration(conf.VestingDurationDays) * 24 * time.Hour
	}

	companyWallet := conf.CompanyWallet
	if companyWallet == "" {
		companyWallet = conf.Owner
	}

	l := &Ledger{
		owner:             conf.Owner,
		companyWallet:     companyWallet,
		tokenName:         conf.TokenName,
		tokenSymbol:       conf.TokenSymbol,
		paymentAssetPrice: paymentAssetPrice,
		lockPeriod:        lockPeriod,
		vestingDuration:   vestingDuration,
		state: entity.SaleState{
			StartTime:   startTime,
			SoftCap:     softCap,
			HardCap:     hardCap,
			MinBuy:      minBuy,
			MaxBuy:      maxBuy,
			TotalRaised: decimal.Zero,
		},
		tiers:       tiers,
		allocations: make(map[string]*entity.Allocation),
		referrers:   make(map[string]string),
		rewardsPaid: make(map[string]decimal.Decimal),
		pools: map[entity.Pool]decimal.Decimal{
			entity.PoolCompany:   decimal.Zero,
			entity.PoolReferral:  decimal.Zero,
			entity.PoolLiquidity: decimal.Zero,
		},
		eventStore: eventStore,
		now:        func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

func parseAmount(s, fallback string) (decimal.Decimal, error) {
	if s == "" {
		s = fallback
	}
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errors.Wrapf(errs.InvalidArgument, "invalid amount %q", s)
	}
	if amount.IsNegative() {
		return decimal.Zero, errors.Wrapf(errs.InvalidArgument, "amount %q must not be negative", s)
	}
	return amount, nil
}

func (l *Ledger) lastSellableTier() int32 {
	return firstSellableTier + int32(len(l.tiers)) - 1
}

// Purchase sells tokens from the given tier against the incoming payment.
// The token amount is payment * tier price, rounded to AmountScale. On
// success the tier supply is reserved, the raised total updated, the payment
// split into the treasury pools and the buyer's single allocation created.
// Reaching the hard cap exactly terminates the sale within the same
// operation.
func (l *Ledger) Purchase(ctx context.Context, buyer string, blockId int32, payment decimal.Decimal) (entity.Allocation, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if buyer == "" {
		return entity.Allocation{}, errors.Wrap(errs.InvalidArgument, "buyer address is required")
	}
	if !payment.IsPositive() {
		return entity.Allocation{}, errors.Wrap(errs.InvalidArgument, "payment must be positive")
	}

	now := l.now()
	v := purchasevalidator.New()
	v.SaleOpen(l.state, now)
	v.SellableTier(blockId, firstSellableTier, l.lastSellableTier())
	v.SingleAllocation(l.allocations[buyer])

	var tier *entity.SaleTier
	var tokens decimal.Decimal
	if v.Valid {
		tier = &l.tiers[blockId-firstSellableTier]
		tokens = payment.Mul(tier.Price).Round(AmountScale)
		v.WithinLimits(tokens, l.state.MinBuy, l.state.MaxBuy)
		v.SupplyAvailable(*tier, tokens)
		v.WithinHardCap(l.state, payment)
	}
	if err := v.Err(); err != nil {
		return entity.Allocation{}, errors.Wrapf(err, "purchase rejected for %q", buyer)
	}

	// All checks passed: commit reservation, raised total and fund split as
	// one atomic effect.
	tier.Issued = tier.Issued.Add(tokens)
	l.state.TotalRaised = l.state.TotalRaised.Add(payment)
	l.creditPools(payment)

	alloc := &entity.Allocation{
		Address: buyer,
		BlockId: blockId,
		Amount:  tokens,
		Claimed: decimal.Zero,
	}
	l.allocations[buyer] = alloc

	l.emit(ctx, entity.Event{
		Type:    entity.EventTypeAllocationIssued,
		Address: buyer,
		BlockId: blockId,
		Amount:  tokens,
	})

	if referrer, ok := l.referrers[buyer]; ok {
		l.payReward(ctx, referrer, buyer, payment.Mul(referralRewardRate))
	}

	if l.state.TotalRaised.Equal(l.state.HardCap) {
		l.finalizeEnd(ctx, now)
	}

	return *alloc, nil
}

// GetAllocation returns the allocation held by the given address together
// with its vesting status and the amount claimable to date.
func (l *Ledger) GetAllocation(buyer string) (entity.Allocation, entity.VestingStatus, decimal.Decimal, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	alloc := l.allocations[buyer]
	if alloc == nil {
		return entity.Allocation{}, "", decimal.Zero, errors.Wrapf(errs.NoAllocation, "no allocation for %q", buyer)
	}
	claimable, status := l.claimableToDate(*alloc, l.now())
	return *alloc, status, claimable, nil
}

// Info returns a snapshot of the sale state for reporting.
func (l *Ledger) Info() entity.SaleInfo {
	l.mu.Lock()
	defer l.mu.Unlock()

	tiers := make([]entity.SaleTier, len(l.tiers))
	copy(tiers, l.tiers)
	pools := make(map[entity.Pool]decimal.Decimal, len(l.pools))
	for pool, balance := range l.pools {
		pools[pool] = balance
	}
	return entity.SaleInfo{
		TokenName:         l.tokenName,
		TokenSymbol:       l.tokenSymbol,
		PaymentAssetPrice: l.paymentAssetPrice,
		State:             l.state,
		Tiers:             tiers,
		Pools:             pools,
	}
}

// finalizeEnd irreversibly transitions the sale to ended. The first
// termination date becomes the vesting epoch.
func (l *Ledger) finalizeEnd(ctx context.Context, at time.Time) {
	l.state.Ended = true
	if l.state.EndTime.IsZero() {
		l.state.EndTime = at
	}
	l.emit(ctx, entity.Event{
		Type:   entity.EventTypeSaleEnded,
		Amount: l.state.TotalRaised,
	})
}
