package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleTier is a priced allocation bucket. Price is the number of tokens
// issued per unit of payment. Issued never exceeds Supply and never decreases.
type SaleTier struct {
	Id     int32
	Price  decimal.Decimal
	Supply decimal.Decimal
	Issued decimal.Decimal
}

func (t SaleTier) Remaining() decimal.Decimal {
	return t.Supply.Sub(t.Issued)
}

// Allocation is the single allocation record an address may hold for the
// lifetime of the ledger. Claimed never exceeds Amount and never decreases.
type Allocation struct {
	Address   string
	BlockId   int32
	Amount    decimal.Decimal
	Claimed   decimal.Decimal
	IsPrivate bool
	// Closed marks an allocation released through the toll bridge. No further
	// vesting claims can succeed on a closed allocation.
	Closed bool
}

func (a Allocation) Remaining() decimal.Decimal {
	return a.Amount.Sub(a.Claimed)
}

// SaleState is the singleton sale state. EndTime stays zero until the sale is
// terminated; the termination date becomes the vesting epoch.
type SaleState struct {
	StartTime   time.Time
	EndTime     time.Time
	SoftCap     decimal.Decimal
	HardCap     decimal.Decimal
	MinBuy      decimal.Decimal
	MaxBuy      decimal.Decimal
	TotalRaised decimal.Decimal
	Ended       bool
}

// VestingStatus is the per-allocation vesting state machine.
type VestingStatus string

const (
	VestingStatusLocked      VestingStatus = "locked"
	VestingStatusVesting     VestingStatus = "vesting"
	VestingStatusFullyVested VestingStatus = "fully_vested"
	VestingStatusClosed      VestingStatus = "closed"
)

// Pool identifies a segregated balance of received payment funds.
type Pool string

const (
	PoolCompany   Pool = "company"
	PoolReferral  Pool = "referral"
	PoolLiquidity Pool = "liquidity"
)

// SaleInfo is a point-in-time snapshot of the whole sale for reporting.
type SaleInfo struct {
	TokenName         string
	TokenSymbol       string
	PaymentAssetPrice decimal.Decimal
	State             SaleState
	Tiers             []SaleTier
	Pools             map[Pool]decimal.Decimal
}

type EventType string

const (
	EventTypeAllocationIssued  EventType = "allocation_issued"
	EventTypeSaleEnded         EventType = "sale_ended"
	EventTypeReferralLinked    EventType = "referral_linked"
	EventTypeReferralReward    EventType = "referral_reward_paid"
	EventTypeClaimProcessed    EventType = "claim_processed"
	EventTypeTollBridgeRelease EventType = "toll_bridge_release"
	EventTypeTokenLedgerLinked EventType = "token_ledger_linked"
	EventTypeWithdrawal        EventType = "withdrawal"
)

// Event is a state-change notification. It carries enough data for an
// external indexer to reconstruct ledger state from the event log alone.
type Event struct {
	Sequence     uint64
	Type         EventType
	Address      string
	Counterparty string
	BlockId      int32
	Amount       decimal.Decimal
	Timestamp    time.Time
}
