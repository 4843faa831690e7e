package httphandler

import (
	"time"

	"github.com/gaze-network/tokensale/modules/tokensale/internal/entity"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type tierResponse struct {
	Id        int32           `json:"id"`
	Price     decimal.Decimal `json:"price"`
	Supply    decimal.Decimal `json:"supply"`
	Issued    decimal.Decimal `json:"issued"`
	Remaining decimal.Decimal `json:"remaining"`
}

type infoResponse struct {
	TokenName         string                     `json:"tokenName"`
	TokenSymbol       string                     `json:"tokenSymbol"`
	PaymentAssetPrice decimal.Decimal            `json:"paymentAssetPrice"`
	StartAt           time.Time                  `json:"startAt"`
	EndedAt           *time.Time                 `json:"endedAt"`
	Ended             bool                       `json:"ended"`
	SoftCap           decimal.Decimal            `json:"softCap"`
	HardCap           decimal.Decimal            `json:"hardCap"`
	MinBuy            decimal.Decimal            `json:"minBuy"`
	MaxBuy            decimal.Decimal            `json:"maxBuy"`
	TotalRaised       decimal.Decimal            `json:"totalRaised"`
	Tiers             []tierResponse             `json:"tiers"`
	Pools             map[string]decimal.Decimal `json:"pools"`
}

type allocationResponse struct {
	Address   string          `json:"address"`
	Tier      int32           `json:"tier"`
	Amount    decimal.Decimal `json:"amount"`
	Claimed   decimal.Decimal `json:"claimed"`
	Claimable decimal.Decimal `json:"claimable"`
	IsPrivate bool            `json:"isPrivate"`
	Status    string          `json:"status"`
}

type eventResponse struct {
	Sequence     uint64          `json:"sequence"`
	Type         string          `json:"type"`
	Address      string          `json:"address"`
	Counterparty string          `json:"counterparty,omitempty"`
	Tier         int32           `json:"tier,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	Timestamp    time.Time       `json:"timestamp"`
}

func newInfoResponse(info entity.SaleInfo) infoResponse {
	var endedAt *time.Time
	if !info.State.EndTime.IsZero() {
		endedAt = lo.ToPtr(info.State.EndTime)
	}
	pools := make(map[string]decimal.Decimal, len(info.Pools))
	for pool, balance := range info.Pools {
		pools[string(pool)] = balance
	}
	return infoResponse{
		TokenName:         info.TokenName,
		TokenSymbol:       info.TokenSymbol,
		PaymentAssetPrice: info.PaymentAssetPrice,
		StartAt:           info.State.StartTime,
		EndedAt:           endedAt,
		Ended:             info.State.Ended,
		SoftCap:           info.State.SoftCap,
		HardCap:           info.State.HardCap,
		MinBuy:            info.State.MinBuy,
		MaxBuy:            info.State.MaxBuy,
		TotalRaised:       info.State.TotalRaised,
		Tiers: lo.Map(info.Tiers, func(tier entity.SaleTier, _ int) tierResponse {
			return tierResponse{
				Id:        tier.Id,
				Price:     tier.Price,
				Supply:    tier.Supply,
				Issued:    tier.Issued,
				Remaining: tier.Remaining(),
			}
		}),
		Pools: pools,
	}
}

func newAllocationResponse(alloc entity.Allocation, status entity.VestingStatus, claimable decimal.Decimal) allocationResponse {
	return allocationResponse{
		Address:   alloc.Address,
		Tier:      alloc.BlockId,
		Amount:    alloc.Amount,
		Claimed:   alloc.Claimed,
		Claimable: claimable,
		IsPrivate: alloc.IsPrivate,
		Status:    string(status),
	}
}

func newEventResponse(event entity.Event) eventResponse {
	return eventResponse{
		Sequence:     event.Sequence,
		Type:         string(event.Type),
		Address:      event.Address,
		Counterparty: event.Counterparty,
		Tier:         event.BlockId,
		Amount:       event.Amount,
		Timestamp:    event.Timestamp,
	}
}
