package httphandler

import (
	"context"
	"time"

	"github.com/gaze-network/tokensale/modules/tokensale/datagateway"
	"github.com/gaze-network/tokensale/modules/tokensale/internal/entity"
	"github.com/shopspring/decimal"
)

// Ledger is the sale ledger surface exposed over HTTP.
type Ledger interface {
	Info() entity.SaleInfo
	GetAllocation(buyer string) (entity.Allocation, entity.VestingStatus, decimal.Decimal, error)
	Purchase(ctx context.Context, buyer string, blockId int32, payment decimal.Decimal) (entity.Allocation, error)
	Claim(ctx context.Context, buyer string) (decimal.Decimal, error)
	TollBridgeRelease(ctx context.Context, buyer string) (released, forfeited decimal.Decimal, err error)
	AddReferral(ctx context.Context, referee, referrer string) error
	ReferralReward(ctx context.Context, caller, recipient string, amount decimal.Decimal) error
	IssueGrant(ctx context.Context, caller, holder string, blockId int32, amount decimal.Decimal) (entity.Allocation, error)
	EndSale(ctx context.Context, caller string) error
	SetVestingEpoch(ctx context.Context, caller string, epoch time.Time) error
	Withdraw(ctx context.Context, caller string, pool entity.Pool, destination string) (decimal.Decimal, error)
}

type handler struct {
	ledger Ledger
	saleDg datagateway.TokenSaleDataGateway
}

func New(ledger Ledger, saleDg datagateway.TokenSaleDataGateway) *handler {
	return &handler{
		ledger: ledger,
		saleDg: saleDg,
	}
}
