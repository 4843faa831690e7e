package tokenledger

import (
	"context"

	"github.com/shopspring/decimal"
)

// Ledger is the external fungible-token collaborator. The sale ledger only
// instructs it to move balances on claim/release; identity and balance
// queries exist for operators and tests.
type Ledger interface {
	// MintOrTransfer credits amount to the given address.
	MintOrTransfer(ctx context.Context, to string, amount decimal.Decimal) error
	Name(ctx context.Context) (string, error)
	Symbol(ctx context.Context) (string, error)
	BalanceOf(ctx context.Context, address string) (decimal.Decimal, error)
}
