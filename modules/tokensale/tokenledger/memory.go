package tokenledger

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
)

// MemoryLedger is an in-process token ledger. It backs development setups and
// tests; production deployments link a real token ledger instead.
type MemoryLedger struct {
	mu       sync.Mutex
	name     string
	symbol   string
	balances map[string]decimal.Decimal
}

var _ Ledger = (*MemoryLedger)(nil)

func NewMemoryLedger(name, symbol string) *MemoryLedger {
	return &MemoryLedger{
		name:     name,
		symbol:   symbol,
		balances: make(map[string]decimal.Decimal),
	}
}

func (l *MemoryLedger) MintOrTransfer(_ context.Context, to string, amount decimal.Decimal) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[to] = l.balances[to].Add(amount)
	return nil
}

func (l *MemoryLedger) Name(context.Context) (string, error) {
	return l.name, nil
}

func (l *MemoryLedger) Symbol(context.Context) (string, error) {
	return l.symbol, nil
}

func (l *MemoryLedger) BalanceOf(_ context.Context, address string) (decimal.Decimal, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[address], nil
}
