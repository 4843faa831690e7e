package config

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/tokensale/internal/postgres"
	"github.com/shopspring/decimal"
)

type Config struct {
	Postgres postgres.Config `mapstructure:"postgres"`
	// EventStore selects the event log backend: "memory" (default) or "postgres".
	EventStore string `mapstructure:"event_store"`
	Sale       Sale   `mapstructure:"sale"`
}

// Sale holds the sale parameters recognized at construction. Amounts are
// decimal strings; caps and buy limits follow the conventions documented on
// the ledger (caps in payment-asset units, buy limits in token units).
type Sale struct {
	Owner             string `mapstructure:"owner"`
	CompanyWallet     string `mapstructure:"company_wallet"`
	TokenName         string `mapstructure:"token_name"`
	TokenSymbol       string `mapstructure:"token_symbol"`
	PaymentAssetPrice string `mapstructure:"payment_asset_price"`

	StartTime int64  `mapstructure:"start_time"` // epoch seconds
	SoftCap   string `mapstructure:"soft_cap"`
	HardCap   string `mapstructure:"hard_cap"`
	MinBuy    string `mapstructure:"min_buy"`
	MaxBuy    string `mapstructure:"max_buy"`

	LockPeriodDays      int    `mapstructure:"lock_period_days"`
	VestingDurationDays int    `mapstructure:"vesting_duration_days"`
	Tiers               []Tier `mapstructure:"tiers"`
}

// Tier configures one sale tier. Price is the number of tokens issued per
// unit of payment and accepts plain decimals ("5") or fractions ("20/3") for
// prices that have no finite decimal representation.
type Tier struct {
	Price  string `mapstructure:"price"`
	Supply string `mapstructure:"supply"`
}

// ParsePrice parses a tier price string, accepting "num/den" fractions.
func ParsePrice(s string) (decimal.Decimal, error) {
	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err := decimal.NewFromString(strings.TrimSpace(num))
		if err != nil {
			return decimal.Zero, errors.Wrapf(err, "invalid price numerator %q", num)
		}
		d, err := decimal.NewFromString(strings.TrimSpace(den))
		if err != nil {
			return decimal.Zero, errors.Wrapf(err, "invalid price denominator %q", den)
		}
		if d.IsZero() {
			return decimal.Zero, errors.Errorf("zero price denominator in %q", s)
		}
		return n.Div(d), nil
	}
	price, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "invalid price %q", s)
	}
	return price, nil
}
