package decimals

import (
	"github.com/Cleverse/go-utilities/utils"
	"github.com/shopspring/decimal"
)

// DefaultDivPrecision is the division precision used for fixed-point
// arithmetic across the ledger. High enough that repeating fractions such as
// tier prices like 20/3 stay exact after rounding to the amount scale.
const DefaultDivPrecision = 36

func init() {
	decimal.DivisionPrecision = DefaultDivPrecision
}

// MustFromString convert string to decimal.Decimal. Panic if error
// string must be a valid number, not NaN, Inf or empty string.
func MustFromString(s string) decimal.Decimal {
	return utils.Must(decimal.NewFromString(s))
}
