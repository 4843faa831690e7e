package config

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	test := func(input, expected string) {
		t.Run(input, func(t *testing.T) {
			price, err := ParsePrice(input)
			require.NoError(t, err)
			assert.Equal(t, expected, price.Round(12).String())
		})
	}
	testError := func(input string) {
		t.Run(input, func(t *testing.T) {
			_, err := ParsePrice(input)
			assert.Error(t, err)
		})
	}

	test("5", "5")
	test("4", "4")
	test("0.25", "0.25")
	test("10/3", "3.333333333333")
	test("20/3", "6.666666666667")
	test("20 / 3", "6.666666666667")

	testError("")
	testError("abc")
	testError("1/0")
	testError("1/x")
}

func TestParsePriceFractionIsExact(t *testing.T) {
	// 7.5 payment at 20/3 tokens per unit buys exactly 50 tokens once rounded
	// to the ledger amount scale.
	decimal.DivisionPrecision = 36
	price, err := ParsePrice("20/3")
	require.NoError(t, err)
	tokens := decimal.RequireFromString("7.5").Mul(price).Round(12)
	assert.Equal(t, "50", tokens.String())
}
