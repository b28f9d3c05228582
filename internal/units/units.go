package units

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

const secondsPerHour = 3600

// ToDecimal scales a raw integer token amount by the token's decimals.
func ToDecimal(raw *big.Int, decimals int32) decimal.Decimal {
	if raw == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(raw, -decimals)
}

// ParseRawAmount parses a raw unscaled integer string and scales it by
// the token's decimals.
func ParseRawAmount(value string, decimals int32) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	raw, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return decimal.Zero, fmt.Errorf("invalid raw amount: %s", value)
	}
	return ToDecimal(raw, decimals), nil
}

// HourStart rounds a unix timestamp down to its hour boundary.
func HourStart(ts uint64) uint64 {
	return ts - (ts % secondsPerHour)
}

// NextHourStart rounds a unix timestamp up to the next hour boundary.
// Every timestamp within one hour maps to the same bucket key.
func NextHourStart(ts uint64) uint64 {
	return (ts/secondsPerHour + 1) * secondsPerHour
}
