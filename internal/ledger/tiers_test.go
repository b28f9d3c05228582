package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMultiplierOneYearLadder(t *testing.T) {
	cases := []struct {
		amount string
		want   string
	}{
		{"999", "0"},
		{"1000", "1"},
		{"5000", "1.3"},
		{"10000", "1.5"},
		{"50000", "2"},
		{"100000", "3"},
		{"500000", "4"},
		{"1000000", "6"},
		{"5000000", "8"},
		{"50000000", "10"},
		{"60000000", "10"},
	}

	for _, tc := range cases {
		got := Multiplier(TermOneYear, decimal.RequireFromString(tc.amount))
		assert.True(t, got.Equal(decimal.RequireFromString(tc.want)),
			"amount %s: got %s, want %s", tc.amount, got, tc.want)
	}
}

func TestMultiplierThreeYearTenThousand(t *testing.T) {
	// The published three-year table has 1.1 at the 10K tier, below both
	// the 5K entry (1.8) and the one-year 10K entry (1.5).
	got := Multiplier(TermThreeYear, decimal.NewFromInt(10_000))
	assert.True(t, got.Equal(decimal.RequireFromString("1.1")), "got %s", got)

	below := Multiplier(TermThreeYear, decimal.NewFromInt(5_000))
	assert.True(t, below.Equal(decimal.RequireFromString("1.8")), "got %s", below)
}

func TestMultiplierFourYearTops(t *testing.T) {
	got := Multiplier(TermFourYear, decimal.NewFromInt(50_000_000))
	assert.True(t, got.Equal(decimal.NewFromInt(20)), "got %s", got)
}

func TestMultiplierUnknownTerm(t *testing.T) {
	got := Multiplier(TermUnknown, decimal.NewFromInt(1_000_000))
	assert.True(t, got.IsZero(), "unknown term should not multiply, got %s", got)
}
