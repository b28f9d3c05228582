package ledger

import "github.com/shopspring/decimal"

// Term keys for the four lock durations.
const (
	TermOneYear   = "1"
	TermTwoYear   = "2"
	TermThreeYear = "3"
	TermFourYear  = "4"
	TermUnknown   = "Unknown"
)

// Tier ladder thresholds in staked token units, highest first. The highest
// threshold met wins; below 1,000 every term multiplies to 0.
var tierThresholds = []decimal.Decimal{
	decimal.NewFromInt(50_000_000),
	decimal.NewFromInt(5_000_000),
	decimal.NewFromInt(1_000_000),
	decimal.NewFromInt(500_000),
	decimal.NewFromInt(100_000),
	decimal.NewFromInt(50_000),
	decimal.NewFromInt(10_000),
	decimal.NewFromInt(5_000),
	decimal.NewFromInt(1_000),
}

// Multiplier values per term, aligned with tierThresholds. The three-year
// 10K entry (1.1) sits below its own 5K entry and below the one-year 10K
// entry; that is what the published tier table says, so it is kept verbatim.
var tierTables = map[string][]decimal.Decimal{
	TermOneYear:   tierValues("10.0", "8.0", "6.0", "4.0", "3.0", "2.0", "1.5", "1.3", "1.0"),
	TermTwoYear:   tierValues("11.5", "9.2", "6.9", "4.6", "3.5", "2.3", "1.7", "1.4", "1.2"),
	TermThreeYear: tierValues("14.3", "11.4", "8.6", "5.7", "4.3", "2.9", "1.1", "1.8", "1.4"),
	TermFourYear:  tierValues("20.0", "16.0", "12.0", "8.0", "6.0", "4.0", "3.0", "2.5", "2.0"),
}

func tierValues(values ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, 0, len(values))
	for _, value := range values {
		out = append(out, decimal.RequireFromString(value))
	}
	return out
}

// Multiplier looks up the staking multiplier for a term and staked amount.
// Unknown terms and amounts below the lowest threshold yield 0.
func Multiplier(term string, amount decimal.Decimal) decimal.Decimal {
	table, ok := tierTables[term]
	if !ok {
		return decimal.Zero
	}
	for i, threshold := range tierThresholds {
		if amount.GreaterThanOrEqual(threshold) {
			return table[i]
		}
	}
	return decimal.Zero
}
