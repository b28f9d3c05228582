package model

import "github.com/shopspring/decimal"

// Pair is a V2 liquidity pool. Token0Price and Token1Price are spot cross
// ratios; TrackedReserveETH is the whitelist-filtered share of the reserves.
type Pair struct {
	ID                 string          `json:"id"`
	Token0             string          `json:"token0"`
	Token1             string          `json:"token1"`
	Reserve0           decimal.Decimal `json:"reserve0"`
	Reserve1           decimal.Decimal `json:"reserve1"`
	Token0Price        decimal.Decimal `json:"token0_price"`
	Token1Price        decimal.Decimal `json:"token1_price"`
	ReserveETH         decimal.Decimal `json:"reserve_eth"`
	ReserveUSD         decimal.Decimal `json:"reserve_usd"`
	TrackedReserveETH  decimal.Decimal `json:"tracked_reserve_eth"`
	TotalSupply        decimal.Decimal `json:"total_supply"`
	LiquidityPositions []string        `json:"liquidity_positions"`
}
