package model

import "github.com/shopspring/decimal"

// Factory is the global liquidity aggregate, maintained incrementally
// (subtract old contribution, add new) on every reserve sync.
type Factory struct {
	ID                string          `json:"id"`
	PairCount         int64           `json:"pair_count"`
	TotalLiquidityETH decimal.Decimal `json:"total_liquidity_eth"`
	TotalLiquidityUSD decimal.Decimal `json:"total_liquidity_usd"`
}
