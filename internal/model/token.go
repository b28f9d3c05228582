package model

import "github.com/shopspring/decimal"

// Token is a tracked ERC20 asset. DerivedETH is the last computed unit price
// in the reference currency; TotalLiquidity sums its reserves across pairs.
type Token struct {
	ID             string          `json:"id"`
	Decimals       int32           `json:"decimals"`
	DerivedETH     decimal.Decimal `json:"derived_eth"`
	TotalLiquidity decimal.Decimal `json:"total_liquidity"`
}
