package model

import "github.com/shopspring/decimal"

// LiquidityProvider aggregates a wallet's pool positions and staking totals
// together with its reward state. Share is the wallet's fraction of global
// tracked liquidity; Crops is the unnormalized reward score.
type LiquidityProvider struct {
	ID                        string          `json:"id"`
	Address                   string          `json:"address"`
	LiquidityPositions        []string        `json:"liquidity_positions"`
	TotalLiquidityProvidedETH decimal.Decimal `json:"total_liquidity_provided_eth"`
	TotalLiquidityProvidedUSD decimal.Decimal `json:"total_liquidity_provided_usd"`
	TotalTokenStaked          decimal.Decimal `json:"total_token_staked"`
	TotalTokenStakedUSD       decimal.Decimal `json:"total_token_staked_usd"`
	Share                     decimal.Decimal `json:"share"`
	FactorA                   decimal.Decimal `json:"factor_a"`
	FactorB                   decimal.Decimal `json:"factor_b"`
	Crops                     decimal.Decimal `json:"crops"`
	Reward                    decimal.Decimal `json:"reward"`
}

// LiquidityPosition is one (pair, provider) holding. LiquidityProvidedETH/USD
// derive from the pair reserves and the balance-to-supply ratio, recomputed on
// every reserve sync of the pair.
type LiquidityPosition struct {
	ID                    string          `json:"id"`
	Pair                  string          `json:"pair"`
	Provider              string          `json:"provider"`
	ReserveETH            decimal.Decimal `json:"reserve_eth"`
	ReserveUSD            decimal.Decimal `json:"reserve_usd"`
	LiquidityTokenBalance decimal.Decimal `json:"liquidity_token_balance"`
	TotalSupply           decimal.Decimal `json:"total_supply"`
	LiquidityProvidedETH  decimal.Decimal `json:"liquidity_provided_eth"`
	LiquidityProvidedUSD  decimal.Decimal `json:"liquidity_provided_usd"`
}
