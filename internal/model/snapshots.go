package model

import "github.com/shopspring/decimal"

// StakingSnapshot is an hourly copy of the global staking aggregate,
// keyed by "<staking id>-<next hour boundary>".
type StakingSnapshot struct {
	ID                  string          `json:"id"`
	Timestamp           uint64          `json:"timestamp"`
	StakeCount          int64           `json:"stake_count"`
	StakerCount         int64           `json:"staker_count"`
	TotalTokenStaked    decimal.Decimal `json:"total_token_staked"`
	TotalTokenStakedUSD decimal.Decimal `json:"total_token_staked_usd"`
	TotalCrops          decimal.Decimal `json:"total_crops"`
}

// RewardPositionSnapshot is an hourly copy of one provider's reward state,
// keyed by "<provider id>-<next hour boundary>".
type RewardPositionSnapshot struct {
	ID                        string          `json:"id"`
	Timestamp                 uint64          `json:"timestamp"`
	Address                   string          `json:"address"`
	LiquidityProvider         string          `json:"liquidity_provider"`
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
