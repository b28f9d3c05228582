package model

import "github.com/shopspring/decimal"

// Staking is the singleton global staking aggregate.
type Staking struct {
	ID                  string          `json:"id"`
	StakeCount          int64           `json:"stake_count"`
	StakerCount         int64           `json:"staker_count"`
	TotalTokenStaked    decimal.Decimal `json:"total_token_staked"`
	TotalTokenStakedUSD decimal.Decimal `json:"total_token_staked_usd"`
	TotalCrops          decimal.Decimal `json:"total_crops"`
	Stakes              []string        `json:"stakes"`
	LiquidityProviders  []string        `json:"liquidity_providers"`
}

// Staker aggregates per-address stake totals. A staker always has at least
// one Stake record; a LiquidityProvider may not.
type Staker struct {
	ID                  string          `json:"id"`
	Address             string          `json:"address"`
	StakeCount          int64           `json:"stake_count"`
	TotalTokenStaked    decimal.Decimal `json:"total_token_staked"`
	TotalTokenStakedUSD decimal.Decimal `json:"total_token_staked_usd"`
	Stakes              []string        `json:"stakes"`
}

// Stake is one stake event, keyed by transaction hash. Immutable once written.
type Stake struct {
	ID              string          `json:"id"`
	StakedFor       string          `json:"staked_for"`
	StakedBy        string          `json:"staked_by"`
	TokenAmount     decimal.Decimal `json:"token_amount"`
	TokenAmountUSD  decimal.Decimal `json:"token_amount_usd"`
	StakedAt        uint64          `json:"staked_at"`
	ContractAddress string          `json:"contract_address"`
	Term            string          `json:"term"`
	UnlockAt        uint64          `json:"unlock_at"`
}
