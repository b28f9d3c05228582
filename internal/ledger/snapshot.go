package ledger

import (
	"strconv"

	"stakeScope/internal/model"
	"stakeScope/internal/units"
)

// Snapshots are keyed by the next hour boundary, so repeated events within
// one hour overwrite the same row and the last value in the bucket wins.
// They are written after all ledger mutations of the triggering event: a
// mid-event failure misses a snapshot but never leaves the ledger torn.

func hourKey(id string, timestamp uint64) (string, uint64) {
	boundary := units.NextHourStart(timestamp)
	return id + "-" + strconv.FormatUint(boundary, 10), boundary
}

func (l *Ledger) recordPriceSnapshot(price model.Price, timestamp uint64) error {
	boundary := units.NextHourStart(timestamp)
	return l.store.SavePriceHistory(model.HourlyPriceHistory{
		ID:        strconv.FormatUint(boundary, 10),
		Timestamp: boundary,
		ETH:       price.ETH,
		CRO:       price.CRO,
	})
}

func (l *Ledger) recordStakingSnapshot(staking model.Staking, timestamp uint64) error {
	id, boundary := hourKey(staking.ID, timestamp)
	return l.store.SaveStakingSnapshot(model.StakingSnapshot{
		ID:                  id,
		Timestamp:           boundary,
		StakeCount:          staking.StakeCount,
		StakerCount:         staking.StakerCount,
		TotalTokenStaked:    staking.TotalTokenStaked,
		TotalTokenStakedUSD: staking.TotalTokenStakedUSD,
		TotalCrops:          staking.TotalCrops,
	})
}

func (l *Ledger) recordRewardSnapshot(provider model.LiquidityProvider, timestamp uint64) error {
	id, boundary := hourKey(provider.ID, timestamp)
	return l.store.SaveRewardSnapshot(model.RewardPositionSnapshot{
		ID:                        id,
		Timestamp:                 boundary,
		Address:                   provider.Address,
		LiquidityProvider:         provider.ID,
		TotalLiquidityProvidedETH: provider.TotalLiquidityProvidedETH,
		TotalLiquidityProvidedUSD: provider.TotalLiquidityProvidedUSD,
		TotalTokenStaked:          provider.TotalTokenStaked,
		TotalTokenStakedUSD:       provider.TotalTokenStakedUSD,
		Share:                     provider.Share,
		FactorA:                   provider.FactorA,
		FactorB:                   provider.FactorB,
		Crops:                     provider.Crops,
		Reward:                    provider.Reward,
	})
}
