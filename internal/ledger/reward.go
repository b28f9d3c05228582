package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"stakeScope/internal/model"
)

// UpdateRewardForAll recomputes every provider's crops, then every provider's
// reward. The passes must not interleave: totalCrops is the denominator of
// pass two and is only final once pass one has visited the whole roster.
func (l *Ledger) UpdateRewardForAll(timestamp uint64) error {
	staking, ok, err := l.store.LoadStaking(l.params.StakingID)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	for _, providerID := range staking.LiquidityProviders {
		provider, found, err := l.store.LoadProvider(providerID)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("provider %s registered but not stored", providerID)
		}
		if err := l.updateCrops(&provider, &staking); err != nil {
			return err
		}
		if err := l.store.SaveProvider(provider); err != nil {
			return err
		}
	}

	// totalCrops must be durable before any reward derives from it.
	if err := l.store.SaveStaking(staking); err != nil {
		return err
	}

	for _, providerID := range staking.LiquidityProviders {
		provider, found, err := l.store.LoadProvider(providerID)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("provider %s registered but not stored", providerID)
		}
		l.updateReward(&provider, staking)
		if err := l.store.SaveProvider(provider); err != nil {
			return err
		}
		if err := l.recordRewardSnapshot(provider, timestamp); err != nil {
			return err
		}
	}

	return l.recordStakingSnapshot(staking, timestamp)
}

// updateCrops recomputes one provider's share and crops. totalCrops is
// maintained incrementally: the provider's previous crops are retired before
// the new value is added, so totalCrops always equals the sum over the roster.
func (l *Ledger) updateCrops(provider *model.LiquidityProvider, staking *model.Staking) error {
	// Crops require both capital in a pool and an active stake.
	if provider.TotalLiquidityProvidedUSD.IsZero() || provider.TotalTokenStaked.IsZero() {
		staking.TotalCrops = staking.TotalCrops.Sub(provider.Crops)
		provider.Share = decimal.Zero
		provider.FactorA = one
		provider.Crops = decimal.Zero
		return nil
	}

	factory, err := l.getOrCreateFactory()
	if err != nil {
		return err
	}

	if factory.TotalLiquidityUSD.IsZero() {
		provider.Share = decimal.Zero
	} else {
		provider.Share = provider.TotalLiquidityProvidedUSD.Div(factory.TotalLiquidityUSD)
	}

	// FactorA is reserved: nothing writes a value other than 1, so the
	// share term is the only liquidity-dependent input today. FactorB is
	// written by the staking handler.
	staking.TotalCrops = staking.TotalCrops.Sub(provider.Crops)
	provider.Crops = provider.Share.Mul(provider.FactorA).Mul(provider.FactorB).Mul(l.params.MinimumRewardPool)
	staking.TotalCrops = staking.TotalCrops.Add(provider.Crops)

	return nil
}

// updateReward allocates the provider's slice of the reward pool by its
// crops fraction. The pool is a percentage of everything staked, floored at
// the minimum pool size.
func (l *Ledger) updateReward(provider *model.LiquidityProvider, staking model.Staking) {
	if staking.TotalCrops.IsZero() {
		provider.Reward = decimal.Zero
		return
	}

	rewardPool := staking.TotalTokenStaked.Mul(l.params.RewardPoolPercentage)
	if rewardPool.LessThan(l.params.MinimumRewardPool) {
		rewardPool = l.params.MinimumRewardPool
	}

	provider.Reward = provider.Crops.Div(staking.TotalCrops).Mul(rewardPool)
}
