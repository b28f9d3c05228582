package store

import "stakeScope/internal/model"

// Store is the entity store boundary: load-by-id with an ok flag for absence,
// upsert-by-id saves. Implementations must give callers their own copy of
// every record; mutations are only visible after Save.
type Store interface {
	LoadPrice(id string) (model.Price, bool, error)
	SavePrice(price model.Price) error
	SavePriceHistory(history model.HourlyPriceHistory) error

	LoadToken(id string) (model.Token, bool, error)
	SaveToken(token model.Token) error

	LoadPair(id string) (model.Pair, bool, error)
	SavePair(pair model.Pair) error
	// PairFor returns the id of the pair holding both tokens, in either
	// order. There is at most one pair per token combination.
	PairFor(token, quote string) (string, bool, error)

	LoadFactory(id string) (model.Factory, bool, error)
	SaveFactory(factory model.Factory) error

	LoadProvider(id string) (model.LiquidityProvider, bool, error)
	SaveProvider(provider model.LiquidityProvider) error

	LoadPosition(id string) (model.LiquidityPosition, bool, error)
	SavePosition(position model.LiquidityPosition) error

	LoadStaking(id string) (model.Staking, bool, error)
	SaveStaking(staking model.Staking) error

	LoadStaker(id string) (model.Staker, bool, error)
	SaveStaker(staker model.Staker) error

	LoadStake(id string) (model.Stake, bool, error)
	SaveStake(stake model.Stake) error

	SaveStakingSnapshot(snapshot model.StakingSnapshot) error
	SaveRewardSnapshot(snapshot model.RewardPositionSnapshot) error
}

// StateStore persists the processor's last applied event timestamp.
type StateStore interface {
	Load() (uint64, bool, error)
	Save(ts uint64) error
}
