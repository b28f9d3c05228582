package memory

import (
	"strings"

	"stakeScope/internal/model"
)

// Store is an in-memory entity store. Records are copied on load and save so
// callers never share state with the maps, matching the load-mutate-save
// contract of the persistent store.
type Store struct {
	prices          map[string]model.Price
	priceHistory    map[string]model.HourlyPriceHistory
	tokens          map[string]model.Token
	pairs           map[string]model.Pair
	pairIndex       map[string]string
	factories       map[string]model.Factory
	providers       map[string]model.LiquidityProvider
	positions       map[string]model.LiquidityPosition
	stakings        map[string]model.Staking
	stakers         map[string]model.Staker
	stakes          map[string]model.Stake
	stakingSnaps    map[string]model.StakingSnapshot
	rewardSnaps     map[string]model.RewardPositionSnapshot
	lastProcessedTS uint64
	hasState        bool
}

func NewStore() *Store {
	return &Store{
		prices:       make(map[string]model.Price),
		priceHistory: make(map[string]model.HourlyPriceHistory),
		tokens:       make(map[string]model.Token),
		pairs:        make(map[string]model.Pair),
		pairIndex:    make(map[string]string),
		factories:    make(map[string]model.Factory),
		providers:    make(map[string]model.LiquidityProvider),
		positions:    make(map[string]model.LiquidityPosition),
		stakings:     make(map[string]model.Staking),
		stakers:      make(map[string]model.Staker),
		stakes:       make(map[string]model.Stake),
		stakingSnaps: make(map[string]model.StakingSnapshot),
		rewardSnaps:  make(map[string]model.RewardPositionSnapshot),
	}
}

func (s *Store) LoadPrice(id string) (model.Price, bool, error) {
	price, ok := s.prices[id]
	return price, ok, nil
}

func (s *Store) SavePrice(price model.Price) error {
	s.prices[price.ID] = price
	return nil
}

func (s *Store) SavePriceHistory(history model.HourlyPriceHistory) error {
	s.priceHistory[history.ID] = history
	return nil
}

func (s *Store) LoadToken(id string) (model.Token, bool, error) {
	token, ok := s.tokens[id]
	return token, ok, nil
}

func (s *Store) SaveToken(token model.Token) error {
	s.tokens[token.ID] = token
	return nil
}

func (s *Store) LoadPair(id string) (model.Pair, bool, error) {
	pair, ok := s.pairs[id]
	if !ok {
		return model.Pair{}, false, nil
	}
	pair.LiquidityPositions = copyStrings(pair.LiquidityPositions)
	return pair, true, nil
}

func (s *Store) SavePair(pair model.Pair) error {
	pair.LiquidityPositions = copyStrings(pair.LiquidityPositions)
	s.pairs[pair.ID] = pair
	s.pairIndex[pairKey(pair.Token0, pair.Token1)] = pair.ID
	return nil
}

func (s *Store) PairFor(token, quote string) (string, bool, error) {
	id, ok := s.pairIndex[pairKey(token, quote)]
	return id, ok, nil
}

func (s *Store) LoadFactory(id string) (model.Factory, bool, error) {
	factory, ok := s.factories[id]
	return factory, ok, nil
}

func (s *Store) SaveFactory(factory model.Factory) error {
	s.factories[factory.ID] = factory
	return nil
}

func (s *Store) LoadProvider(id string) (model.LiquidityProvider, bool, error) {
	provider, ok := s.providers[id]
	if !ok {
		return model.LiquidityProvider{}, false, nil
	}
	provider.LiquidityPositions = copyStrings(provider.LiquidityPositions)
	return provider, true, nil
}

func (s *Store) SaveProvider(provider model.LiquidityProvider) error {
	provider.LiquidityPositions = copyStrings(provider.LiquidityPositions)
	s.providers[provider.ID] = provider
	return nil
}

func (s *Store) LoadPosition(id string) (model.LiquidityPosition, bool, error) {
	position, ok := s.positions[id]
	return position, ok, nil
}

func (s *Store) SavePosition(position model.LiquidityPosition) error {
	s.positions[position.ID] = position
	return nil
}

func (s *Store) LoadStaking(id string) (model.Staking, bool, error) {
	staking, ok := s.stakings[id]
	if !ok {
		return model.Staking{}, false, nil
	}
	staking.Stakes = copyStrings(staking.Stakes)
	staking.LiquidityProviders = copyStrings(staking.LiquidityProviders)
	return staking, true, nil
}

func (s *Store) SaveStaking(staking model.Staking) error {
	staking.Stakes = copyStrings(staking.Stakes)
	staking.LiquidityProviders = copyStrings(staking.LiquidityProviders)
	s.stakings[staking.ID] = staking
	return nil
}

func (s *Store) LoadStaker(id string) (model.Staker, bool, error) {
	staker, ok := s.stakers[id]
	if !ok {
		return model.Staker{}, false, nil
	}
	staker.Stakes = copyStrings(staker.Stakes)
	return staker, true, nil
}

func (s *Store) SaveStaker(staker model.Staker) error {
	staker.Stakes = copyStrings(staker.Stakes)
	s.stakers[staker.ID] = staker
	return nil
}

func (s *Store) LoadStake(id string) (model.Stake, bool, error) {
	stake, ok := s.stakes[id]
	return stake, ok, nil
}

func (s *Store) SaveStake(stake model.Stake) error {
	s.stakes[stake.ID] = stake
	return nil
}

func (s *Store) SaveStakingSnapshot(snapshot model.StakingSnapshot) error {
	s.stakingSnaps[snapshot.ID] = snapshot
	return nil
}

func (s *Store) SaveRewardSnapshot(snapshot model.RewardPositionSnapshot) error {
	s.rewardSnaps[snapshot.ID] = snapshot
	return nil
}

// Load returns the last applied event timestamp.
func (s *Store) Load() (uint64, bool, error) {
	return s.lastProcessedTS, s.hasState, nil
}

// Save records the last applied event timestamp.
func (s *Store) Save(ts uint64) error {
	s.lastProcessedTS = ts
	s.hasState = true
	return nil
}

func copyStrings(items []string) []string {
	if items == nil {
		return nil
	}
	out := make([]string, len(items))
	copy(out, items)
	return out
}

func pairKey(token, quote string) string {
	token = strings.ToLower(token)
	quote = strings.ToLower(quote)
	if quote < token {
		token, quote = quote, token
	}
	return token + "|" + quote
}
