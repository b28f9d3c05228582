package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"stakeScope/internal/model"
	"stakeScope/internal/pricing"
	"stakeScope/internal/store"
)

// The zero address marks mints and burns on LP token transfers.
const AddressZero = "0x0000000000000000000000000000000000000000"

var one = decimal.NewFromInt(1)

// Ledger applies typed chain events to the entity store and keeps prices,
// positions, staking totals, and reward state consistent. Handlers are
// strictly sequential; replaying the same event log yields identical state.
type Ledger struct {
	store  store.Store
	oracle *pricing.Oracle
	params Params
	logger *zap.Logger
}

func New(st store.Store, params Params, logger *zap.Logger) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	params = params.Normalized()
	oracle := pricing.NewOracle(st, pricing.Config{
		WETH:            params.WETHAddress,
		Whitelist:       params.Whitelist,
		PriceID:         params.PriceID,
		DefaultETHPrice: params.DefaultETHPrice,
		DefaultCROPrice: params.DefaultCROPrice,
	})
	return &Ledger{store: st, oracle: oracle, params: params, logger: logger}
}

// Oracle exposes the ledger's price oracle.
func (l *Ledger) Oracle() *pricing.Oracle {
	return l.oracle
}

// HandlePairCreated registers a new pair and its tokens. Token records are
// created with zeroed liquidity; existing tokens keep their state.
func (l *Ledger) HandlePairCreated(data model.PairCreatedEventData) error {
	pairID := strings.ToLower(data.Pair)
	token0ID := strings.ToLower(data.Token0)
	token1ID := strings.ToLower(data.Token1)

	if _, ok, err := l.store.LoadPair(pairID); err != nil {
		return err
	} else if ok {
		return nil
	}

	if err := l.ensureToken(token0ID, data.Token0Decimals); err != nil {
		return err
	}
	if err := l.ensureToken(token1ID, data.Token1Decimals); err != nil {
		return err
	}

	pair := model.Pair{
		ID:     pairID,
		Token0: token0ID,
		Token1: token1ID,
	}
	if err := l.store.SavePair(pair); err != nil {
		return err
	}

	factory, err := l.getOrCreateFactory()
	if err != nil {
		return err
	}
	factory.PairCount++
	if err := l.store.SaveFactory(factory); err != nil {
		return err
	}

	l.logger.Info("pair created",
		zap.String("pair", pairID),
		zap.String("token0", token0ID),
		zap.String("token1", token1ID),
	)
	return nil
}

func (l *Ledger) ensureToken(id string, decimals int32) error {
	if _, ok, err := l.store.LoadToken(id); err != nil {
		return err
	} else if ok {
		return nil
	}
	return l.store.SaveToken(model.Token{ID: id, Decimals: decimals})
}

func (l *Ledger) getOrCreateFactory() (model.Factory, error) {
	factory, ok, err := l.store.LoadFactory(l.params.FactoryAddress)
	if err != nil {
		return model.Factory{}, err
	}
	if !ok {
		factory = model.Factory{ID: l.params.FactoryAddress}
	}
	return factory, nil
}

func (l *Ledger) getOrCreateStaking() (model.Staking, error) {
	staking, ok, err := l.store.LoadStaking(l.params.StakingID)
	if err != nil {
		return model.Staking{}, err
	}
	if !ok {
		staking = model.Staking{ID: l.params.StakingID}
		if err := l.store.SaveStaking(staking); err != nil {
			return model.Staking{}, err
		}
	}
	return staking, nil
}

// getOrCreateProvider lazily creates a provider record and registers it in
// the global roster exactly once.
func (l *Ledger) getOrCreateProvider(address string) (model.LiquidityProvider, error) {
	address = strings.ToLower(address)
	provider, ok, err := l.store.LoadProvider(address)
	if err != nil {
		return model.LiquidityProvider{}, err
	}
	if ok {
		return provider, nil
	}

	provider = model.LiquidityProvider{
		ID:      address,
		Address: address,
		FactorA: one,
	}
	if err := l.store.SaveProvider(provider); err != nil {
		return model.LiquidityProvider{}, err
	}

	staking, err := l.getOrCreateStaking()
	if err != nil {
		return model.LiquidityProvider{}, err
	}
	staking.LiquidityProviders = append(staking.LiquidityProviders, address)
	if err := l.store.SaveStaking(staking); err != nil {
		return model.LiquidityProvider{}, err
	}

	return provider, nil
}

// getOrCreatePosition lazily creates a (pair, provider) position and
// registers it in both owner lists, idempotently.
func (l *Ledger) getOrCreatePosition(pairID, providerID string) (model.LiquidityPosition, error) {
	id := pairID + "-" + providerID
	position, ok, err := l.store.LoadPosition(id)
	if err != nil {
		return model.LiquidityPosition{}, err
	}
	if ok {
		return position, nil
	}

	position = model.LiquidityPosition{
		ID:       id,
		Pair:     pairID,
		Provider: providerID,
	}
	if err := l.store.SavePosition(position); err != nil {
		return model.LiquidityPosition{}, err
	}

	pair, ok, err := l.store.LoadPair(pairID)
	if err != nil {
		return model.LiquidityPosition{}, err
	}
	if !ok {
		return model.LiquidityPosition{}, fmt.Errorf("pair %s not created", pairID)
	}
	if !containsString(pair.LiquidityPositions, id) {
		pair.LiquidityPositions = append(pair.LiquidityPositions, id)
		if err := l.store.SavePair(pair); err != nil {
			return model.LiquidityPosition{}, err
		}
	}

	provider, ok, err := l.store.LoadProvider(providerID)
	if err != nil {
		return model.LiquidityPosition{}, err
	}
	if !ok {
		return model.LiquidityPosition{}, fmt.Errorf("provider %s not created", providerID)
	}
	if !containsString(provider.LiquidityPositions, id) {
		provider.LiquidityPositions = append(provider.LiquidityPositions, id)
		if err := l.store.SaveProvider(provider); err != nil {
			return model.LiquidityPosition{}, err
		}
	}

	return position, nil
}

func containsString(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}
