package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"stakeScope/internal/model"
	"stakeScope/internal/units"
)

// HandleSync applies a reserve snapshot to a pair. Reserves are absolute, so
// the pair's previous contribution to the global and per-token totals is
// subtracted before the new values are added back. A sync for a pair that was
// never created aborts the event; it signals an ingestion-order bug upstream.
func (l *Ledger) HandleSync(pairAddress string, data model.SyncEventData, timestamp uint64) error {
	pairID := strings.ToLower(pairAddress)
	pair, ok, err := l.store.LoadPair(pairID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("sync for pair %s that was never created", pairID)
	}

	token0, ok, err := l.store.LoadToken(pair.Token0)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("token %s of pair %s not stored", pair.Token0, pairID)
	}
	token1, ok, err := l.store.LoadToken(pair.Token1)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("token %s of pair %s not stored", pair.Token1, pairID)
	}

	factory, err := l.getOrCreateFactory()
	if err != nil {
		return err
	}

	// Undo the stale contribution before recomputing.
	factory.TotalLiquidityETH = factory.TotalLiquidityETH.Sub(pair.TrackedReserveETH)
	token0.TotalLiquidity = token0.TotalLiquidity.Sub(pair.Reserve0)
	token1.TotalLiquidity = token1.TotalLiquidity.Sub(pair.Reserve1)

	pair.Reserve0, err = units.ParseRawAmount(data.Reserve0, token0.Decimals)
	if err != nil {
		return fmt.Errorf("reserve0: %w", err)
	}
	pair.Reserve1, err = units.ParseRawAmount(data.Reserve1, token1.Decimals)
	if err != nil {
		return fmt.Errorf("reserve1: %w", err)
	}

	if !pair.Reserve1.IsZero() {
		pair.Token0Price = pair.Reserve0.Div(pair.Reserve1)
	} else {
		pair.Token0Price = decimal.Zero
	}
	if !pair.Reserve0.IsZero() {
		pair.Token1Price = pair.Reserve1.Div(pair.Reserve0)
	} else {
		pair.Token1Price = decimal.Zero
	}

	// The oracle walks pairs through the store, so the updated spot prices
	// must be visible before deriving token prices.
	if err := l.store.SavePair(pair); err != nil {
		return err
	}

	derived0, err := l.oracle.DerivedETH(token0)
	if err != nil {
		return err
	}
	derived1, err := l.oracle.DerivedETH(token1)
	if err != nil {
		return err
	}
	token0.DerivedETH = derived0
	token1.DerivedETH = derived1
	if err := l.store.SaveToken(token0); err != nil {
		return err
	}
	if err := l.store.SaveToken(token1); err != nil {
		return err
	}

	ethPrice, err := l.oracle.ETHPriceInUSD()
	if err != nil {
		return err
	}

	trackedLiquidityETH := decimal.Zero
	if !ethPrice.IsZero() {
		trackedUSD, err := l.oracle.TrackedLiquidityUSD(pair.Reserve0, token0, pair.Reserve1, token1)
		if err != nil {
			return err
		}
		trackedLiquidityETH = trackedUSD.Div(ethPrice)
	}

	pair.TrackedReserveETH = trackedLiquidityETH
	pair.ReserveETH = pair.Reserve0.Mul(token0.DerivedETH).Add(pair.Reserve1.Mul(token1.DerivedETH))
	pair.ReserveUSD = pair.ReserveETH.Mul(ethPrice)

	factory.TotalLiquidityETH = factory.TotalLiquidityETH.Add(trackedLiquidityETH)
	factory.TotalLiquidityUSD = factory.TotalLiquidityETH.Mul(ethPrice)

	token0.TotalLiquidity = token0.TotalLiquidity.Add(pair.Reserve0)
	token1.TotalLiquidity = token1.TotalLiquidity.Add(pair.Reserve1)

	if err := l.store.SavePair(pair); err != nil {
		return err
	}
	if err := l.store.SaveFactory(factory); err != nil {
		return err
	}
	if err := l.store.SaveToken(token0); err != nil {
		return err
	}
	if err := l.store.SaveToken(token1); err != nil {
		return err
	}

	if err := l.revaluePositions(pair); err != nil {
		return err
	}

	return l.UpdateRewardForAll(timestamp)
}

// revaluePositions recomputes liquidityProvided for every position registered
// against the pair and rolls the delta into each owner's aggregate totals.
func (l *Ledger) revaluePositions(pair model.Pair) error {
	for _, positionID := range pair.LiquidityPositions {
		position, ok, err := l.store.LoadPosition(positionID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("position %s registered on pair %s but not stored", positionID, pair.ID)
		}
		provider, ok, err := l.store.LoadProvider(position.Provider)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("provider %s of position %s not stored", position.Provider, positionID)
		}

		provider.TotalLiquidityProvidedETH = provider.TotalLiquidityProvidedETH.Sub(position.LiquidityProvidedETH)
		provider.TotalLiquidityProvidedUSD = provider.TotalLiquidityProvidedUSD.Sub(position.LiquidityProvidedUSD)

		if position.TotalSupply.IsPositive() {
			ratio := position.LiquidityTokenBalance.Div(position.TotalSupply)
			position.ReserveETH = pair.ReserveETH
			position.ReserveUSD = pair.ReserveUSD
			position.LiquidityProvidedETH = position.ReserveETH.Mul(ratio)
			position.LiquidityProvidedUSD = position.ReserveUSD.Mul(ratio)
		} else {
			position.ReserveETH = decimal.Zero
			position.ReserveUSD = decimal.Zero
			position.LiquidityProvidedETH = decimal.Zero
			position.LiquidityProvidedUSD = decimal.Zero
		}

		provider.TotalLiquidityProvidedETH = provider.TotalLiquidityProvidedETH.Add(position.LiquidityProvidedETH)
		provider.TotalLiquidityProvidedUSD = provider.TotalLiquidityProvidedUSD.Add(position.LiquidityProvidedUSD)

		if err := l.store.SaveProvider(provider); err != nil {
			return err
		}
		if err := l.store.SavePosition(position); err != nil {
			return err
		}
	}
	return nil
}
