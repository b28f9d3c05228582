package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"stakeScope/internal/model"
	"stakeScope/internal/units"
)

// Raw LP amount locked forever when a pair bootstraps; its burn to the zero
// address is not a real supply change.
const bootstrapLockRaw = "1000"

// HandleTransfer tracks LP token supply and per-wallet balances. Position
// values in ETH/USD are deliberately left stale here: reserves are unknown at
// transfer time, and the next sync of the pair revalues every position.
func (l *Ledger) HandleTransfer(pairAddress string, data model.TransferEventData) error {
	from := strings.ToLower(data.From)
	to := strings.ToLower(data.To)

	if to == AddressZero && data.Value == bootstrapLockRaw {
		return nil
	}

	pairID := strings.ToLower(pairAddress)
	pair, ok, err := l.store.LoadPair(pairID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("transfer for pair %s that was never created", pairID)
	}

	value, err := units.ParseRawAmount(data.Value, l.params.LPTokenDecimals)
	if err != nil {
		return fmt.Errorf("transfer value: %w", err)
	}

	if from == AddressZero {
		pair.TotalSupply = pair.TotalSupply.Add(value)
		if err := l.store.SavePair(pair); err != nil {
			return err
		}
	}
	if to == AddressZero && from == pair.ID {
		pair.TotalSupply = pair.TotalSupply.Sub(value)
		if err := l.store.SavePair(pair); err != nil {
			return err
		}
	}

	if from != AddressZero && from != pair.ID {
		if err := l.refreshHolding(pair, from, data.FromBalance); err != nil {
			return err
		}
	}
	if to != AddressZero && to != pair.ID {
		if err := l.refreshHolding(pair, to, data.ToBalance); err != nil {
			return err
		}
	}

	// Keep every position's supply snapshot current so the next sync
	// computes balance-to-supply ratios against the new total.
	pair, ok, err = l.store.LoadPair(pairID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("pair %s disappeared mid-transfer", pairID)
	}
	for _, positionID := range pair.LiquidityPositions {
		position, ok, err := l.store.LoadPosition(positionID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("position %s registered on pair %s but not stored", positionID, pairID)
		}
		position.TotalSupply = pair.TotalSupply
		if err := l.store.SavePosition(position); err != nil {
			return err
		}
	}

	return nil
}

func (l *Ledger) refreshHolding(pair model.Pair, wallet, rawBalance string) error {
	if _, err := l.getOrCreateProvider(wallet); err != nil {
		return err
	}
	position, err := l.getOrCreatePosition(pair.ID, wallet)
	if err != nil {
		return err
	}

	if pair.TotalSupply.IsPositive() {
		balance, err := units.ParseRawAmount(rawBalance, l.params.LPTokenDecimals)
		if err != nil {
			return fmt.Errorf("lp balance of %s: %w", wallet, err)
		}
		position.LiquidityTokenBalance = balance
		position.TotalSupply = pair.TotalSupply
	} else {
		position.LiquidityTokenBalance = decimal.Zero
		position.TotalSupply = decimal.Zero
	}

	return l.store.SavePosition(position)
}
