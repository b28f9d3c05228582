package ledger

import (
	"fmt"

	"stakeScope/internal/model"
	"stakeScope/internal/units"
)

// HandleETHPriceSync updates the reference ETH/USD price from the designated
// USDC/WETH pool. Zero reserves leave the previous price in place; they are
// transient pool states, not errors.
func (l *Ledger) HandleETHPriceSync(data model.SyncEventData, timestamp uint64) error {
	usdcReserve, err := units.ParseRawAmount(data.Reserve0, l.params.USDCDecimals)
	if err != nil {
		return fmt.Errorf("usdc reserve: %w", err)
	}
	ethReserve, err := units.ParseRawAmount(data.Reserve1, l.params.ETHDecimals)
	if err != nil {
		return fmt.Errorf("eth reserve: %w", err)
	}

	price, ok, err := l.store.LoadPrice(l.params.PriceID)
	if err != nil {
		return err
	}
	if !ok {
		price = model.Price{ID: l.params.PriceID}
	}

	if !usdcReserve.IsZero() && !ethReserve.IsZero() {
		price.ETH = usdcReserve.Div(ethReserve)
	}

	if err := l.store.SavePrice(price); err != nil {
		return err
	}
	return l.recordPriceSnapshot(price, timestamp)
}

// HandleCROPriceSync updates the CRO/USD price from the designated CRO/USDC
// pool.
func (l *Ledger) HandleCROPriceSync(data model.SyncEventData, timestamp uint64) error {
	croReserve, err := units.ParseRawAmount(data.Reserve0, l.params.CRODecimals)
	if err != nil {
		return fmt.Errorf("cro reserve: %w", err)
	}
	usdcReserve, err := units.ParseRawAmount(data.Reserve1, l.params.USDCDecimals)
	if err != nil {
		return fmt.Errorf("usdc reserve: %w", err)
	}

	price, ok, err := l.store.LoadPrice(l.params.PriceID)
	if err != nil {
		return err
	}
	if !ok {
		price = model.Price{ID: l.params.PriceID}
	}

	if !croReserve.IsZero() {
		price.CRO = usdcReserve.Div(croReserve)
	}

	if err := l.store.SavePrice(price); err != nil {
		return err
	}
	return l.recordPriceSnapshot(price, timestamp)
}
