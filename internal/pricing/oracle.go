package pricing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"stakeScope/internal/model"
)

// Source is the read-side slice of the entity store the oracle needs.
type Source interface {
	LoadPrice(id string) (model.Price, bool, error)
	LoadToken(id string) (model.Token, bool, error)
	LoadPair(id string) (model.Pair, bool, error)
	PairFor(token, quote string) (string, bool, error)
}

// Config fixes the whitelist anchors and bootstrap prices.
type Config struct {
	// WETH is the reference asset; its derived price is always 1.
	WETH string
	// Whitelist is the ordered set of price anchors. The first whitelist
	// member paired with a token wins; there is no liquidity-based
	// selection and no multi-hop traversal.
	Whitelist []string
	PriceID   string
	// Fallbacks used until the first reference-pool sync is observed.
	DefaultETHPrice decimal.Decimal
	DefaultCROPrice decimal.Decimal
}

// Oracle derives reference-currency token prices from the pair graph.
type Oracle struct {
	src Source
	cfg Config
}

var two = decimal.NewFromInt(2)

func NewOracle(src Source, cfg Config) *Oracle {
	cfg.WETH = strings.ToLower(cfg.WETH)
	whitelist := make([]string, 0, len(cfg.Whitelist))
	for _, entry := range cfg.Whitelist {
		whitelist = append(whitelist, strings.ToLower(entry))
	}
	cfg.Whitelist = whitelist
	return &Oracle{src: src, cfg: cfg}
}

// IsWhitelisted reports whether the token is a trusted price anchor.
func (o *Oracle) IsWhitelisted(token string) bool {
	token = strings.ToLower(token)
	for _, entry := range o.cfg.Whitelist {
		if entry == token {
			return true
		}
	}
	return false
}

// DerivedETH walks the whitelist in declaration order and returns the
// token's unit price in the reference currency via the first pair found.
// Tokens with no whitelist pairing derive to 0 and stay untracked.
func (o *Oracle) DerivedETH(token model.Token) (decimal.Decimal, error) {
	if strings.ToLower(token.ID) == o.cfg.WETH {
		return decimal.NewFromInt(1), nil
	}

	for _, anchor := range o.cfg.Whitelist {
		pairID, ok, err := o.src.PairFor(token.ID, anchor)
		if err != nil {
			return decimal.Zero, err
		}
		if !ok {
			continue
		}
		pair, found, err := o.src.LoadPair(pairID)
		if err != nil {
			return decimal.Zero, err
		}
		if !found {
			return decimal.Zero, fmt.Errorf("pair %s indexed but not stored", pairID)
		}

		if pair.Token0 == token.ID {
			counterpart, found, err := o.src.LoadToken(pair.Token1)
			if err != nil {
				return decimal.Zero, err
			}
			if !found {
				return decimal.Zero, fmt.Errorf("token %s of pair %s not stored", pair.Token1, pairID)
			}
			return pair.Token1Price.Mul(counterpart.DerivedETH), nil
		}
		if pair.Token1 == token.ID {
			counterpart, found, err := o.src.LoadToken(pair.Token0)
			if err != nil {
				return decimal.Zero, err
			}
			if !found {
				return decimal.Zero, fmt.Errorf("token %s of pair %s not stored", pair.Token0, pairID)
			}
			return pair.Token0Price.Mul(counterpart.DerivedETH), nil
		}
	}

	return decimal.Zero, nil
}

// ETHPriceInUSD returns the tracked USD price of the reference asset, or the
// bootstrap default before the first reference-pool sync.
func (o *Oracle) ETHPriceInUSD() (decimal.Decimal, error) {
	price, ok, err := o.src.LoadPrice(o.cfg.PriceID)
	if err != nil {
		return decimal.Zero, err
	}
	if !ok {
		return o.cfg.DefaultETHPrice, nil
	}
	return price.ETH, nil
}

// CROPriceInUSD returns the tracked USD price of the staking token, or the
// bootstrap default before the first reference-pool sync.
func (o *Oracle) CROPriceInUSD() (decimal.Decimal, error) {
	price, ok, err := o.src.LoadPrice(o.cfg.PriceID)
	if err != nil {
		return decimal.Zero, err
	}
	if !ok {
		return o.cfg.DefaultCROPrice, nil
	}
	return price.CRO, nil
}

// TrackedLiquidityUSD values a reserve pair, counting only whitelisted legs.
// Both legs whitelisted: full sum. One leg: double that leg, assuming a
// balanced pool. Neither: 0.
func (o *Oracle) TrackedLiquidityUSD(amount0 decimal.Decimal, token0 model.Token, amount1 decimal.Decimal, token1 model.Token) (decimal.Decimal, error) {
	ethPrice, err := o.ETHPriceInUSD()
	if err != nil {
		return decimal.Zero, err
	}
	price0 := token0.DerivedETH.Mul(ethPrice)
	price1 := token1.DerivedETH.Mul(ethPrice)

	listed0 := o.IsWhitelisted(token0.ID)
	listed1 := o.IsWhitelisted(token1.ID)

	switch {
	case listed0 && listed1:
		return amount0.Mul(price0).Add(amount1.Mul(price1)), nil
	case listed0:
		return amount0.Mul(price0).Mul(two), nil
	case listed1:
		return amount1.Mul(price1).Mul(two), nil
	default:
		return decimal.Zero, nil
	}
}
