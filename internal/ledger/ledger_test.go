package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"stakeScope/internal/model"
	"stakeScope/internal/store/memory"
)

const (
	testPair    = "0x00000000000000000000000000000000000000f1"
	testWallet1 = "0x0000000000000000000000000000000000000a01"
	testWallet2 = "0x0000000000000000000000000000000000000a02"
	testTxHash  = "0x6a5d0c0f3f9d2d0ce5a4e1d5b5b1fb1d6d5e4f3a2b1c0d9e8f7a6b5c4d3e2f10"

	oneYearLock = uint64(31_536_000)
)

func newTestLedger(t *testing.T) (*Ledger, *memory.Store) {
	t.Helper()
	st := memory.NewStore()
	return New(st, DefaultParams(), nil), st
}

// seedMarket creates the CRO/WETH pair and sets reference prices to
// ETH=2000 and CRO=0.05.
func seedMarket(t *testing.T, l *Ledger) {
	t.Helper()
	assert.NoError(t, l.HandlePairCreated(model.PairCreatedEventData{
		Token0:         croAddress,
		Token1:         wethAddress,
		Pair:           testPair,
		Token0Decimals: 8,
		Token1Decimals: 18,
	}))
	assert.NoError(t, l.HandleETHPriceSync(model.SyncEventData{
		Reserve0: "2000000000",          // 2000 USDC
		Reserve1: "1000000000000000000", // 1 ETH
	}, 1_600_000_000))
	assert.NoError(t, l.HandleCROPriceSync(model.SyncEventData{
		Reserve0: "100000000", // 1 CRO
		Reserve1: "50000",     // 0.05 USDC
	}, 1_600_000_000))
}

// syncTestPair applies 10000 CRO / 1 WETH reserves.
func syncTestPair(t *testing.T, l *Ledger, ts uint64) {
	t.Helper()
	assert.NoError(t, l.HandleSync(testPair, model.SyncEventData{
		Reserve0: "1000000000000",
		Reserve1: "1000000000000000000",
	}, ts))
}

func TestHandlePairCreated(t *testing.T) {
	l, st := newTestLedger(t)

	data := model.PairCreatedEventData{
		Token0:         croAddress,
		Token1:         wethAddress,
		Pair:           testPair,
		Token0Decimals: 8,
		Token1Decimals: 18,
	}
	assert.NoError(t, l.HandlePairCreated(data))
	// Replays of the same creation are no-ops.
	assert.NoError(t, l.HandlePairCreated(data))

	pair, ok, err := st.LoadPair(testPair)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, croAddress, pair.Token0)
	assert.Equal(t, wethAddress, pair.Token1)

	token, ok, err := st.LoadToken(croAddress)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int32(8), token.Decimals)

	factory, ok, err := st.LoadFactory(factoryAddress)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(1), factory.PairCount)
}

func TestReferencePriceSyncs(t *testing.T) {
	l, st := newTestLedger(t)
	seedMarket(t, l)

	price, ok, err := st.LoadPrice("1")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, price.ETH.Equal(decimal.NewFromInt(2000)), "eth %s", price.ETH)
	assert.True(t, price.CRO.Equal(decimal.RequireFromString("0.05")), "cro %s", price.CRO)

	// A drained pool leaves the previous price standing.
	assert.NoError(t, l.HandleCROPriceSync(model.SyncEventData{Reserve0: "0", Reserve1: "0"}, 1_600_000_100))
	price, _, err = st.LoadPrice("1")
	assert.NoError(t, err)
	assert.True(t, price.CRO.Equal(decimal.RequireFromString("0.05")), "cro %s", price.CRO)
}

func TestHandleSyncTracksLiquidity(t *testing.T) {
	l, st := newTestLedger(t)
	seedMarket(t, l)

	// First sync: WETH has no stored derived price for CRO to chain off
	// yet, so only the WETH leg is valued.
	syncTestPair(t, l, 1_600_000_100)

	pair, _, err := st.LoadPair(testPair)
	assert.NoError(t, err)
	assert.True(t, pair.Token0Price.Equal(decimal.NewFromInt(10000)), "token0 price %s", pair.Token0Price)
	assert.True(t, pair.Token1Price.Equal(decimal.RequireFromString("0.0001")), "token1 price %s", pair.Token1Price)
	assert.True(t, pair.ReserveUSD.Equal(decimal.NewFromInt(2000)), "reserve usd %s", pair.ReserveUSD)

	// Second sync: CRO now derives through the stored WETH price, so
	// both legs are valued and the stale contribution is replaced,
	// not accumulated.
	syncTestPair(t, l, 1_600_000_200)

	pair, _, err = st.LoadPair(testPair)
	assert.NoError(t, err)
	assert.True(t, pair.ReserveUSD.Equal(decimal.NewFromInt(4000)), "reserve usd %s", pair.ReserveUSD)
	assert.True(t, pair.TrackedReserveETH.Equal(decimal.NewFromInt(2)), "tracked eth %s", pair.TrackedReserveETH)

	factory, _, err := st.LoadFactory(factoryAddress)
	assert.NoError(t, err)
	assert.True(t, factory.TotalLiquidityETH.Equal(decimal.NewFromInt(2)), "factory eth %s", factory.TotalLiquidityETH)
	assert.True(t, factory.TotalLiquidityUSD.Equal(decimal.NewFromInt(4000)), "factory usd %s", factory.TotalLiquidityUSD)

	token, _, err := st.LoadToken(croAddress)
	assert.NoError(t, err)
	assert.True(t, token.DerivedETH.Equal(decimal.RequireFromString("0.0001")), "derived %s", token.DerivedETH)
	assert.True(t, token.TotalLiquidity.Equal(decimal.NewFromInt(10000)), "total liquidity %s", token.TotalLiquidity)

	// Replaying the same reserves leaves every aggregate unchanged: the
	// previous contribution is always subtracted before the new one is
	// added.
	syncTestPair(t, l, 1_600_000_300)

	factory, _, err = st.LoadFactory(factoryAddress)
	assert.NoError(t, err)
	assert.True(t, factory.TotalLiquidityETH.Equal(decimal.NewFromInt(2)), "factory eth %s", factory.TotalLiquidityETH)

	token, _, err = st.LoadToken(croAddress)
	assert.NoError(t, err)
	assert.True(t, token.TotalLiquidity.Equal(decimal.NewFromInt(10000)), "total liquidity %s", token.TotalLiquidity)
}

func TestHandleSyncZeroReserve(t *testing.T) {
	l, st := newTestLedger(t)
	seedMarket(t, l)

	assert.NoError(t, l.HandleSync(testPair, model.SyncEventData{
		Reserve0: "0",
		Reserve1: "1000000000000000000",
	}, 1_600_000_100))

	pair, _, err := st.LoadPair(testPair)
	assert.NoError(t, err)
	assert.True(t, pair.Token1Price.IsZero(), "token1 price %s", pair.Token1Price)
	assert.True(t, pair.Token0Price.IsZero(), "token0 price %s", pair.Token0Price)

	assert.NoError(t, l.HandleSync(testPair, model.SyncEventData{
		Reserve0: "1000000000000",
		Reserve1: "0",
	}, 1_600_000_200))

	pair, _, err = st.LoadPair(testPair)
	assert.NoError(t, err)
	assert.True(t, pair.Token0Price.IsZero(), "token0 price %s", pair.Token0Price)
	assert.True(t, pair.Token1Price.IsZero(), "token1 price %s", pair.Token1Price)
}

func TestHandleSyncUnknownPair(t *testing.T) {
	l, _ := newTestLedger(t)
	err := l.HandleSync("0x00000000000000000000000000000000000000ff", model.SyncEventData{
		Reserve0: "1",
		Reserve1: "1",
	}, 1_600_000_000)
	assert.Error(t, err)
}

func TestHandleTransferSupplyAndPositions(t *testing.T) {
	l, st := newTestLedger(t)
	seedMarket(t, l)

	// The bootstrap lock burn is not a real supply change.
	assert.NoError(t, l.HandleTransfer(testPair, model.TransferEventData{
		From:  AddressZero,
		To:    AddressZero,
		Value: "1000",
	}))
	pair, _, err := st.LoadPair(testPair)
	assert.NoError(t, err)
	assert.True(t, pair.TotalSupply.IsZero(), "supply %s", pair.TotalSupply)

	// Mint one LP token to wallet1.
	assert.NoError(t, l.HandleTransfer(testPair, model.TransferEventData{
		From:      AddressZero,
		To:        testWallet1,
		Value:     "1000000000000000000",
		ToBalance: "1000000000000000000",
	}))

	pair, _, err = st.LoadPair(testPair)
	assert.NoError(t, err)
	assert.True(t, pair.TotalSupply.Equal(decimal.NewFromInt(1)), "supply %s", pair.TotalSupply)

	position, ok, err := st.LoadPosition(testPair + "-" + testWallet1)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, position.LiquidityTokenBalance.Equal(decimal.NewFromInt(1)), "balance %s", position.LiquidityTokenBalance)

	// Positions are valued on the next sync, not at transfer time.
	assert.True(t, position.LiquidityProvidedUSD.IsZero())
	syncTestPair(t, l, 1_600_000_100)
	syncTestPair(t, l, 1_600_000_200)

	provider, _, err := st.LoadProvider(testWallet1)
	assert.NoError(t, err)
	assert.True(t, provider.TotalLiquidityProvidedUSD.Equal(decimal.NewFromInt(4000)),
		"provided usd %s", provider.TotalLiquidityProvidedUSD)

	// Burn the full position: wallet sends LP to the pair, the pair
	// burns it to the zero address.
	assert.NoError(t, l.HandleTransfer(testPair, model.TransferEventData{
		From:        testWallet1,
		To:          testPair,
		Value:       "1000000000000000000",
		FromBalance: "0",
	}))
	assert.NoError(t, l.HandleTransfer(testPair, model.TransferEventData{
		From:  testPair,
		To:    AddressZero,
		Value: "1000000000000000000",
	}))

	pair, _, err = st.LoadPair(testPair)
	assert.NoError(t, err)
	assert.True(t, pair.TotalSupply.IsZero(), "supply %s", pair.TotalSupply)

	syncTestPair(t, l, 1_600_000_300)
	provider, _, err = st.LoadProvider(testWallet1)
	assert.NoError(t, err)
	assert.True(t, provider.TotalLiquidityProvidedUSD.IsZero(),
		"provided usd %s", provider.TotalLiquidityProvidedUSD)
}

func TestHandleStakedRewardFlow(t *testing.T) {
	l, st := newTestLedger(t)
	seedMarket(t, l)

	assert.NoError(t, l.HandleTransfer(testPair, model.TransferEventData{
		From:      AddressZero,
		To:        testWallet1,
		Value:     "1000000000000000000",
		ToBalance: "1000000000000000000",
	}))
	syncTestPair(t, l, 1_600_000_100)
	syncTestPair(t, l, 1_600_000_200)

	// Stake 10000 CRO for one year: tier multiplier 1.5.
	assert.NoError(t, l.HandleStaked(stakingOneYearAddress, model.StakedEventData{
		User:         testWallet1,
		Amount:       "1000000000000",
		TxFrom:       testWallet1,
		LockDuration: oneYearLock,
	}, testTxHash, 1_600_000_300))

	stake, ok, err := st.LoadStake(testTxHash)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, TermOneYear, stake.Term)
	assert.Equal(t, uint64(1_600_000_300)+oneYearLock, stake.UnlockAt)
	assert.True(t, stake.TokenAmount.Equal(decimal.NewFromInt(10000)), "amount %s", stake.TokenAmount)
	assert.True(t, stake.TokenAmountUSD.Equal(decimal.NewFromInt(500)), "amount usd %s", stake.TokenAmountUSD)

	staking, _, err := st.LoadStaking("1")
	assert.NoError(t, err)
	assert.Equal(t, int64(1), staking.StakeCount)
	assert.Equal(t, int64(1), staking.StakerCount)
	assert.True(t, staking.TotalTokenStaked.Equal(decimal.NewFromInt(10000)), "staked %s", staking.TotalTokenStaked)

	provider, _, err := st.LoadProvider(testWallet1)
	assert.NoError(t, err)
	assert.True(t, provider.FactorB.Equal(decimal.RequireFromString("1.5")), "factor b %s", provider.FactorB)
	assert.True(t, provider.Share.Equal(decimal.NewFromInt(1)), "share %s", provider.Share)
	// crops = share * factorA * factorB * minimum pool = 1.5M
	assert.True(t, provider.Crops.Equal(decimal.NewFromInt(1_500_000)), "crops %s", provider.Crops)
	// Sole staker takes the whole minimum pool.
	assert.True(t, provider.Reward.Equal(decimal.NewFromInt(1_000_000)), "reward %s", provider.Reward)

	assert.True(t, staking.TotalCrops.Equal(provider.Crops), "total crops %s", staking.TotalCrops)

	// A staker with no pool liquidity earns no crops and no reward.
	assert.NoError(t, l.HandleStaked(stakingFourYearAddress, model.StakedEventData{
		User:         testWallet2,
		Amount:       "500000000000", // 5000 CRO
		TxFrom:       testWallet2,
		LockDuration: 4 * oneYearLock,
	}, "0x0000000000000000000000000000000000000000000000000000000000000002", 1_600_000_400))

	other, _, err := st.LoadProvider(testWallet2)
	assert.NoError(t, err)
	assert.True(t, other.Crops.IsZero(), "crops %s", other.Crops)
	assert.True(t, other.Reward.IsZero(), "reward %s", other.Reward)

	staking, _, err = st.LoadStaking("1")
	assert.NoError(t, err)
	assert.True(t, staking.TotalCrops.Equal(provider.Crops), "total crops %s", staking.TotalCrops)
}

func TestFactorBWeightedMean(t *testing.T) {
	l, st := newTestLedger(t)
	seedMarket(t, l)

	// 10000 CRO one-year (1.5), then 10000 CRO four-year (3.0): the
	// provider's factorB is the amount-weighted mean, 2.25.
	assert.NoError(t, l.HandleStaked(stakingOneYearAddress, model.StakedEventData{
		User:         testWallet1,
		Amount:       "1000000000000",
		TxFrom:       testWallet1,
		LockDuration: oneYearLock,
	}, testTxHash, 1_600_000_100))
	assert.NoError(t, l.HandleStaked(stakingFourYearAddress, model.StakedEventData{
		User:         testWallet1,
		Amount:       "1000000000000",
		TxFrom:       testWallet1,
		LockDuration: 4 * oneYearLock,
	}, "0x0000000000000000000000000000000000000000000000000000000000000003", 1_600_000_200))

	provider, _, err := st.LoadProvider(testWallet1)
	assert.NoError(t, err)
	assert.True(t, provider.FactorB.Equal(decimal.RequireFromString("2.25")), "factor b %s", provider.FactorB)
	assert.True(t, provider.TotalTokenStaked.Equal(decimal.NewFromInt(20000)), "staked %s", provider.TotalTokenStaked)

	// One staker, two stakes.
	staking, _, err := st.LoadStaking("1")
	assert.NoError(t, err)
	assert.Equal(t, int64(2), staking.StakeCount)
	assert.Equal(t, int64(1), staking.StakerCount)
}
