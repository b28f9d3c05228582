package process

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stakeScope/internal/ledger"
	"stakeScope/internal/model"
	"stakeScope/internal/store/memory"
)

const (
	ethUSDCPair = "0x00000000000000000000000000000000000000e0"
	croWETHPair = "0x00000000000000000000000000000000000000e1"
	wallet      = "0x0000000000000000000000000000000000000a01"
	stakeTx     = "0x00000000000000000000000000000000000000000000000000000000000000aa"
)

func writeEvents(t *testing.T, events []model.TypedEvent) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.jsonl")
	file, err := os.Create(path)
	require.NoError(t, err)
	defer file.Close()

	encoder := json.NewEncoder(file)
	for _, event := range events {
		require.NoError(t, encoder.Encode(event))
	}
	return path
}

func replayEvents(t *testing.T, st *memory.Store, cfg Config, events []model.TypedEvent) {
	t.Helper()
	params := ledger.DefaultParams()
	led := ledger.New(st, params, nil)
	proc := NewProcessor(cfg, params, led, st, nil)
	require.NoError(t, proc.Run(context.Background(), writeEvents(t, events)))
}

func scenarioEvents(t *testing.T) []model.TypedEvent {
	t.Helper()
	params := ledger.DefaultParams()
	return []model.TypedEvent{
		{
			Address:   params.FactoryAddress,
			EventName: "PairCreated",
			Timestamp: 1_600_000_000,
			Decoded: model.PairCreatedEventData{
				Token0:         params.CROAddress,
				Token1:         params.WETHAddress,
				Pair:           croWETHPair,
				Token0Decimals: 8,
				Token1Decimals: 18,
			},
		},
		{
			Address:   ethUSDCPair,
			EventName: "Sync",
			Timestamp: 1_600_000_010,
			Decoded: model.SyncEventData{
				Reserve0: "2000000000",          // 2000 USDC
				Reserve1: "1000000000000000000", // 1 ETH
			},
		},
		{
			Address:   croWETHPair,
			EventName: "Transfer",
			Timestamp: 1_600_000_020,
			Decoded: model.TransferEventData{
				From:      ledger.AddressZero,
				To:        wallet,
				Value:     "1000000000000000000",
				ToBalance: "1000000000000000000",
			},
		},
		{
			Address:   croWETHPair,
			EventName: "Sync",
			Timestamp: 1_600_000_030,
			Decoded: model.SyncEventData{
				Reserve0: "1000000000000",       // 10000 CRO
				Reserve1: "1000000000000000000", // 1 WETH
			},
		},
		{
			Address:   "0x6aba3e56aeb3b95ad64161103d793fac5f6ce4f7",
			EventName: "Staked",
			TxHash:    stakeTx,
			TxFrom:    wallet,
			Timestamp: 1_600_000_040,
			Decoded: model.StakedEventData{
				User:         wallet,
				Amount:       "1000000000000", // 10000 CRO
				Total:        "1000000000000",
				LockDuration: 31_536_000,
			},
		},
	}
}

func TestProcessorReplaysEventLog(t *testing.T) {
	st := memory.NewStore()
	replayEvents(t, st, Config{ETHUSDCPair: ethUSDCPair}, scenarioEvents(t))

	price, ok, err := st.LoadPrice("1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, price.ETH.Equal(decimal.NewFromInt(2000)), "eth %s", price.ETH)

	pair, ok, err := st.LoadPair(croWETHPair)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, pair.TotalSupply.Equal(decimal.NewFromInt(1)), "supply %s", pair.TotalSupply)
	assert.True(t, pair.Token0Price.Equal(decimal.NewFromInt(10000)), "token0 price %s", pair.Token0Price)

	stake, ok, err := st.LoadStake(stakeTx)
	require.NoError(t, err)
	require.True(t, ok)
	// TxFrom falls through from the record when the payload omits it.
	assert.Equal(t, wallet, stake.StakedBy)

	staking, ok, err := st.LoadStaking("1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(1), staking.StakeCount)

	// State lands on the newest replayed timestamp.
	ts, ok, err := st.Load()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint64(1_600_000_040), ts)
}

func TestProcessorResumeSkipsReplayedEvents(t *testing.T) {
	st := memory.NewStore()
	events := scenarioEvents(t)
	replayEvents(t, st, Config{ETHUSDCPair: ethUSDCPair}, events)

	// A second run over the same file must not double-count anything.
	replayEvents(t, st, Config{ETHUSDCPair: ethUSDCPair}, events)

	staking, _, err := st.LoadStaking("1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), staking.StakeCount)

	pair, _, err := st.LoadPair(croWETHPair)
	require.NoError(t, err)
	assert.True(t, pair.TotalSupply.Equal(decimal.NewFromInt(1)), "supply %s", pair.TotalSupply)
}

func TestProcessorFromTimeFilter(t *testing.T) {
	st := memory.NewStore()
	// Everything before the cutoff is dropped, and the pair never exists, so
	// later events for it would fail; cut after the stake instead.
	replayEvents(t, st, Config{ETHUSDCPair: ethUSDCPair, FromTime: 1_600_001_000}, scenarioEvents(t))

	if _, ok, _ := st.LoadPair(croWETHPair); ok {
		t.Fatalf("pair should not exist when every event is filtered out")
	}
	if _, ok, _ := st.Load(); ok {
		t.Fatalf("no state should be written when nothing was applied")
	}
}

func TestProcessorIgnoresForeignFactoryAndUnknownEvents(t *testing.T) {
	st := memory.NewStore()
	events := []model.TypedEvent{
		{
			Address:   "0x1111111111111111111111111111111111111111",
			EventName: "PairCreated",
			Timestamp: 1_600_000_000,
			Decoded: model.PairCreatedEventData{
				Token0: "0xaa", Token1: "0xbb", Pair: croWETHPair,
			},
		},
		{
			Address:   croWETHPair,
			EventName: "Swap",
			Timestamp: 1_600_000_010,
			Decoded:   map[string]string{"amount0In": "1"},
		},
	}
	replayEvents(t, st, Config{}, events)

	if _, ok, _ := st.LoadPair(croWETHPair); ok {
		t.Fatalf("pair from a foreign factory should be ignored")
	}
}
