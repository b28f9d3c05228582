package memory

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"stakeScope/internal/model"
)

func TestLoadCopiesSlices(t *testing.T) {
	st := NewStore()

	if err := st.SaveStaking(model.Staking{
		ID:                 "1",
		LiquidityProviders: []string{"0xaa"},
	}); err != nil {
		t.Fatalf("save staking: %v", err)
	}

	staking, ok, err := st.LoadStaking("1")
	if err != nil || !ok {
		t.Fatalf("load staking: ok=%v err=%v", ok, err)
	}
	staking.LiquidityProviders[0] = "0xmutated"

	again, _, err := st.LoadStaking("1")
	if err != nil {
		t.Fatalf("reload staking: %v", err)
	}
	if again.LiquidityProviders[0] != "0xaa" {
		t.Fatalf("stored slice mutated through a loaded copy: %v", again.LiquidityProviders)
	}
}

func TestPairForIgnoresOrder(t *testing.T) {
	st := NewStore()

	if err := st.SavePair(model.Pair{ID: "0xp1", Token0: "0xAA", Token1: "0xbb"}); err != nil {
		t.Fatalf("save pair: %v", err)
	}

	id, ok, err := st.PairFor("0xbb", "0xaa")
	if err != nil || !ok {
		t.Fatalf("reversed lookup: ok=%v err=%v", ok, err)
	}
	if id != "0xp1" {
		t.Fatalf("unexpected pair id %s", id)
	}

	if _, ok, _ := st.PairFor("0xaa", "0xcc"); ok {
		t.Fatalf("lookup for unpaired tokens should miss")
	}
}

func TestStateRoundTrip(t *testing.T) {
	st := NewStore()

	if _, ok, _ := st.Load(); ok {
		t.Fatalf("fresh store should have no state")
	}
	if err := st.Save(1_600_000_000); err != nil {
		t.Fatalf("save state: %v", err)
	}
	ts, ok, err := st.Load()
	if err != nil || !ok {
		t.Fatalf("load state: ok=%v err=%v", ok, err)
	}
	if ts != 1_600_000_000 {
		t.Fatalf("unexpected timestamp %d", ts)
	}
}

func TestDumpWritesJSONLines(t *testing.T) {
	st := NewStore()

	if err := st.SaveToken(model.Token{ID: "0xaa", Decimals: 18, DerivedETH: decimal.NewFromInt(1)}); err != nil {
		t.Fatalf("save token: %v", err)
	}
	if err := st.SavePair(model.Pair{ID: "0xp1", Token0: "0xaa", Token1: "0xbb"}); err != nil {
		t.Fatalf("save pair: %v", err)
	}

	path := filepath.Join(t.TempDir(), "out", "dump.jsonl")
	if err := st.Dump(path); err != nil {
		t.Fatalf("dump: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open dump: %v", err)
	}
	defer file.Close()

	entities := map[string]int{}
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var record struct {
			Entity string          `json:"entity"`
			Value  json.RawMessage `json:"value"`
		}
		if err := json.Unmarshal(scanner.Bytes(), &record); err != nil {
			t.Fatalf("bad dump line %q: %v", scanner.Text(), err)
		}
		if len(record.Value) == 0 {
			t.Fatalf("dump line without value: %q", scanner.Text())
		}
		entities[record.Entity]++
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("scan dump: %v", err)
	}

	if entities["token"] != 1 || entities["pair"] != 1 {
		t.Fatalf("unexpected entity counts: %v", entities)
	}
}
