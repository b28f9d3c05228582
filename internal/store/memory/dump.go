package memory

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

type dumpRecord struct {
	Entity string      `json:"entity"`
	Value  interface{} `json:"value"`
}

// Dump writes every stored entity as JSON lines, grouped by entity type and
// ordered by id, so DB-less runs still produce an inspectable result.
func (s *Store) Dump(path string) error {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("open output file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	sections := []struct {
		name  string
		items func() (ids []string, value func(id string) interface{})
	}{
		{"price", func() ([]string, func(string) interface{}) {
			return mapKeys(s.prices), func(id string) interface{} { return s.prices[id] }
		}},
		{"hourly_price_history", func() ([]string, func(string) interface{}) {
			return mapKeys(s.priceHistory), func(id string) interface{} { return s.priceHistory[id] }
		}},
		{"token", func() ([]string, func(string) interface{}) {
			return mapKeys(s.tokens), func(id string) interface{} { return s.tokens[id] }
		}},
		{"pair", func() ([]string, func(string) interface{}) {
			return mapKeys(s.pairs), func(id string) interface{} { return s.pairs[id] }
		}},
		{"factory", func() ([]string, func(string) interface{}) {
			return mapKeys(s.factories), func(id string) interface{} { return s.factories[id] }
		}},
		{"liquidity_provider", func() ([]string, func(string) interface{}) {
			return mapKeys(s.providers), func(id string) interface{} { return s.providers[id] }
		}},
		{"liquidity_position", func() ([]string, func(string) interface{}) {
			return mapKeys(s.positions), func(id string) interface{} { return s.positions[id] }
		}},
		{"staking", func() ([]string, func(string) interface{}) {
			return mapKeys(s.stakings), func(id string) interface{} { return s.stakings[id] }
		}},
		{"staker", func() ([]string, func(string) interface{}) {
			return mapKeys(s.stakers), func(id string) interface{} { return s.stakers[id] }
		}},
		{"stake", func() ([]string, func(string) interface{}) {
			return mapKeys(s.stakes), func(id string) interface{} { return s.stakes[id] }
		}},
		{"staking_snapshot", func() ([]string, func(string) interface{}) {
			return mapKeys(s.stakingSnaps), func(id string) interface{} { return s.stakingSnaps[id] }
		}},
		{"reward_position_snapshot", func() ([]string, func(string) interface{}) {
			return mapKeys(s.rewardSnaps), func(id string) interface{} { return s.rewardSnaps[id] }
		}},
	}

	for _, section := range sections {
		ids, value := section.items()
		sort.Strings(ids)
		for _, id := range ids {
			line, err := json.Marshal(dumpRecord{Entity: section.name, Value: value(id)})
			if err != nil {
				return fmt.Errorf("marshal %s %s: %w", section.name, id, err)
			}
			if _, err := writer.Write(line); err != nil {
				return fmt.Errorf("write record: %w", err)
			}
			if err := writer.WriteByte('\n'); err != nil {
				return fmt.Errorf("write newline: %w", err)
			}
		}
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	return nil
}

func mapKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	return keys
}
