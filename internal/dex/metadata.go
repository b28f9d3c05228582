package dex

import (
	"bytes"
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"stakeScope/internal/chain"
)

// TokenMeta is immutable ERC20 metadata fetched once per token.
type TokenMeta struct {
	Address  string
	Decimals uint8
	Symbol   string
	Name     string
}

// TokenMetaCache caches token metadata by address.
type TokenMetaCache struct {
	mu   sync.RWMutex
	data map[common.Address]TokenMeta
}

func NewTokenMetaCache() *TokenMetaCache {
	return &TokenMetaCache{data: make(map[common.Address]TokenMeta)}
}

func (c *TokenMetaCache) Get(address common.Address) (TokenMeta, bool) {
	c.mu.RLock()
	meta, ok := c.data[address]
	c.mu.RUnlock()
	return meta, ok
}

func (c *TokenMetaCache) Set(address common.Address, meta TokenMeta) {
	c.mu.Lock()
	c.data[address] = meta
	c.mu.Unlock()
}

// LockDurationCache caches the configured lock-in per staking contract.
// The value is immutable on the contracts we index, so one call per
// contract per run is enough.
type LockDurationCache struct {
	mu   sync.RWMutex
	data map[common.Address]uint64
}

func NewLockDurationCache() *LockDurationCache {
	return &LockDurationCache{data: make(map[common.Address]uint64)}
}

func (c *LockDurationCache) Get(address common.Address) (uint64, bool) {
	c.mu.RLock()
	duration, ok := c.data[address]
	c.mu.RUnlock()
	return duration, ok
}

func (c *LockDurationCache) Set(address common.Address, duration uint64) {
	c.mu.Lock()
	c.data[address] = duration
	c.mu.Unlock()
}

// FetchTokenMeta loads token metadata via ERC20 calls.
func FetchTokenMeta(ctx context.Context, chainClient *chain.Client, token common.Address, logger *zap.Logger) (TokenMeta, error) {
	meta := TokenMeta{Address: token.Hex()}
	if chainClient == nil {
		return meta, fmt.Errorf("chain client is nil")
	}

	stringABI, err := erc20ABIStringInstance()
	if err != nil {
		return meta, fmt.Errorf("parse erc20 string abi: %w", err)
	}
	bytes32ABI, err := erc20ABIBytes32Instance()
	if err != nil {
		return meta, fmt.Errorf("parse erc20 bytes32 abi: %w", err)
	}

	values, err := callMethod(ctx, chainClient, token, stringABI, "decimals", nil)
	if err != nil {
		return meta, err
	}
	decimals, err := asUint8(values[0])
	if err != nil {
		return meta, err
	}
	meta.Decimals = decimals

	if values, err := callMethod(ctx, chainClient, token, stringABI, "symbol", nil); err == nil {
		if symbol, ok := values[0].(string); ok {
			meta.Symbol = symbol
		}
	} else if values, err := callMethod(ctx, chainClient, token, bytes32ABI, "symbol", nil); err == nil {
		if symbol, ok := bytes32ToString(values[0]); ok {
			meta.Symbol = symbol
		}
	} else if logger != nil {
		logger.Debug("symbol call failed", zap.String("token", token.Hex()), zap.Error(err))
	}

	if values, err := callMethod(ctx, chainClient, token, stringABI, "name", nil); err == nil {
		if name, ok := values[0].(string); ok {
			meta.Name = name
		}
	} else if values, err := callMethod(ctx, chainClient, token, bytes32ABI, "name", nil); err == nil {
		if name, ok := bytes32ToString(values[0]); ok {
			meta.Name = name
		}
	} else if logger != nil {
		logger.Debug("name call failed", zap.String("token", token.Hex()), zap.Error(err))
	}

	return meta, nil
}

// FetchLPTokenBalance reads an LP token balance at a block height. The raw
// unscaled amount is returned as a string, ready to embed in an event payload.
func FetchLPTokenBalance(ctx context.Context, chainClient *chain.Client, pair, owner common.Address, blockNumber uint64) (string, error) {
	if chainClient == nil {
		return "", fmt.Errorf("chain client is nil")
	}
	parsed, err := PairABI()
	if err != nil {
		return "", fmt.Errorf("parse pair abi: %w", err)
	}

	var blockPtr *big.Int
	if blockNumber > 0 {
		blockPtr = new(big.Int).SetUint64(blockNumber)
	}

	values, err := callMethod(ctx, chainClient, pair, parsed, "balanceOf", blockPtr, owner)
	if err != nil {
		return "", err
	}
	balance, err := asBigInt(values[0])
	if err != nil {
		return "", fmt.Errorf("balanceOf: %w", err)
	}
	return balance.String(), nil
}

// FetchLockDuration reads a staking contract's default lock-in duration in
// seconds, using the cache when present.
func FetchLockDuration(ctx context.Context, chainClient *chain.Client, contract common.Address, cache *LockDurationCache) (uint64, error) {
	if cache != nil {
		if duration, ok := cache.Get(contract); ok {
			return duration, nil
		}
	}
	if chainClient == nil {
		return 0, fmt.Errorf("chain client is nil")
	}

	parsed, err := StakingABI()
	if err != nil {
		return 0, fmt.Errorf("parse staking abi: %w", err)
	}
	values, err := callMethod(ctx, chainClient, contract, parsed, "defaultLockInDuration", nil)
	if err != nil {
		return 0, err
	}
	duration, err := asBigInt(values[0])
	if err != nil {
		return 0, fmt.Errorf("defaultLockInDuration: %w", err)
	}

	if cache != nil {
		cache.Set(contract, duration.Uint64())
	}
	return duration.Uint64(), nil
}

func callMethod(ctx context.Context, chainClient *chain.Client, target common.Address, parsed abi.ABI, method string, block *big.Int, args ...interface{}) ([]interface{}, error) {
	data, err := parsed.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	msg := ethereum.CallMsg{To: &target, Data: data}
	resp, err := chainClient.CallContract(ctx, msg, block)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	values, err := parsed.Unpack(method, resp)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	return values, nil
}

func bytes32ToString(value interface{}) (string, bool) {
	switch v := value.(type) {
	case [32]byte:
		return string(bytes.TrimRight(v[:], "\x00")), true
	case []byte:
		return string(bytes.TrimRight(v, "\x00")), true
	default:
		return "", false
	}
}

func asAddress(value interface{}) (common.Address, error) {
	switch v := value.(type) {
	case common.Address:
		return v, nil
	case *common.Address:
		return *v, nil
	default:
		return common.Address{}, fmt.Errorf("unsupported address type %T", value)
	}
}

func asBigInt(value interface{}) (*big.Int, error) {
	switch v := value.(type) {
	case *big.Int:
		return new(big.Int).Set(v), nil
	case big.Int:
		return new(big.Int).Set(&v), nil
	case uint8:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	case int8:
		return big.NewInt(int64(v)), nil
	case int16:
		return big.NewInt(int64(v)), nil
	case int32:
		return big.NewInt(int64(v)), nil
	case int64:
		return big.NewInt(v), nil
	default:
		return nil, fmt.Errorf("unsupported int type %T", value)
	}
}

func asUint8(value interface{}) (uint8, error) {
	switch v := value.(type) {
	case uint8:
		return v, nil
	case uint16:
		return uint8(v), nil
	case uint32:
		return uint8(v), nil
	case uint64:
		return uint8(v), nil
	case *big.Int:
		return uint8(v.Uint64()), nil
	default:
		return 0, fmt.Errorf("unsupported uint8 type %T", value)
	}
}
