package dex

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"stakeScope/internal/model"
)

// FactoryDecoder decodes V2 factory PairCreated events, enriching them with
// token decimals so the processor can scale reserves without chain access.
type FactoryDecoder struct {
	factoryABI  abi.ABI
	topicToName map[string]string
}

// NewFactoryDecoder builds a factory decoder.
func NewFactoryDecoder() (*FactoryDecoder, error) {
	parsed, err := FactoryABI()
	if err != nil {
		return nil, err
	}

	return &FactoryDecoder{
		factoryABI: parsed,
		topicToName: map[string]string{
			strings.ToLower(parsed.Events["PairCreated"].ID.Hex()): "PairCreated",
		},
	}, nil
}

// CanDecode checks if the topic0 is supported.
func (d *FactoryDecoder) CanDecode(topic0 string) bool {
	if topic0 == "" {
		return false
	}
	_, ok := d.topicToName[strings.ToLower(topic0)]
	return ok
}

// Decode converts a LogRecord into a TypedEvent.
func (d *FactoryDecoder) Decode(log model.LogRecord, ctx DecodeContext) (*model.TypedEvent, error) {
	if len(log.Topics) == 0 {
		return nil, fmt.Errorf("missing topics")
	}
	if _, ok := d.topicToName[strings.ToLower(log.Topics[0])]; !ok {
		return nil, fmt.Errorf("unsupported topic0: %s", log.Topics[0])
	}

	event := d.factoryABI.Events["PairCreated"]
	indexedTopics, err := parseIndexedTopics(event, log.Topics)
	if err != nil {
		return nil, err
	}

	var indexed struct {
		Token0 common.Address
		Token1 common.Address
	}
	if err := abi.ParseTopics(&indexed, indexedArguments(event.Inputs), indexedTopics); err != nil {
		return nil, fmt.Errorf("parse topics: %w", err)
	}

	values, err := unpackNonIndexed(event, log.Data)
	if err != nil {
		return nil, err
	}
	if len(values) != 2 {
		return nil, fmt.Errorf("unexpected pair created values: %d", len(values))
	}
	pair, err := asAddress(values[0])
	if err != nil {
		return nil, fmt.Errorf("pair: %w", err)
	}

	decoded := model.PairCreatedEventData{
		Token0: lowerHex(indexed.Token0),
		Token1: lowerHex(indexed.Token1),
		Pair:   lowerHex(pair),
	}

	token0Meta, err := d.tokenMeta(ctx, indexed.Token0)
	if err != nil {
		return nil, fmt.Errorf("token0 meta: %w", err)
	}
	token1Meta, err := d.tokenMeta(ctx, indexed.Token1)
	if err != nil {
		return nil, fmt.Errorf("token1 meta: %w", err)
	}
	decoded.Token0Decimals = int32(token0Meta.Decimals)
	decoded.Token1Decimals = int32(token1Meta.Decimals)

	return buildTypedEvent(log, "PairCreated", decoded, ""), nil
}

func (d *FactoryDecoder) tokenMeta(ctx DecodeContext, token common.Address) (TokenMeta, error) {
	if ctx.TokenMetaCache != nil {
		if meta, ok := ctx.TokenMetaCache.Get(token); ok {
			return meta, nil
		}
	}
	if ctx.Chain == nil {
		return TokenMeta{}, fmt.Errorf("chain client is nil")
	}

	logger := ctx.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	meta, err := FetchTokenMeta(ctx.callContext(), ctx.Chain, token, logger)
	if err != nil {
		return TokenMeta{}, err
	}
	if ctx.TokenMetaCache != nil {
		ctx.TokenMetaCache.Set(token, meta)
	}
	return meta, nil
}
