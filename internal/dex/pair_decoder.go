package dex

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"stakeScope/internal/model"
)

// PairDecoder decodes V2 pair events: reserve syncs and LP token transfers.
type PairDecoder struct {
	pairABI     abi.ABI
	topicToName map[string]string
}

// NewPairDecoder builds a pair decoder.
func NewPairDecoder() (*PairDecoder, error) {
	parsed, err := PairABI()
	if err != nil {
		return nil, err
	}

	topicToName := map[string]string{
		strings.ToLower(parsed.Events["Sync"].ID.Hex()):     "Sync",
		strings.ToLower(parsed.Events["Transfer"].ID.Hex()): "Transfer",
	}

	return &PairDecoder{
		pairABI:     parsed,
		topicToName: topicToName,
	}, nil
}

// CanDecode checks if the topic0 is supported.
func (d *PairDecoder) CanDecode(topic0 string) bool {
	if topic0 == "" {
		return false
	}
	_, ok := d.topicToName[strings.ToLower(topic0)]
	return ok
}

// Decode converts a LogRecord into a TypedEvent.
func (d *PairDecoder) Decode(log model.LogRecord, ctx DecodeContext) (*model.TypedEvent, error) {
	if len(log.Topics) == 0 {
		return nil, fmt.Errorf("missing topics")
	}
	name, ok := d.topicToName[strings.ToLower(log.Topics[0])]
	if !ok {
		return nil, fmt.Errorf("unsupported topic0: %s", log.Topics[0])
	}

	if !common.IsHexAddress(log.Address) {
		return nil, fmt.Errorf("invalid pair address: %s", log.Address)
	}

	switch name {
	case "Sync":
		decoded, err := d.decodeSync(log)
		if err != nil {
			return nil, err
		}
		return buildTypedEvent(log, name, decoded, ""), nil
	case "Transfer":
		decoded, err := d.decodeTransfer(log, ctx)
		if err != nil {
			return nil, err
		}
		return buildTypedEvent(log, name, decoded, ""), nil
	default:
		return nil, fmt.Errorf("unsupported event name: %s", name)
	}
}

func (d *PairDecoder) decodeSync(log model.LogRecord) (model.SyncEventData, error) {
	event := d.pairABI.Events["Sync"]
	if _, err := parseIndexedTopics(event, log.Topics); err != nil {
		return model.SyncEventData{}, err
	}

	values, err := unpackNonIndexed(event, log.Data)
	if err != nil {
		return model.SyncEventData{}, err
	}
	if len(values) != 2 {
		return model.SyncEventData{}, fmt.Errorf("unexpected sync values: %d", len(values))
	}

	reserve0, err := asBigInt(values[0])
	if err != nil {
		return model.SyncEventData{}, err
	}
	reserve1, err := asBigInt(values[1])
	if err != nil {
		return model.SyncEventData{}, err
	}

	return model.SyncEventData{
		Reserve0: reserve0.String(),
		Reserve1: reserve1.String(),
	}, nil
}

func (d *PairDecoder) decodeTransfer(log model.LogRecord, ctx DecodeContext) (model.TransferEventData, error) {
	event := d.pairABI.Events["Transfer"]
	indexedTopics, err := parseIndexedTopics(event, log.Topics)
	if err != nil {
		return model.TransferEventData{}, err
	}

	var indexed struct {
		From common.Address
		To   common.Address
	}
	if err := abi.ParseTopics(&indexed, indexedArguments(event.Inputs), indexedTopics); err != nil {
		return model.TransferEventData{}, fmt.Errorf("parse topics: %w", err)
	}

	values, err := unpackNonIndexed(event, log.Data)
	if err != nil {
		return model.TransferEventData{}, err
	}
	if len(values) != 1 {
		return model.TransferEventData{}, fmt.Errorf("unexpected transfer values: %d", len(values))
	}
	value, err := asBigInt(values[0])
	if err != nil {
		return model.TransferEventData{}, err
	}

	data := model.TransferEventData{
		From:  lowerHex(indexed.From),
		To:    lowerHex(indexed.To),
		Value: value.String(),
	}

	// Post-transfer LP balances are needed by the processor but are not
	// part of the log; read them here while the chain is at hand. The zero
	// address and the pair itself never hold a tracked position.
	pair := common.HexToAddress(log.Address)
	if ctx.Chain != nil {
		if indexed.From != (common.Address{}) && indexed.From != pair {
			balance, err := FetchLPTokenBalance(ctx.callContext(), ctx.Chain, pair, indexed.From, log.BlockNumber)
			if err != nil {
				return model.TransferEventData{}, fmt.Errorf("from balance: %w", err)
			}
			data.FromBalance = balance
		}
		if indexed.To != (common.Address{}) && indexed.To != pair {
			balance, err := FetchLPTokenBalance(ctx.callContext(), ctx.Chain, pair, indexed.To, log.BlockNumber)
			if err != nil {
				return model.TransferEventData{}, fmt.Errorf("to balance: %w", err)
			}
			data.ToBalance = balance
		}
	}

	return data, nil
}

func buildTypedEvent(log model.LogRecord, name string, decoded interface{}, txFrom string) *model.TypedEvent {
	raw := &model.RawLogRef{Topic0: log.Topics[0], Data: log.Data}
	return &model.TypedEvent{
		ChainID:     log.ChainID,
		BlockNumber: log.BlockNumber,
		BlockHash:   log.BlockHash,
		TxHash:      strings.ToLower(log.TxHash),
		TxFrom:      txFrom,
		LogIndex:    log.LogIndex,
		Address:     strings.ToLower(log.Address),
		EventName:   name,
		Timestamp:   log.Timestamp,
		Decoded:     decoded,
		Raw:         raw,
	}
}

func lowerHex(address common.Address) string {
	return strings.ToLower(address.Hex())
}

func parseIndexedTopics(event abi.Event, topics []string) ([]common.Hash, error) {
	indexedCount := len(indexedArguments(event.Inputs))
	if len(topics) != indexedCount+1 {
		return nil, fmt.Errorf("expected %d topics, got %d", indexedCount+1, len(topics))
	}
	return parseTopicHashes(topics[1:])
}

func parseTopicHashes(topics []string) ([]common.Hash, error) {
	out := make([]common.Hash, 0, len(topics))
	for _, topic := range topics {
		data, err := hexutil.Decode(topic)
		if err != nil {
			return nil, fmt.Errorf("invalid topic: %w", err)
		}
		if len(data) > 32 {
			return nil, fmt.Errorf("topic length %d", len(data))
		}
		out = append(out, common.BytesToHash(data))
	}
	return out, nil
}

func indexedArguments(args abi.Arguments) abi.Arguments {
	indexed := make(abi.Arguments, 0, len(args))
	for _, arg := range args {
		if arg.Indexed {
			indexed = append(indexed, arg)
		}
	}
	return indexed
}

func unpackNonIndexed(event abi.Event, dataHex string) ([]interface{}, error) {
	data, err := hexutil.Decode(dataHex)
	if err != nil {
		return nil, fmt.Errorf("invalid data: %w", err)
	}
	values, err := event.Inputs.NonIndexed().Unpack(data)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", event.Name, err)
	}
	return values, nil
}
