package dex

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"stakeScope/internal/model"
)

// StakingDecoder decodes ERC900 Staked events. Each event is enriched with
// the contract's lock-in duration and the transaction sender, both of which
// the processor needs and neither of which is in the log itself.
type StakingDecoder struct {
	stakingABI  abi.ABI
	topicToName map[string]string
}

// NewStakingDecoder builds a staking decoder.
func NewStakingDecoder() (*StakingDecoder, error) {
	parsed, err := StakingABI()
	if err != nil {
		return nil, err
	}

	return &StakingDecoder{
		stakingABI: parsed,
		topicToName: map[string]string{
			strings.ToLower(parsed.Events["Staked"].ID.Hex()): "Staked",
		},
	}, nil
}

// CanDecode checks if the topic0 is supported.
func (d *StakingDecoder) CanDecode(topic0 string) bool {
	if topic0 == "" {
		return false
	}
	_, ok := d.topicToName[strings.ToLower(topic0)]
	return ok
}

// Decode converts a LogRecord into a TypedEvent.
func (d *StakingDecoder) Decode(log model.LogRecord, ctx DecodeContext) (*model.TypedEvent, error) {
	if len(log.Topics) == 0 {
		return nil, fmt.Errorf("missing topics")
	}
	if _, ok := d.topicToName[strings.ToLower(log.Topics[0])]; !ok {
		return nil, fmt.Errorf("unsupported topic0: %s", log.Topics[0])
	}
	if !common.IsHexAddress(log.Address) {
		return nil, fmt.Errorf("invalid staking address: %s", log.Address)
	}

	event := d.stakingABI.Events["Staked"]
	indexedTopics, err := parseIndexedTopics(event, log.Topics)
	if err != nil {
		return nil, err
	}

	var indexed struct {
		User common.Address
	}
	if err := abi.ParseTopics(&indexed, indexedArguments(event.Inputs), indexedTopics); err != nil {
		return nil, fmt.Errorf("parse topics: %w", err)
	}

	values, err := unpackNonIndexed(event, log.Data)
	if err != nil {
		return nil, err
	}
	if len(values) != 3 {
		return nil, fmt.Errorf("unexpected staked values: %d", len(values))
	}
	amount, err := asBigInt(values[0])
	if err != nil {
		return nil, fmt.Errorf("amount: %w", err)
	}
	total, err := asBigInt(values[1])
	if err != nil {
		return nil, fmt.Errorf("total: %w", err)
	}

	decoded := model.StakedEventData{
		User:   lowerHex(indexed.User),
		Amount: amount.String(),
		Total:  total.String(),
	}
	if payload, ok := values[2].([]byte); ok && len(payload) > 0 {
		decoded.Data = hexutil.Encode(payload)
	}

	if ctx.Chain == nil {
		return nil, fmt.Errorf("chain client is nil")
	}

	contract := common.HexToAddress(log.Address)
	duration, err := FetchLockDuration(ctx.callContext(), ctx.Chain, contract, ctx.LockDurations)
	if err != nil {
		return nil, fmt.Errorf("lock duration: %w", err)
	}
	decoded.LockDuration = duration

	sender, err := ctx.Chain.TransactionSender(ctx.callContext(), common.HexToHash(log.TxHash), common.HexToHash(log.BlockHash), uint(log.TxIndex))
	if err != nil {
		return nil, fmt.Errorf("transaction sender: %w", err)
	}
	decoded.TxFrom = lowerHex(sender)

	return buildTypedEvent(log, "Staked", decoded, decoded.TxFrom), nil
}
