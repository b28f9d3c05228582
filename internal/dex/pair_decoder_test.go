package dex

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"

	"stakeScope/internal/model"
)

func TestPairDecoderSync(t *testing.T) {
	pairABI, err := PairABI()
	if err != nil {
		t.Fatalf("abi parse: %v", err)
	}

	decoder, err := NewPairDecoder()
	if err != nil {
		t.Fatalf("decoder: %v", err)
	}

	reserve0, _ := new(big.Int).SetString("1000000000000", 10)
	reserve1, _ := new(big.Int).SetString("1000000000000000000", 10)
	data, err := pairABI.Events["Sync"].Inputs.NonIndexed().Pack(reserve0, reserve1)
	if err != nil {
		t.Fatalf("pack sync: %v", err)
	}

	pair := common.HexToAddress("0x1111111111111111111111111111111111111111")
	logRecord := buildLogRecord(pair, pairABI.Events["Sync"].ID, data, nil)

	event, err := decoder.Decode(logRecord, DecodeContext{Logger: zap.NewNop()})
	if err != nil {
		t.Fatalf("decode sync: %v", err)
	}

	sync, ok := event.Decoded.(model.SyncEventData)
	if !ok {
		t.Fatalf("decoded type mismatch")
	}
	if sync.Reserve0 != "1000000000000" || sync.Reserve1 != "1000000000000000000" {
		t.Fatalf("reserves mismatch: %+v", sync)
	}
	if event.EventName != "Sync" {
		t.Fatalf("event name mismatch: %s", event.EventName)
	}
}

func TestPairDecoderTransfer(t *testing.T) {
	pairABI, err := PairABI()
	if err != nil {
		t.Fatalf("abi parse: %v", err)
	}

	decoder, err := NewPairDecoder()
	if err != nil {
		t.Fatalf("decoder: %v", err)
	}

	pair := common.HexToAddress("0x1111111111111111111111111111111111111111")
	from := common.HexToAddress("0x2222222222222222222222222222222222222222")
	to := common.HexToAddress("0x3333333333333333333333333333333333333333")

	data, err := pairABI.Events["Transfer"].Inputs.NonIndexed().Pack(big.NewInt(42))
	if err != nil {
		t.Fatalf("pack transfer: %v", err)
	}

	logRecord := buildLogRecord(pair, pairABI.Events["Transfer"].ID, data, []common.Hash{
		topicFromAddress(from),
		topicFromAddress(to),
	})

	// No chain client: decode succeeds without balance enrichment.
	event, err := decoder.Decode(logRecord, DecodeContext{Logger: zap.NewNop()})
	if err != nil {
		t.Fatalf("decode transfer: %v", err)
	}

	transfer, ok := event.Decoded.(model.TransferEventData)
	if !ok {
		t.Fatalf("decoded type mismatch")
	}
	if transfer.From != "0x2222222222222222222222222222222222222222" {
		t.Fatalf("from mismatch: %s", transfer.From)
	}
	if transfer.To != "0x3333333333333333333333333333333333333333" {
		t.Fatalf("to mismatch: %s", transfer.To)
	}
	if transfer.Value != "42" {
		t.Fatalf("value mismatch: %s", transfer.Value)
	}
	if transfer.FromBalance != "" || transfer.ToBalance != "" {
		t.Fatalf("balances should be empty without a chain client: %+v", transfer)
	}
}

func TestPairDecoderRejectsForeignTopic(t *testing.T) {
	factoryABI, err := FactoryABI()
	if err != nil {
		t.Fatalf("abi parse: %v", err)
	}
	decoder, err := NewPairDecoder()
	if err != nil {
		t.Fatalf("decoder: %v", err)
	}
	if decoder.CanDecode(factoryABI.Events["PairCreated"].ID.Hex()) {
		t.Fatalf("pair decoder should not claim factory events")
	}
}

func TestFactoryDecoderPairCreated(t *testing.T) {
	factoryABI, err := FactoryABI()
	if err != nil {
		t.Fatalf("abi parse: %v", err)
	}

	decoder, err := NewFactoryDecoder()
	if err != nil {
		t.Fatalf("decoder: %v", err)
	}

	factory := common.HexToAddress("0x9999999999999999999999999999999999999999")
	token0 := common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	token1 := common.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	pair := common.HexToAddress("0xcccccccccccccccccccccccccccccccccccccccc")

	cache := NewTokenMetaCache()
	cache.Set(token0, TokenMeta{Address: token0.Hex(), Decimals: 8, Symbol: "CRO"})
	cache.Set(token1, TokenMeta{Address: token1.Hex(), Decimals: 18, Symbol: "WETH"})

	data, err := factoryABI.Events["PairCreated"].Inputs.NonIndexed().Pack(pair, big.NewInt(1))
	if err != nil {
		t.Fatalf("pack pair created: %v", err)
	}

	logRecord := buildLogRecord(factory, factoryABI.Events["PairCreated"].ID, data, []common.Hash{
		topicFromAddress(token0),
		topicFromAddress(token1),
	})

	event, err := decoder.Decode(logRecord, DecodeContext{
		TokenMetaCache: cache,
		Logger:         zap.NewNop(),
	})
	if err != nil {
		t.Fatalf("decode pair created: %v", err)
	}

	created, ok := event.Decoded.(model.PairCreatedEventData)
	if !ok {
		t.Fatalf("decoded type mismatch")
	}
	if created.Pair != "0xcccccccccccccccccccccccccccccccccccccccc" {
		t.Fatalf("pair mismatch: %s", created.Pair)
	}
	if created.Token0Decimals != 8 || created.Token1Decimals != 18 {
		t.Fatalf("decimals mismatch: %+v", created)
	}
}

func buildLogRecord(address common.Address, topic0 common.Hash, data []byte, indexed []common.Hash) model.LogRecord {
	topics := make([]string, 0, len(indexed)+1)
	topics = append(topics, topic0.Hex())
	for _, topic := range indexed {
		topics = append(topics, topic.Hex())
	}

	return model.LogRecord{
		ChainID:     1,
		BlockNumber: 10090000,
		BlockHash:   "0xabc",
		TxHash:      "0xDEF",
		LogIndex:    1,
		Address:     address.Hex(),
		Topics:      topics,
		Data:        hexutil.Encode(data),
		Timestamp:   1590000000,
	}
}

func topicFromAddress(addr common.Address) common.Hash {
	return common.BytesToHash(addr.Bytes())
}
