package process

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"stakeScope/internal/ledger"
	"stakeScope/internal/model"
	"stakeScope/internal/store"
)

// Config holds runtime settings for the processor.
type Config struct {
	// Reference pools feeding the Price singleton. Syncs from these
	// addresses update prices and nothing else; leave empty to run on
	// the default prices.
	ETHUSDCPair string
	CROUSDCPair string
	// FromTime drops events before this unix timestamp.
	FromTime uint64
}

// Processor replays typed events from a JSONL file into the ledger, in file
// order. Events are totally ordered by the ingest stage, so a single pass is
// deterministic.
type Processor struct {
	cfg    Config
	params ledger.Params
	ledger *ledger.Ledger
	state  store.StateStore
	logger *zap.Logger
}

// NewProcessor builds a Processor with its dependencies.
func NewProcessor(cfg Config, params ledger.Params, led *ledger.Ledger, state store.StateStore, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg.ETHUSDCPair = strings.ToLower(cfg.ETHUSDCPair)
	cfg.CROUSDCPair = strings.ToLower(cfg.CROUSDCPair)
	return &Processor{
		cfg:    cfg,
		params: params.Normalized(),
		ledger: led,
		state:  state,
		logger: logger,
	}
}

// Run replays every event in the input file.
func (p *Processor) Run(ctx context.Context, inputPath string) error {
	if p.ledger == nil {
		return fmt.Errorf("ledger is nil")
	}
	if inputPath == "" {
		return fmt.Errorf("input path is required")
	}

	resumeFrom := uint64(0)
	if p.state != nil {
		last, ok, err := p.state.Load()
		if err != nil {
			return err
		}
		if ok {
			resumeFrom = last
			p.logger.Info("resume from state", zap.Uint64("last_processed_ts", last))
		}
	}

	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	var total, applied, skipped, failed int
	// lastApplied tracks the newest fully processed timestamp. State is
	// written when the stream moves past a timestamp, so every event that
	// shares it is either fully applied or fully replayed after a crash.
	var lastApplied uint64

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		total++

		var record model.TypedEventRecord
		if err := json.Unmarshal(line, &record); err != nil {
			failed++
			p.logger.Warn("skip malformed event", zap.Error(err))
			continue
		}

		if record.Timestamp <= resumeFrom || record.Timestamp < p.cfg.FromTime {
			skipped++
			continue
		}

		if record.Timestamp > lastApplied {
			if lastApplied > 0 && p.state != nil {
				if err := p.state.Save(lastApplied); err != nil {
					return fmt.Errorf("save state: %w", err)
				}
			}
			lastApplied = record.Timestamp
		}

		if err := p.apply(record); err != nil {
			return fmt.Errorf("apply %s at block %d: %w", record.EventName, record.BlockNumber, err)
		}
		applied++
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan input: %w", err)
	}

	if lastApplied > 0 && p.state != nil {
		if err := p.state.Save(lastApplied); err != nil {
			return fmt.Errorf("save state: %w", err)
		}
	}

	p.logger.Info("process complete",
		zap.Int("total", total),
		zap.Int("applied", applied),
		zap.Int("skipped", skipped),
		zap.Int("failed", failed),
	)

	return nil
}

func (p *Processor) apply(record model.TypedEventRecord) error {
	address := strings.ToLower(record.Address)

	switch record.EventName {
	case "PairCreated":
		if address != p.params.FactoryAddress {
			p.logger.Warn("pair created from unexpected factory", zap.String("address", address))
			return nil
		}
		var data model.PairCreatedEventData
		if err := json.Unmarshal(record.Decoded, &data); err != nil {
			return fmt.Errorf("decode pair created: %w", err)
		}
		return p.ledger.HandlePairCreated(data)

	case "Sync":
		var data model.SyncEventData
		if err := json.Unmarshal(record.Decoded, &data); err != nil {
			return fmt.Errorf("decode sync: %w", err)
		}
		switch {
		case p.cfg.ETHUSDCPair != "" && address == p.cfg.ETHUSDCPair:
			return p.ledger.HandleETHPriceSync(data, record.Timestamp)
		case p.cfg.CROUSDCPair != "" && address == p.cfg.CROUSDCPair:
			return p.ledger.HandleCROPriceSync(data, record.Timestamp)
		default:
			return p.ledger.HandleSync(address, data, record.Timestamp)
		}

	case "Transfer":
		var data model.TransferEventData
		if err := json.Unmarshal(record.Decoded, &data); err != nil {
			return fmt.Errorf("decode transfer: %w", err)
		}
		return p.ledger.HandleTransfer(address, data)

	case "Staked":
		var data model.StakedEventData
		if err := json.Unmarshal(record.Decoded, &data); err != nil {
			return fmt.Errorf("decode staked: %w", err)
		}
		if data.TxFrom == "" {
			data.TxFrom = record.TxFrom
		}
		return p.ledger.HandleStaked(address, data, record.TxHash, record.Timestamp)

	default:
		p.logger.Debug("ignore event", zap.String("event", record.EventName), zap.String("address", address))
		return nil
	}
}
