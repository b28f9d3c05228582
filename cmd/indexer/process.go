package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"stakeScope/internal/config"
	"stakeScope/internal/ledger"
	"stakeScope/internal/process"
	"stakeScope/internal/store"
	"stakeScope/internal/store/memory"
	"stakeScope/internal/store/postgres"
)

func runProcess(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadProcess(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.Input == "" {
		return fmt.Errorf("input path is required")
	}

	fromTime, err := config.ParseTimestamp(cfg.FromTime)
	if err != nil {
		return fmt.Errorf("parse from-time: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		entityStore store.Store
		stateStore  store.StateStore
		memStore    *memory.Store
	)
	if cfg.PGDSN != "" {
		pgStore, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer pgStore.Close()
		entityStore = pgStore
		stateStore = postgres.NewState(pgStore, "processor")
	} else {
		memStore = memory.NewStore()
		entityStore = memStore
		stateStore = memStore
	}
	if cfg.StateFile != "" {
		stateStore = &store.FileStateStore{Path: cfg.StateFile}
	}

	params := ledger.DefaultParams()
	led := ledger.New(entityStore, params, logger)

	processor := process.NewProcessor(process.Config{
		ETHUSDCPair: cfg.ETHUSDCPair,
		CROUSDCPair: cfg.CROUSDCPair,
		FromTime:    fromTime,
	}, params, led, stateStore, logger)

	logger.Info("process start",
		zap.String("input", cfg.Input),
		zap.String("pg_dsn", redactDSN(cfg.PGDSN)),
		zap.String("state_file", cfg.StateFile),
		zap.Uint64("from_time", fromTime),
	)

	if err := processor.Run(ctx, cfg.Input); err != nil {
		return err
	}

	if memStore != nil && cfg.Dump != "" {
		if err := memStore.Dump(cfg.Dump); err != nil {
			return fmt.Errorf("dump state: %w", err)
		}
		logger.Info("state dumped", zap.String("path", cfg.Dump))
	}

	return nil
}

func redactDSN(dsn string) string {
	if dsn == "" {
		return dsn
	}
	return "***"
}
