package dex

import (
	"context"

	"go.uber.org/zap"

	"stakeScope/internal/chain"
	"stakeScope/internal/model"
)

// Decoder defines a log decoder.
type Decoder interface {
	CanDecode(topic0 string) bool
	Decode(log model.LogRecord, ctx DecodeContext) (*model.TypedEvent, error)
}

// DecodeContext provides shared dependencies for decoders.
type DecodeContext struct {
	Context        context.Context
	Chain          *chain.Client
	TokenMetaCache *TokenMetaCache
	LockDurations  *LockDurationCache
	Logger         *zap.Logger
}

func (ctx DecodeContext) callContext() context.Context {
	if ctx.Context != nil {
		return ctx.Context
	}
	return context.Background()
}
