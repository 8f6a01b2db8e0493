package repository

import (
	"context"

	"blackinpay/internal/domain/model"
)

// BotConfigCache is a get-or-load cache for bot configuration, keyed by bot id.
// The webhook dispatcher resolves every inbound update through this so hot bots
// do not refetch their row per update. Injected so tests can supply a fake.
type BotConfigCache interface {
	// GetOrLoad returns the cached bot or invokes load, stores the result with
	// a TTL, and returns it.
	GetOrLoad(ctx context.Context, botID string, load func(ctx context.Context) (*model.Bot, error)) (*model.Bot, error)
	// Invalidate drops a bot from the cache after settings edits or activation.
	Invalidate(ctx context.Context, botID string) error
}
