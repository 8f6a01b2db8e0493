package redis

import (
	"context"
	"encoding/json"
	"time"

	"blackinpay/internal/domain/model"
	"blackinpay/internal/domain/ports/repository"
	"blackinpay/internal/infra/metrics"
)

// Ensure implementation satisfies the port.
var _ repository.BotConfigCache = (*BotCache)(nil)

// BotCache caches bot configuration rows so the webhook dispatcher does not
// hit Postgres once per inbound update. Cached bots carry their decrypted
// token, so entries live in Redis only for a short TTL.
type BotCache struct {
	client RedisClient
	ttl    time.Duration
}

func NewBotCache(client RedisClient, ttl time.Duration) *BotCache {
	return &BotCache{client: client, ttl: ttl}
}

func botKey(botID string) string { return "bot_config:" + botID }

func (c *BotCache) GetOrLoad(ctx context.Context, botID string, load func(ctx context.Context) (*model.Bot, error)) (*model.Bot, error) {
	data, err := c.client.Get(ctx, botKey(botID))
	if err == nil {
		var bot model.Bot
		if err := json.Unmarshal([]byte(data), &bot); err == nil {
			metrics.IncBotCacheLookup("hit")
			return &bot, nil
		}
		// corrupted entry: fall through and reload
	} else if !IsNil(err) {
		metrics.IncBotCacheLookup("error")
		// Redis being down must not break webhook handling.
		return load(ctx)
	}

	metrics.IncBotCacheLookup("miss")
	bot, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(bot); err == nil {
		_ = c.client.Set(ctx, botKey(botID), raw, c.ttl)
	}
	return bot, nil
}

func (c *BotCache) Invalidate(ctx context.Context, botID string) error {
	return c.client.Del(ctx, botKey(botID))
}
