package store

import (
	"context"
	"encoding/json"

	"github.com/akolanti/ConveyAPI/internal/config"
	"github.com/akolanti/ConveyAPI/internal/data/redisStore"
	"github.com/akolanti/ConveyAPI/internal/domain/docModel"
	"github.com/akolanti/ConveyAPI/pkg/logger_i"
)

// RedisExtractionCache keys extraction results by the hex sha256 of the input
// bytes. Writes are plain idempotent upserts: extraction is pure, so losing a
// race or a whole entry just means recomputing.
type RedisExtractionCache struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisExtractionCache(ctx context.Context) *RedisExtractionCache {
	inner := redisStore.GetRedisStore(ctx, config.RedisExtractionCache)
	if inner == nil {
		return nil
	}
	return &RedisExtractionCache{
		store:  inner,
		logger: logger_i.NewLogger("ExtractionCache"),
	}
}

func (c *RedisExtractionCache) GetExtraction(ctx context.Context, contentHash string) (docModel.ExtractedText, bool) {
	var extracted docModel.ExtractedText
	val, err := c.store.Get(ctx, contentHash)
	if c.store.IsNil(err) {
		return extracted, false
	} else if err != nil {
		c.logger.Error("Cache read failed", "contentHash", contentHash, "error", err)
		return extracted, false
	}

	if err := json.Unmarshal([]byte(val), &extracted); err != nil {
		c.logger.Error("Cache entry corrupt, ignoring", "contentHash", contentHash, "error", err)
		return extracted, false
	}
	return extracted, true
}

func (c *RedisExtractionCache) SaveExtraction(ctx context.Context, contentHash string, extracted docModel.ExtractedText) error {
	data, err := json.Marshal(extracted)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, contentHash, data, config.RedisExtractionCacheTTL)
}

func TestExtractionCache(store *redisStore.Store) *RedisExtractionCache {
	return &RedisExtractionCache{
		store:  store,
		logger: logger_i.NewLogger("test cache"),
	}
}
