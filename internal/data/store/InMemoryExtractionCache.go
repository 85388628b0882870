package store

import (
	"context"
	"sync"

	"github.com/akolanti/ConveyAPI/internal/domain/docModel"
)

// InMemoryExtractionCache backs the pipeline when Redis is offline. No
// eviction beyond process lifetime; entries are small (plain text) and the
// fallback is only meant for single-node dev runs.
type InMemoryExtractionCache struct {
	mu      sync.RWMutex
	entries map[string]docModel.ExtractedText
}

func InitInMemoryExtractionCache() *InMemoryExtractionCache {
	return &InMemoryExtractionCache{
		entries: make(map[string]docModel.ExtractedText),
	}
}

func (c *InMemoryExtractionCache) GetExtraction(ctx context.Context, contentHash string) (docModel.ExtractedText, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	extracted, found := c.entries[contentHash]
	return extracted, found
}

func (c *InMemoryExtractionCache) SaveExtraction(ctx context.Context, contentHash string, extracted docModel.ExtractedText) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[contentHash] = extracted
	return nil
}
