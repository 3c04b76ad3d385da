package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pageza/mesobmatch/backend/internal/matching"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const matchCachePrefix = "match"

// cachedMatch is the part of a match answer that depends only on the
// catalog snapshot. Recipe details are always read fresh.
type cachedMatch struct {
	RecipeID int64    `json:"recipe_id"`
	Scored   bool     `json:"scored,omitempty"`
	Score    float64  `json:"score,omitempty"`
	CanMake  bool     `json:"can_make,omitempty"`
	Missing  []string `json:"missing,omitempty"`
}

// MatchCache stores find-by-ingredients answers in Redis. Keys embed the
// snapshot fingerprint, so a catalog change never serves stale entries
// and old keys simply expire. A nil client disables the cache.
type MatchCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewMatchCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *MatchCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MatchCache{client: client, ttl: ttl, logger: logger}
}

func (c *MatchCache) Enabled() bool {
	return c != nil && c.client != nil && c.ttl > 0
}

// Key derives the cache key for a request. ids must be sorted.
func (c *MatchCache) Key(fingerprint string, mode matching.Mode, ids []matching.IngredientID, scored bool) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(int64(id), 10)
	}
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|%t|%s", mode, scored, strings.Join(parts, ","))))
	return fmt.Sprintf("%s:%s:%s", matchCachePrefix, fingerprint, hex.EncodeToString(sum[:12]))
}

// Get returns the cached answer. Redis failures are logged and reported
// as a miss.
func (c *MatchCache) Get(ctx context.Context, key string) ([]cachedMatch, bool) {
	if !c.Enabled() {
		return nil, false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.logger.Warn("match cache read failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	var entries []cachedMatch
	if err := json.Unmarshal(data, &entries); err != nil {
		c.logger.Warn("discarding corrupt match cache entry", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return entries, true
}

func (c *MatchCache) Set(ctx context.Context, key string, entries []cachedMatch) {
	if !c.Enabled() {
		return
	}
	data, err := json.Marshal(entries)
	if err != nil {
		c.logger.Warn("failed to encode match cache entry", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("match cache write failed", zap.String("key", key), zap.Error(err))
	}
}
