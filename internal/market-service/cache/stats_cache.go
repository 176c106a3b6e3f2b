package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// StatsCache encapsula o cache Redis dos endpoints de agregados
// Os valores são JSON com TTL curto; o bet-feed-worker invalida as
// chaves de estatísticas por evento a cada aposta nova
type StatsCache struct {
	R   *redis.Client
	TTL time.Duration
}

func New(r *redis.Client, ttl time.Duration) *StatsCache {
	return &StatsCache{R: r, TTL: ttl}
}

// KeyEventStats gera a chave de estatísticas de um mercado
func KeyEventStats(requestID string) string { return "stats:event:" + requestID }

// KeyTopBetters gera a chave do ranking para um dado limit
func KeyTopBetters(limit int) string { return "stats:top-betters:" + strconv.Itoa(limit) }

func (c *StatsCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	b, err := c.R.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(b, dst)
}

func (c *StatsCache) Set(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.R.Set(ctx, key, b, c.TTL).Err()
}
