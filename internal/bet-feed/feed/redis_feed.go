package feed

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/radieske/prediction-market-poc/pkg/contracts/events"
)

// LeaderboardKey é o ZSET com o total apostado por carteira
const LeaderboardKey = "leaderboard:tokens"

// Payload padrão para o WS do market-service
type WSUpdate struct {
	EventID string      `json:"eventId"`
	Payload interface{} `json:"payload"`
}

// RedisFeed aplica cada aposta consumida ao estado derivado no Redis:
// incrementa o ranking por carteira, invalida o cache de estatísticas do
// mercado e publica a aposta no canal Pub/Sub consumido pelo WS
type RedisFeed struct {
	R       *redis.Client
	Channel string
}

func New(r *redis.Client, channel string) *RedisFeed {
	return &RedisFeed{R: r, Channel: channel}
}

// StatsKey gera a chave de cache de estatísticas invalidada a cada aposta
// Mantida em sincronia com o market-service
func StatsKey(eventRequestID string) string { return "stats:event:" + eventRequestID }

func (f *RedisFeed) Apply(ctx context.Context, e events.BetPlaced) error {
	// Ranking por carteira
	if err := f.R.ZIncrBy(ctx, LeaderboardKey, e.Tokens, e.WalletAddress).Err(); err != nil {
		return err
	}

	// Invalida o cache de agregados do mercado; o ranking cacheado expira por TTL
	if err := f.R.Del(ctx, StatsKey(e.EventRequestID)).Err(); err != nil {
		return err
	}

	// Broadcast pro feed WebSocket
	b, err := json.Marshal(WSUpdate{EventID: e.EventRequestID, Payload: e})
	if err != nil {
		return err
	}
	return f.R.Publish(ctx, f.Channel, b).Err()
}
