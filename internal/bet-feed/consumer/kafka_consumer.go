package consumer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	sharedkafka "github.com/radieske/prediction-market-poc/internal/shared/kafka"
	"github.com/radieske/prediction-market-poc/pkg/contracts/events"
)

// Feed aplica uma aposta consumida ao estado derivado (ranking, cache, broadcast)
type Feed interface {
	Apply(ctx context.Context, e events.BetPlaced) error
}

// Processor consome mensagens bet_placed do Kafka e alimenta o Feed
// Callbacks de métricas podem ser usadas para monitoramento de cada etapa
type Processor struct {
	Log    *zap.Logger
	Reader *kafka.Reader
	Feed   Feed
	DLQ    *kafka.Writer // opcional; recebe mensagens indecodificáveis

	OnConsumed func()       // métricas (counter++)
	OnApplied  func()       // métricas
	OnError    func(string) // métricas por fase
}

// Run inicia o loop principal de consumo e processamento das mensagens Kafka
func (p *Processor) Run(ctx context.Context) error {
	for {
		_, value, err := sharedkafka.ReadNext(ctx, p.Reader)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err() // encerra se o contexto for cancelado
			}
			p.Log.Warn("kafka read failed", zap.Error(err))
			if p.OnError != nil {
				p.OnError("read")
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}

		if p.OnConsumed != nil {
			p.OnConsumed() // callback de métrica: mensagem consumida
		}

		p.processOne(ctx, value)
	}
}

// processOne decodifica e aplica uma mensagem; indecodificável vai pra DLQ
func (p *Processor) processOne(ctx context.Context, value []byte) {
	var e events.BetPlaced
	if err := json.Unmarshal(value, &e); err != nil {
		p.Log.Warn("invalid message", zap.Error(err))
		if p.OnError != nil {
			p.OnError("decode")
		}
		if p.DLQ != nil {
			_ = sharedkafka.WriteJSON(ctx, p.DLQ, "decode-error", value)
		}
		return
	}

	if err := p.Feed.Apply(ctx, e); err != nil {
		p.Log.Warn("feed apply failed", zap.Int64("betId", e.BetID), zap.Error(err))
		if p.OnError != nil {
			p.OnError("apply")
		}
		return
	}

	if p.OnApplied != nil {
		p.OnApplied() // callback de métrica: aposta aplicada
	}
}
