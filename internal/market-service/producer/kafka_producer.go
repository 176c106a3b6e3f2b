package producer

import (
	"context"
	"encoding/json"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/radieske/prediction-market-poc/internal/shared/kafka"
	"github.com/radieske/prediction-market-poc/pkg/contracts/events"
)

// KafkaPublisher publica eventos de domínio do market-service
// Um writer por tópico (bet_placed e event_created)
type KafkaPublisher struct {
	BetPlacedWriter    *kafkago.Writer
	EventCreatedWriter *kafkago.Writer
}

func NewKafkaPublisher(betPlaced, eventCreated *kafkago.Writer) *KafkaPublisher {
	return &KafkaPublisher{BetPlacedWriter: betPlaced, EventCreatedWriter: eventCreated}
}

func (p *KafkaPublisher) PublishBetPlaced(ctx context.Context, e events.BetPlaced) error {
	e.TsUnixMs = time.Now().UnixMilli()
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	// chave = request_id do mercado, pra manter ordem por evento na partição
	return kafka.WriteJSON(ctx, p.BetPlacedWriter, e.EventRequestID, b)
}

func (p *KafkaPublisher) PublishEventCreated(ctx context.Context, e events.EventCreated) error {
	e.TsUnixMs = time.Now().UnixMilli()
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return kafka.WriteJSON(ctx, p.EventCreatedWriter, e.RequestID, b)
}
