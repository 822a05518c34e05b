package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

// OrderEvent is the record published for every committed status transition.
// Notification dispatchers (SMS/WhatsApp/email senders) consume these.
type OrderEvent struct {
	OrderRef   string    `json:"order_ref"`
	Actor      string    `json:"actor"`
	FromState  string    `json:"from_state"`
	ToState    string    `json:"to_state"`
	Note       string    `json:"note,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher emits order events. Publishing is best-effort: failures must
// never block or fail a reconciler transition.
type Publisher interface {
	Publish(ctx context.Context, event OrderEvent)
	Close()
}

// KafkaPublisher implements Publisher on top of a Kafka topic.
type KafkaPublisher struct {
	client *kgo.Client
	topic  string
	logger *slog.Logger
}

// NewKafkaPublisher connects a franz-go producer to the given brokers.
func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) (*KafkaPublisher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
	)
	if err != nil {
		return nil, err
	}
	return &KafkaPublisher{client: client, topic: topic, logger: logger}, nil
}

// Publish produces the event asynchronously, keyed by order reference so a
// single order's events stay ordered within a partition.
func (p *KafkaPublisher) Publish(ctx context.Context, event OrderEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("marshal order event failed", slog.String("order", event.OrderRef), slog.String("error", err.Error()))
		return
	}

	record := &kgo.Record{Key: []byte(event.OrderRef), Value: payload}
	p.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil {
			p.logger.Error("publish order event failed", slog.String("order", event.OrderRef), slog.String("error", err.Error()))
		}
	})
}

// Close flushes and releases the producer.
func (p *KafkaPublisher) Close() {
	p.client.Close()
}

// NopPublisher discards events; used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, OrderEvent) {}
func (NopPublisher) Close()                              {}
