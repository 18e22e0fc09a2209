package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"

	"service-dispatch/internal/domain"
)

// statusMessage is the wire form of a domain.StatusEvent.
type statusMessage struct {
	EventID    string    `json:"event_id"`
	OrderID    int64     `json:"order_id"`
	CourierID  *int64    `json:"courier_id,omitempty"`
	Status     string    `json:"status"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// KafkaPublisher writes status events to a Kafka topic keyed by order id.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	newID    func() string
}

// NewKafkaPublisher creates a new KafkaPublisher.
func NewKafkaPublisher(producer sarama.SyncProducer, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		producer: producer,
		topic:    topic,
		newID:    func() string { return uuid.NewString() },
	}
}

// NewSyncProducer builds a producer that waits for all in-sync replicas.
func NewSyncProducer(brokers []string) (sarama.SyncProducer, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Return.Successes = true
	cfg.Producer.Retry.Max = 0
	cfg.Producer.Idempotent = false
	return sarama.NewSyncProducer(brokers, cfg)
}

// Publish sends one event.
func (p *KafkaPublisher) Publish(ctx context.Context, ev domain.StatusEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := json.Marshal(statusMessage{
		EventID:    p.newID(),
		OrderID:    ev.OrderID,
		CourierID:  ev.CourierID,
		Status:     string(ev.Status),
		Reason:     ev.Reason,
		OccurredAt: ev.OccurredAt,
	})
	if err != nil {
		return fmt.Errorf("marshal status event: %w", err)
	}

	_, _, err = p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(strconv.FormatInt(ev.OrderID, 10)),
		Value: sarama.ByteEncoder(body),
	})
	if err != nil {
		return fmt.Errorf("publish status event for order %d: %w", ev.OrderID, err)
	}
	return nil
}

// Close closes the underlying producer.
func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
