package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
)

// BookingEvent is published on every booking state change and consumed by
// the notification worker.
type BookingEvent struct {
	Type          string    `json:"type"`
	Token         string    `json:"token"`
	CourtID       int64     `json:"court_id"`
	UserID        string    `json:"user_id"`
	Date          string    `json:"date"`
	StartMinute   int       `json:"start_minute"`
	EndMinute     int       `json:"end_minute"`
	Status        string    `json:"status"`
	PriceCents    int64     `json:"price_cents"`
	DiscountCents int64     `json:"discount_cents"`
	FeeCents      int64     `json:"fee_cents,omitempty"`
	Refund        bool      `json:"refund,omitempty"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// PaymentEvent arrives from the payment collaborator, at-least-once.
// Appliers must be idempotent.
type PaymentEvent struct {
	Type         string `json:"type"` // payment_succeeded | payment_failed
	BookingToken string `json:"booking_token"`
	AmountCents  int64  `json:"amount_cents"`
}

type Producer struct {
	brokers []string
	writer  *kafka.Writer
}

func NewProducer(brokers []string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}

	return &Producer{
		brokers: brokers,
		writer:  writer,
	}
}

func (p *Producer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	message := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("failed to write message to Kafka: %w", err)
	}
	return nil
}

func (p *Producer) PublishWithRetry(ctx context.Context, topic, key string, payload interface{}, maxRetries int) error {
	var lastErr error

	for i := 0; i < maxRetries; i++ {
		err := p.Publish(ctx, topic, key, payload)
		if err == nil {
			return nil
		}

		lastErr = err
		log.Printf("publish attempt %d failed: %v", i+1, err)

		if i < maxRetries-1 {
			time.Sleep(time.Duration(i+1) * 500 * time.Millisecond)
		}
	}

	return fmt.Errorf("failed after %d retries: %w", maxRetries, lastErr)
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
