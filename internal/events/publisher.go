package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Pu11en/peptide-website/internal/domain"
)

// Publisher emits order lifecycle events for downstream automation when
// brokers are configured. Like the webhook notification this is best
// effort: a lost event never fails the order flow.
type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(brokers ...string) *Publisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  "storefront-orders",
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &Publisher{writer: w}
}

type orderCreatedEvent struct {
	OrderID    string             `json:"order_id"`
	Email      string             `json:"email"`
	TotalCents int64              `json:"total_cents"`
	Status     string             `json:"status"`
	Items      []domain.OrderItem `json:"items"`
	CreatedAt  time.Time          `json:"created_at"`
}

// PublishOrderCreated fires in the background; a nil publisher is a no-op.
func (p *Publisher) PublishOrderCreated(order *domain.Order) {
	if p == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := p.publish(ctx, order); err != nil {
			log.Printf("failed to publish order.created for %v: %v", order.ID, err)
		}
	}()
}

func (p *Publisher) publish(ctx context.Context, order *domain.Order) error {
	payload, err := json.Marshal(orderCreatedEvent{
		OrderID:    order.ID.String(),
		Email:      order.Email,
		TotalCents: order.TotalCents,
		Status:     string(order.Status),
		Items:      order.Items,
		CreatedAt:  order.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(order.ID.String()), // order_id for ordering
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("order.created")},
		},
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}
