// Package events publishes order lifecycle events to Kafka so shop dashboards
// and downstream tooling can react to new orders.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/nofari1993-ISR/floriisrael-sub000/internal/domain"
)

const Topic = "orders"

// messageWriter is the slice of kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// OrderCreatedEvent is the payload published when a customer places an order.
type OrderCreatedEvent struct {
	OrderID    string             `json:"order_id"`
	ShopID     string             `json:"shop_id"`
	Status     string             `json:"status"`
	TotalPrice float64            `json:"total_price"`
	Items      []domain.OrderItem `json:"items"`
	CreatedAt  time.Time          `json:"created_at"`
}

type Publisher struct {
	writer messageWriter
}

func NewPublisher(brokers ...string) *Publisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  Topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &Publisher{writer: w}
}

// PublishOrderCreated emits an order.created event keyed by shop so per-shop
// ordering is preserved.
func (p *Publisher) PublishOrderCreated(ctx context.Context, order *domain.Order) error {
	event := OrderCreatedEvent{
		OrderID:    order.ID.String(),
		ShopID:     order.ShopID.String(),
		Status:     string(order.Status),
		TotalPrice: order.TotalPrice,
		Items:      order.Items,
		CreatedAt:  order.CreatedAt,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(order.ShopID.String()),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("order.created")},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish order event: %w", err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
