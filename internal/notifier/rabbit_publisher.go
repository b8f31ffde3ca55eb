package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/kelvinjchung/LittleLemon-api/configs"
)

type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// RabbitPublisher publishes every order event to a durable topic exchange,
// keyed by event type.
type RabbitPublisher struct {
	conn     *amqp.Connection
	ch       amqpChannel
	exchange string
	mu       sync.Mutex
}

func DialRabbit(cfg config.RabbitConfig) (*RabbitPublisher, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}
	if err := ch.ExchangeDeclare(cfg.Exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq declare %s: %w", cfg.Exchange, err)
	}
	return &RabbitPublisher{conn: conn, ch: ch, exchange: cfg.Exchange}, nil
}

func (p *RabbitPublisher) Notify(ctx context.Context, ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	// amqp channels are not safe for concurrent publishing.
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.ch.PublishWithContext(ctx, p.exchange, string(ev.Type), false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Timestamp:    ev.OccurredAt,
		MessageId:    fmt.Sprintf("%s-%d-%d", ev.Type, ev.OrderID, ev.OccurredAt.UnixNano()),
		Body:         body,
	})
}

func (p *RabbitPublisher) Close() {
	if closer, ok := p.ch.(*amqp.Channel); ok && closer != nil {
		_ = closer.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}
