package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPPublisher publishes changes to a durable RabbitMQ queue.
type AMQPPublisher struct {
	conn  *amqp.Connection
	queue string
}

func NewAMQPPublisher(url, queue string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp queue declare: %w", err)
	}

	return &AMQPPublisher{conn: conn, queue: queue}, nil
}

func (p *AMQPPublisher) Notify(ctx context.Context, change Change) error {
	body, err := json.Marshal(change)
	if err != nil {
		return err
	}

	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("amqp channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	return ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
}

func (p *AMQPPublisher) Close() error {
	return p.conn.Close()
}
