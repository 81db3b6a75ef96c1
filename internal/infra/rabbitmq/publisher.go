package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	logger   *zap.Logger
}

// Envelope wraps every event published on the exchange.
type Envelope struct {
	Pattern    string    `json:"pattern"`
	Data       any       `json:"data"`
	ID         string    `json:"id"`
	OccurredAt time.Time `json:"occurredAt"`
}

func NewEnvelope(pattern string, data any) Envelope {
	return Envelope{
		Pattern:    pattern,
		Data:       data,
		ID:         uuid.NewString(),
		OccurredAt: time.Now().UTC(),
	}
}

func NewPublisher(amqpURL, exchange string, logger *zap.Logger) (*Publisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &Publisher{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		logger:   logger,
	}, nil
}

func (p *Publisher) Publish(ctx context.Context, pattern string, data any) error {
	msg := NewEnvelope(pattern, data)

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	p.logger.Debug("publishing event",
		zap.String("pattern", pattern),
		zap.String("exchange", p.exchange),
		zap.String("message_id", msg.ID),
	)

	err = p.channel.Publish(
		p.exchange,
		pattern,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    msg.ID,
			Timestamp:    msg.OccurredAt,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

func (p *Publisher) Close() {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}
