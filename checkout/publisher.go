package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Message is what the payment worker receives for each checkout request.
type Message struct {
	Reference   string          `json:"reference"`
	MpesaNumber string          `json:"mpesa_number"`
	Phone       string          `json:"phone"`
	Email       string          `json:"email"`
	Total       decimal.Decimal `json:"total"`
	Items       []MessageItem   `json:"items"`
	CreatedAt   time.Time       `json:"created_at"`
}

type MessageItem struct {
	ProductID uint            `json:"product_id"`
	Title     string          `json:"title"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

type Publisher interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}

// AMQPPublisher sends checkout messages to a durable queue on the default
// exchange.
type AMQPPublisher struct {
	mu    sync.Mutex
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
	log   *zap.Logger
}

func NewAMQPPublisher(url, queue string, log *zap.Logger) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open RabbitMQ channel: %w", err)
	}
	q, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare %s queue: %w", queue, err)
	}
	return &AMQPPublisher{conn: conn, ch: ch, queue: q.Name, log: log}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal checkout message: %w", err)
	}

	// amqp channels are not safe for concurrent publishing.
	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.ch.PublishWithContext(ctx,
		"",
		p.queue,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    msg.Reference,
			Timestamp:    msg.CreatedAt,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish checkout %s: %w", msg.Reference, err)
	}
	p.log.Info("checkout published", zap.String("reference", msg.Reference), zap.String("queue", p.queue))
	return nil
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.Close(); err != nil {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}

// LogPublisher is used when no broker is configured.
type LogPublisher struct {
	log *zap.Logger
}

func NewLogPublisher(log *zap.Logger) *LogPublisher {
	return &LogPublisher{log: log}
}

func (p *LogPublisher) Publish(_ context.Context, msg Message) error {
	p.log.Info("checkout request (no broker configured)",
		zap.String("reference", msg.Reference),
		zap.String("mpesa_number", msg.MpesaNumber),
		zap.String("total", msg.Total.StringFixed(2)),
		zap.Int("items", len(msg.Items)),
	)
	return nil
}

func (p *LogPublisher) Close() error { return nil }
