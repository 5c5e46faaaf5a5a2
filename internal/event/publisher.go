package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

type Publisher interface {
	PublishSubmissionEvent(ctx context.Context, event *SubmissionEvent) error
	Close() error
}

type EventPublisher struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
	enabled  bool
	mu       sync.Mutex
}

// NewEventPublisher connects to RabbitMQ. An empty URI yields a disabled
// publisher that drops every event.
func NewEventPublisher(rabbitURI, exchange string) (*EventPublisher, error) {
	if rabbitURI == "" {
		log.Println("[Event] RabbitMQ URI is empty, event publishing is disabled")
		return &EventPublisher{exchange: exchange}, nil
	}

	conn, err := amqp091.Dial(rabbitURI)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	log.Printf("[Event] Publisher initialized with exchange: %s", exchange)

	return &EventPublisher{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		enabled:  true,
	}, nil
}

func (p *EventPublisher) PublishSubmissionEvent(ctx context.Context, event *SubmissionEvent) error {
	if !p.enabled {
		return nil
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	// amqp channels are not safe for concurrent publishing
	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.channel.PublishWithContext(ctx,
		p.exchange,         // exchange
		event.RoutingKey(), // routing key
		false,              // mandatory
		false,              // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			MessageId:    event.ID,
			Body:         body,
			Headers: amqp091.Table{
				"event_type":    string(event.Type),
				"quiz_type":     event.QuizType,
				"submission_id": event.SubmissionID,
			},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	log.Printf("[Event] Published %s for submission %s", event.RoutingKey(), event.SubmissionID)
	return nil
}

func (p *EventPublisher) Close() error {
	if !p.enabled {
		return nil
	}

	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			log.Printf("[Event] Error closing RabbitMQ channel: %v", err)
		}
	}
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			return fmt.Errorf("error closing RabbitMQ connection: %w", err)
		}
	}
	return nil
}

// MockPublisher records events in memory
type MockPublisher struct {
	mu     sync.Mutex
	Events []SubmissionEvent
}

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) PublishSubmissionEvent(ctx context.Context, event *SubmissionEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, *event)
	return nil
}

func (m *MockPublisher) Published() []SubmissionEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SubmissionEvent(nil), m.Events...)
}

func (m *MockPublisher) Close() error { return nil }
