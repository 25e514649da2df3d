package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"ticket-booking/pkg/utils"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// amqpPublisher publishes persistent JSON messages to a durable queue on
// the default exchange. The channel is guarded by a mutex because amqp
// channels are not safe for concurrent publishing.
type amqpPublisher struct {
	mu    sync.Mutex
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
	log   *zap.Logger
}

// InitPublisher connects to the broker named in the config. With no URL
// configured, or when the broker is unreachable, events are disabled and
// a NoopPublisher is returned.
func InitPublisher(config utils.EventsConfig, log *zap.Logger) Publisher {
	if config.URL == "" {
		log.Info("events disabled: no broker URL configured")
		return NoopPublisher{}
	}

	publisher, err := NewAMQPPublisher(config, log)
	if err != nil {
		log.Warn("events disabled: broker unreachable", zap.Error(err))
		return NoopPublisher{}
	}

	log.Info("event publisher connected", zap.String("queue", config.Queue))
	return publisher
}

func NewAMQPPublisher(config utils.EventsConfig, log *zap.Logger) (Publisher, error) {
	conn, err := amqp.Dial(config.URL)
	if err != nil {
		return nil, fmt.Errorf("dial amqp broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open amqp channel: %w", err)
	}

	// Durable so messages survive broker restarts
	if _, err := ch.QueueDeclare(config.Queue, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare queue %s: %w", config.Queue, err)
	}

	return &amqpPublisher{
		conn:  conn,
		ch:    ch,
		queue: config.Queue,
		log:   log.With(zap.String("component", "events")),
	}, nil
}

func (p *amqpPublisher) Publish(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", event.Type, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err = p.ch.PublishWithContext(ctx,
		"",      // default exchange
		p.queue, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    event.OccurredAt,
			Body:         body,
		},
	)
	if err != nil {
		p.log.Error("Failed to publish event",
			zap.String("type", event.Type),
			zap.String("reservation_id", event.ReservationID),
			zap.Error(err))
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}

	return nil
}

func (p *amqpPublisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil {
		p.ch.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}
