// Package service provides functions to publish domain events to RabbitMQ.
// Errors are logged and returned so callers can ignore failures without
// interrupting the main request flow.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/contact-desk/internal/logging"
	q "github.com/iliyamo/contact-desk/internal/queue"
)

// ErrPublisherDisabled is returned by a Publisher without a broker URL.
var ErrPublisherDisabled = errors.New("publisher disabled")

// Publisher sends events to a single durable queue.  Each publish opens and
// closes its own connection.
type Publisher struct {
	url         string
	queue       string
	dialTimeout time.Duration
	log         *slog.Logger
}

// DefaultDialTimeout bounds the connect and handshake of each publish.  It
// is added to a contact submission's latency when the broker is down.
const DefaultDialTimeout = 500 * time.Millisecond

// NewPublisher returns a publisher for queue.  A non-positive dialTimeout
// means DefaultDialTimeout.
func NewPublisher(url, queue string, dialTimeout time.Duration, log *slog.Logger) *Publisher {
	if dialTimeout <= 0 {
		dialTimeout = DefaultDialTimeout
	}
	return &Publisher{url: url, queue: queue, dialTimeout: dialTimeout, log: log}
}

// PublishContactSubmitted publishes event as persistent JSON.
func (p *Publisher) PublishContactSubmitted(ctx context.Context, event q.ContactSubmittedEvent) error {
	if p == nil || p.url == "" {
		return ErrPublisherDisabled
	}
	log := p.log.With(slog.String("queue", p.queue))

	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(p.dialTimeout),
	})
	if err != nil {
		log.Warn("rabbitmq: dial failed", logging.Err(err))
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Warn("rabbitmq: channel open failed", logging.Err(err))
		return err
	}
	defer func() { _ = ch.Close() }()

	// Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		log.Warn("rabbitmq: queue declare failed", logging.Err(err))
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, pub); err != nil {
		log.Warn("rabbitmq: publish failed", logging.Err(err))
		return err
	}
	return nil
}
