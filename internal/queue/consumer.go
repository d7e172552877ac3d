// Package queue contains the consumer that listens to the contact queue and
// appends one line per submission to a log file.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/contact-desk/internal/logging"
)

// ConsumerConfig tells StartContactConsumer where to read and write.
type ConsumerConfig struct {
	URL     string // broker URL
	Queue   string // durable queue name
	LogFile string // destination, e.g. logs/contact.log
}

// StartContactConsumer connects to RabbitMQ, declares the queue (durable)
// and consumes messages until ctx is cancelled.  Lost connections are
// retried with exponential backoff capped at 30s.  A message that cannot be
// handled is rejected without requeue so it cannot spin.
func StartContactConsumer(ctx context.Context, cfg ConsumerConfig, log *slog.Logger) error {
	backoff := time.Second
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		conn, err := amqp.Dial(cfg.URL)
		if err != nil {
			log.Warn("contact-consumer: dial failed", logging.Err(err), slog.Duration("retry_in", backoff))
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = consumeLoop(ctx, conn, cfg, log)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warn("contact-consumer: consume loop ended; reconnecting", logging.Err(err))
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func consumeLoop(ctx context.Context, conn *amqp.Connection, cfg ConsumerConfig, log *slog.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Warn("contact-consumer: set QoS failed", logging.Err(err))
	}
	if _, err := ch.QueueDeclare(cfg.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(cfg.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := HandleMessage(d.Body, cfg.LogFile); err != nil {
				log.Error("contact-consumer: handle message failed", logging.Err(err))
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// HandleMessage decodes one event and appends it to logFile.
func HandleMessage(body []byte, logFile string) error {
	var ev ContactSubmittedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(logFile), 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(FormatLine(ev)); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

// FormatLine renders ev as a single log line.  Newlines in the body are
// flattened so one submission is always one line.
func FormatLine(ev ContactSubmittedEvent) string {
	body := strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(ev.Body)
	return fmt.Sprintf("[%s] Contact message | message_id=%d | name=%q | email=%q | body=%q\n",
		ev.SubmittedAt, ev.MessageID, ev.Name, ev.Email, body)
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
