// Package queue contains the background consumer that listens to the
// catalog.events queue and writes one audit line per event to
// <dir>/catalog.log.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Consumer drains CatalogQueue into an append-only log file.
type Consumer struct {
	url string
	dir string
	log *zap.Logger
}

func NewConsumer(url, dir string, log *zap.Logger) *Consumer {
	return &Consumer{url: url, dir: dir, log: log.Named("catalog-consumer")}
}

// Run connects to RabbitMQ, declares the queue (durable) and consumes
// messages until ctx is cancelled.  Broker failures trigger a reconnect with
// exponential backoff capped at 30s; a message that cannot be handled is
// rejected without requeue so the loop keeps moving.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.url)
		if err != nil {
			c.log.Warn("failed to dial broker", zap.Error(err), zap.Duration("retry_in", backoff))
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		err = c.consumeLoop(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.log.Warn("consume loop ended; reconnecting", zap.Error(err))
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.log.Warn("set QoS failed", zap.Error(err))
	}
	if _, err := ch.QueueDeclare(CatalogQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(CatalogQueue, "", false, false, false, false, nil)
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
			if err := c.handleMessage(d.Body); err != nil {
				c.log.Error("handle message failed", zap.Error(err))
				_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (c *Consumer) handleMessage(body []byte) error {
	var ev CatalogEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.Type == "" {
		return errors.New("event without type")
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", c.dir, err)
	}
	f, err := os.OpenFile(filepath.Join(c.dir, "catalog.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(formatLine(ev)); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

func formatLine(ev CatalogEvent) string {
	line := fmt.Sprintf("[%s] %s | product_id=%d | user_id=%d", ev.OccurredAt, ev.Type, ev.ProductID, ev.UserID)
	if ev.ProductName != "" {
		line += fmt.Sprintf(" | product=%q", ev.ProductName)
	}
	if ev.Rating > 0 {
		line += fmt.Sprintf(" | rating=%d", ev.Rating)
	}
	return line + "\n"
}

// sleep waits for d or until ctx is done, reporting whether the full
// duration elapsed.
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
