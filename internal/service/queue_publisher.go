// Package queue_publisher publishes catalog events to RabbitMQ.  Errors are
// logged and returned so callers can ignore failures without interrupting
// the main request flow.
package queue_publisher

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	q "github.com/iliyamo/ecommerce-backend/internal/queue"
)

// defaultDialTimeout bounds a publish whose context has no deadline.
const defaultDialTimeout = 5 * time.Second

// Publisher dials the broker per publish.  Catalog writes are rare enough
// that a long-lived channel with its own reconnect logic is not worth it.
type Publisher struct {
	url string
	log *zap.Logger
}

func New(url string, log *zap.Logger) *Publisher {
	return &Publisher{url: url, log: log.Named("rabbitmq")}
}

// dial connects within the time left on ctx.  The TCP connect and the AMQP
// handshake share that budget, and the connection is closed if ctx ends
// while the channel is still in use.
func (p *Publisher) dial(ctx context.Context) (*amqp.Connection, func(), error) {
	timeout := defaultDialTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if timeout <= 0 {
		return nil, nil, context.DeadlineExceeded
	}

	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Dial:      amqp.DefaultDial(timeout),
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
	})
	if err != nil {
		return nil, nil, err
	}
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	return conn, func() {
		stop()
		_ = conn.Close()
	}, nil
}

// Publish sends ev to the catalog.events queue as a persistent message.  It
// returns once ctx is done at the latest.
func (p *Publisher) Publish(ctx context.Context, ev q.CatalogEvent) error {
	conn, closeConn, err := p.dial(ctx)
	if err != nil {
		p.log.Warn("dial failed", zap.Error(err))
		return err
	}
	defer closeConn()

	ch, err := conn.Channel()
	if err != nil {
		p.log.Warn("channel open failed", zap.Error(err))
		return err
	}
	defer func() { _ = ch.Close() }()

	// durable, so messages survive broker restarts
	if _, err := ch.QueueDeclare(
		q.CatalogQueue, // name
		true,           // durable
		false,          // autoDelete
		false,          // exclusive
		false,          // noWait
		nil,            // args
	); err != nil {
		p.log.Warn("queue declare failed", zap.Error(err))
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		p.log.Warn("marshal event failed", zap.Error(err))
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		Timestamp:    time.Now().UTC(),
		Type:         ev.Type,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx,
		"",             // default exchange
		q.CatalogQueue, // routing key = queue name
		false,          // mandatory
		false,          // immediate
		pub,
	); err != nil {
		p.log.Warn("publish failed", zap.Error(err), zap.String("type", ev.Type))
		return err
	}
	return nil
}

// Nop discards every event.  It is used when EVENTS_ENABLED is false.
type Nop struct{}

func (Nop) Publish(context.Context, q.CatalogEvent) error { return nil }
