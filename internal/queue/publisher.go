package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/labstack/gommon/log"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher sends events to RabbitMQ.  Each publish opens its own
// connection, so a broker outage never leaves the publisher in a broken
// state.  Errors are logged and returned so callers can ignore them.
type Publisher struct {
	url         string
	logger      *log.Logger
	dialTimeout time.Duration
}

// defaultDialTimeout bounds the TCP connect and AMQP handshake.
const defaultDialTimeout = 3 * time.Second

// NewPublisher creates a Publisher for the broker at url.
func NewPublisher(url string, logger *log.Logger) *Publisher {
	if logger == nil {
		logger = log.New("queue")
	}
	return &Publisher{url: url, logger: logger, dialTimeout: defaultDialTimeout}
}

// PublishShowScheduled publishes ev to the show.scheduled queue.
func (p *Publisher) PublishShowScheduled(ctx context.Context, ev ShowScheduledEvent) error {
	return p.publish(ctx, ShowScheduledQueue, ev)
}

// PublishListingChanged publishes ev to the listing.changed queue.
func (p *Publisher) PublishListingChanged(ctx context.Context, ev ListingChangedEvent) error {
	return p.publish(ctx, ListingChangedQueue, ev)
}

func (p *Publisher) publish(ctx context.Context, queue string, event any) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", queue, err)
	}

	conn, err := p.dial(ctx)
	if err != nil {
		p.logger.Errorj(log.JSON{"msg": "rabbitmq dial failed", "queue": queue, "error": err.Error()})
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.logger.Errorj(log.JSON{"msg": "rabbitmq channel open failed", "queue": queue, "error": err.Error()})
		return err
	}
	defer func() { _ = ch.Close() }()

	// durable so messages survive broker restarts
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		p.logger.Errorj(log.JSON{"msg": "rabbitmq queue declare failed", "queue": queue, "error": err.Error()})
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queue, false, false, pub); err != nil {
		p.logger.Errorj(log.JSON{"msg": "rabbitmq publish failed", "queue": queue, "error": err.Error()})
		return err
	}
	return nil
}

// dial connects within dialTimeout, or sooner when ctx expires first.
func (p *Publisher) dial(ctx context.Context) (*amqp.Connection, error) {
	timeout := p.dialTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}
	if timeout <= 0 {
		return nil, context.DeadlineExceeded
	}
	return amqp.DialConfig(p.url, amqp.Config{
		Dial:      amqp.DefaultDial(timeout),
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
	})
}
