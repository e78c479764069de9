package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/labstack/gommon/log"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Consumer drains the show.scheduled queue and writes one announcement
// line per show.
type Consumer struct {
	url    string
	logger *log.Logger
	out    io.Writer
}

// NewConsumer creates a Consumer.  Announcements go to out when it is
// non-nil, and are always logged.
func NewConsumer(url string, logger *log.Logger, out io.Writer) *Consumer {
	if logger == nil {
		logger = log.New("consumer")
	}
	return &Consumer{url: url, logger: logger, out: out}
}

// Run connects to RabbitMQ, declares the show.scheduled queue and consumes
// it until ctx is cancelled.  Lost connections are re-dialled with
// exponential backoff capped at 30s.  Run returns ctx.Err() on shutdown.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.url)
		if err != nil {
			c.logger.Warnj(log.JSON{"msg": "failed to dial broker", "error": err.Error(), "retry_in": backoff.String()})
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
		c.logger.Warnj(log.JSON{"msg": "consume loop ended; reconnecting", "error": err.Error()})
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
		c.logger.Warnj(log.JSON{"msg": "set QoS failed", "error": err.Error()})
	}

	if _, err := ch.QueueDeclare(ShowScheduledQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.ConsumeWithContext(ctx, ShowScheduledQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := c.handle(d.Body); err != nil {
			c.logger.Errorj(log.JSON{"msg": "handle message failed", "error": err.Error()})
			_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func (c *Consumer) handle(body []byte) error {
	line, ev, err := Announce(body)
	if err != nil {
		return err
	}
	c.logger.Infoj(log.JSON{"msg": "show scheduled", "show_id": ev.ShowID, "venue": ev.VenueName, "artist": ev.ArtistName, "start_time": ev.StartTime})
	if c.out != nil {
		if _, err := io.WriteString(c.out, line); err != nil {
			return fmt.Errorf("write announcement: %w", err)
		}
	}
	return nil
}

// Announce decodes a show.scheduled payload and renders its announcement
// line.
func Announce(body []byte) (string, ShowScheduledEvent, error) {
	var ev ShowScheduledEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return "", ev, fmt.Errorf("unmarshal: %w", err)
	}
	if ev.ShowID == 0 {
		return "", ev, errors.New("unmarshal: missing show_id")
	}
	line := fmt.Sprintf("[%s] Show scheduled | show_id=%d | artist=%q | venue=%q | starts=%s\n",
		ev.ScheduledAt, ev.ShowID, ev.ArtistName, ev.VenueName, ev.StartTime)
	return line, ev, nil
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
