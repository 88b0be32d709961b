package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// Consumer drains the notification queues and appends one line per notice
// to a delivery log.  It stands in for the email/SMS provider integration.
type Consumer struct {
	url     string
	logPath string
	logger  *logrus.Logger

	mu sync.Mutex // serialises writes to the delivery log
}

func NewConsumer(url, logPath string, logger *logrus.Logger) *Consumer {
	if logPath == "" {
		logPath = filepath.Join("logs", "notifications.log")
	}
	return &Consumer{url: url, logPath: logPath, logger: logger}
}

// Run connects to RabbitMQ, declares the durable notification queues and
// consumes until ctx is cancelled.  Broker failures are retried with
// exponential backoff capped at 30s.  Messages that cannot be handled are
// rejected without requeue so they do not loop.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.url)
		if err != nil {
			c.logger.WithError(err).Warnf("notification-consumer: dial failed; retrying in %s", backoff)
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consumeLoop(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger.WithError(err).Warn("notification-consumer: consume loop ended; reconnecting")
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
		c.logger.WithError(err).Warn("notification-consumer: set QoS failed")
	}

	merged := make(chan amqp.Delivery)
	var wg sync.WaitGroup
	for _, q := range []string{EmailQueue, SMSQueue} {
		if _, err := ch.QueueDeclare(q, true, false, false, false, nil); err != nil {
			return fmt.Errorf("queue declare %s: %w", q, err)
		}
		msgs, err := ch.Consume(q, "", false, false, false, false, nil)
		if err != nil {
			return fmt.Errorf("queue consume %s: %w", q, err)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			for d := range msgs {
				select {
				case merged <- d:
				case <-ctx.Done():
					_ = d.Nack(false, true)
				}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(merged)
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-merged:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := c.handle(d.Body); err != nil {
				c.logger.WithError(err).Error("notification-consumer: handle message failed")
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (c *Consumer) handle(body []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(c.logPath), 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(c.logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()
	return writeDeliveryLine(f, body)
}

// writeDeliveryLine decodes a NotificationEvent and writes its single-line
// log form to w.  Attachment bytes are summarised, never written.
func writeDeliveryLine(w io.Writer, body []byte) error {
	var ev NotificationEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.Channel == "" {
		return errors.New("notification without channel")
	}
	attachment := "-"
	if ev.AttachmentName != "" {
		attachment = fmt.Sprintf("%s (%d bytes)", ev.AttachmentName, len(ev.Attachment))
	}
	line := fmt.Sprintf("[%s] Notification delivered | channel=%s | to=%q | subject=%q | message=%q | attachment=%s\n",
		ev.QueuedAt.UTC().Format(time.RFC3339), ev.Channel, ev.Recipient(), ev.Subject, ev.Message, attachment)
	if _, err := io.WriteString(w, line); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
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
