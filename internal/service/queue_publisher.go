// Package service provides the broker-backed notification transport.  Email
// and SMS notices are published to durable RabbitMQ queues; a consumer (see
// cmd/notifier) hands them to the providers.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/booksphere/internal/clock"
	"github.com/iliyamo/booksphere/internal/model"
	q "github.com/iliyamo/booksphere/internal/queue"
)

// QueuePublisher implements notification.Transport on top of RabbitMQ.  The
// connection is dialed lazily and re-dialed after the broker drops it; each
// publish uses its own channel.
type QueuePublisher struct {
	url    string
	logger *logrus.Logger
	clock  clock.Clock

	mu   sync.Mutex
	conn *amqp.Connection
}

func NewQueuePublisher(url string, logger *logrus.Logger) *QueuePublisher {
	return &QueuePublisher{url: url, logger: logger, clock: clock.NewSystem()}
}

// QueueFor maps a channel to its queue name.
func QueueFor(channel model.Channel) (string, error) {
	switch channel {
	case model.ChannelEmail:
		return q.EmailQueue, nil
	case model.ChannelSMS:
		return q.SMSQueue, nil
	}
	return "", fmt.Errorf("no queue for channel %q", channel)
}

// NewNotificationEvent builds the broker message for payload.
func NewNotificationEvent(channel model.Channel, payload model.NotificationPayload, at time.Time) q.NotificationEvent {
	return q.NotificationEvent{
		Channel:        string(channel),
		UserID:         payload.UserID,
		Email:          payload.Email,
		Phone:          payload.Phone,
		Subject:        payload.Subject,
		Message:        payload.Message,
		AttachmentName: payload.AttachmentName,
		Attachment:     payload.Attachment,
		QueuedAt:       at.UTC(),
	}
}

// Deliver publishes payload to the queue of channel.  Messages are marked
// persistent.  Errors are wrapped and returned, not logged; the caller
// decides how to report them.
func (p *QueuePublisher) Deliver(ctx context.Context, channel model.Channel, payload model.NotificationPayload) error {
	queue, err := QueueFor(channel)
	if err != nil {
		return err
	}
	body, err := json.Marshal(NewNotificationEvent(channel, payload, p.clock.Now()))
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	conn, err := p.connection()
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	// Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("rabbitmq declare %s: %w", queue, err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    p.clock.Now(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queue, false, false, pub); err != nil {
		return fmt.Errorf("rabbitmq publish %s: %w", queue, err)
	}
	return nil
}

func (p *QueuePublisher) connection() (*amqp.Connection, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn != nil && !p.conn.IsClosed() {
		return p.conn, nil
	}
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("rabbitmq: connected")
	p.conn = conn
	return conn, nil
}

// Close releases the broker connection.
func (p *QueuePublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn == nil {
		return nil
	}
	err := p.conn.Close()
	p.conn = nil
	return err
}
