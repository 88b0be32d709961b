// Package notification fans booking notices out to delivery channels.  The
// in-app channel is served from an in-process inbox; email and SMS are
// handed to a Transport.
package notification

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/iliyamo/booksphere/internal/clock"
	"github.com/iliyamo/booksphere/internal/model"
)

var ErrUnknownChannel = errors.New("unknown notification channel")

// Transport delivers email and SMS notices to an external provider.
type Transport interface {
	Deliver(ctx context.Context, channel model.Channel, payload model.NotificationPayload) error
}

// NopTransport accepts every notice and does nothing with it.
type NopTransport struct{}

func (NopTransport) Deliver(context.Context, model.Channel, model.NotificationPayload) error {
	return nil
}

// Dispatcher routes notices by channel and owns the in-app inbox.  The inbox
// is append-only and unbounded; retention is left to the deployment.
type Dispatcher struct {
	transport Transport
	clock     clock.Clock

	mu    sync.Mutex
	inbox []model.NotificationRecord
}

func NewDispatcher(transport Transport, clk clock.Clock) *Dispatcher {
	if transport == nil {
		transport = NopTransport{}
	}
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &Dispatcher{transport: transport, clock: clk}
}

// Send delivers payload on channel.
func (d *Dispatcher) Send(ctx context.Context, channel model.Channel, payload model.NotificationPayload) error {
	switch channel {
	case model.ChannelInApp:
		d.mu.Lock()
		d.inbox = append(d.inbox, model.NotificationRecord{
			ID:        uuid.NewString(),
			Message:   payload.Message,
			Timestamp: d.clock.Now(),
		})
		d.mu.Unlock()
		return nil
	case model.ChannelEmail, model.ChannelSMS:
		if err := d.transport.Deliver(ctx, channel, payload); err != nil {
			return fmt.Errorf("deliver %s: %w", channel, err)
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownChannel, channel)
	}
}

// Inbox returns a snapshot of the in-app inbox in insertion order.
func (d *Dispatcher) Inbox() []model.NotificationRecord {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]model.NotificationRecord, len(d.inbox))
	copy(out, d.inbox)
	return out
}
