// Package booking runs the booking transaction: validation against CMS
// rules, pricing, ticket issuance and the notification fan-out.
package booking

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/booksphere/internal/content"
	"github.com/iliyamo/booksphere/internal/model"
	"github.com/iliyamo/booksphere/internal/notification"
	"github.com/iliyamo/booksphere/internal/pricing"
	"github.com/iliyamo/booksphere/internal/reminder"
	"github.com/iliyamo/booksphere/internal/seatmap"
	"github.com/iliyamo/booksphere/internal/ticket"
)

const (
	// DiscountPercent is granted for any non-empty discount code.
	DiscountPercent = 10
	// maxIDAttempts bounds booking id regeneration on collision.
	maxIDAttempts = 5
	// sendTimeout bounds each detached notification send.
	sendTimeout = 30 * time.Second

	ticketSubject = "Your BookSphere Tickets"
)

var phonePattern = regexp.MustCompile(`^\+?[0-9][0-9\s\-]{7,14}$`)

// Catalog is the read side of the content service the orchestrator needs.
type Catalog interface {
	Event(ctx context.Context, id string) (model.Event, bool)
	TierRules(ctx context.Context) []model.TierRule
}

// Notifier sends one notice on one channel.
type Notifier interface {
	Send(ctx context.Context, channel model.Channel, payload model.NotificationPayload) error
}

// Inboxer exposes the in-app inbox.
type Inboxer interface {
	Inbox() []model.NotificationRecord
}

var (
	_ Catalog  = (*content.Service)(nil)
	_ Notifier = (*notification.Dispatcher)(nil)
	_ Inboxer  = (*notification.Dispatcher)(nil)
)

// Property wires the orchestrator's collaborators.  Catalog, Issuer and
// Notifier are required.
type Property struct {
	Catalog   Catalog
	Issuer    *ticket.Issuer
	Notifier  Notifier
	Inbox     Inboxer
	Reminders *reminder.Scheduler
	Logger    *logrus.Logger
	NewID     func() (string, error)
}

type Orchestrator struct {
	catalog   Catalog
	issuer    *ticket.Issuer
	notifier  Notifier
	inbox     Inboxer
	reminders *reminder.Scheduler
	logger    *logrus.Logger
	newID     func() (string, error)

	inflight sync.WaitGroup
}

func NewOrchestrator(p Property) *Orchestrator {
	if p.Catalog == nil || p.Issuer == nil || p.Notifier == nil {
		panic("booking: catalog, issuer and notifier are required")
	}
	o := &Orchestrator{
		catalog:   p.Catalog,
		issuer:    p.Issuer,
		notifier:  p.Notifier,
		inbox:     p.Inbox,
		reminders: p.Reminders,
		logger:    p.Logger,
		newID:     p.NewID,
	}
	if o.inbox == nil {
		if ib, ok := p.Notifier.(Inboxer); ok {
			o.inbox = ib
		}
	}
	if o.reminders == nil {
		o.reminders = reminder.NewScheduler()
	}
	if o.logger == nil {
		o.logger = logrus.StandardLogger()
	}
	if o.newID == nil {
		o.newID = newBookingID
	}
	return o
}

func newBookingID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// CreateBooking validates req, prices it, issues and stores the ticket and
// then fans notices out to every channel.  The in-app notice is recorded
// before it returns; email and SMS are not awaited, use Wait for those.
func (o *Orchestrator) CreateBooking(ctx context.Context, req model.BookingRequest) (model.BookingResult, error) {
	if !phonePattern.MatchString(req.CustomerPhone) {
		return model.BookingResult{}, invalid("Invalid phone number format.")
	}

	event, ok := o.catalog.Event(ctx, req.EventID)
	if !ok {
		return model.BookingResult{}, ErrEventNotFound
	}

	var tier *model.TierRule
	for _, r := range o.catalog.TierRules(ctx) {
		if r.Key == req.Tier {
			tier = &r
			break
		}
	}
	if tier == nil {
		return model.BookingResult{}, invalid("Invalid tier selection.")
	}
	if req.Tickets > tier.MaxTickets {
		return model.BookingResult{}, invalid(fmt.Sprintf("Tier limit exceeded. Max %d tickets.", tier.MaxTickets))
	}

	var zone model.SeatZone
	switch {
	case req.SeatZoneID != "":
		z, err := seatmap.Resolve(event, req.SeatZoneID)
		if err != nil {
			return model.BookingResult{}, invalid("Invalid seat zone.")
		}
		zone = z
	case len(event.SeatMap.Zones) > 0:
		zone = event.SeatMap.Zones[0]
	default:
		return model.BookingResult{}, invalid("Seat zone not provided.")
	}

	var discount float64
	if req.DiscountCode != "" {
		discount = DiscountPercent
	}
	total := pricing.Total(event, zone, req.Tickets, discount)

	t, err := o.issuer.Issue(event, req.Tickets, req.CustomerName)
	if err != nil {
		return model.BookingResult{}, err
	}
	bookingID, err := o.save(ctx, t)
	if err != nil {
		return model.BookingResult{}, err
	}

	o.logger.WithContext(ctx).WithFields(logrus.Fields{
		"booking_id": bookingID,
		"event_id":   event.ID,
		"zone":       zone.ID,
		"tickets":    req.Tickets,
		"parking":    req.Parking,
		"total":      total,
	}).Info("booking created")

	o.fanOut(ctx, []notice{
		{model.ChannelInApp, model.NotificationPayload{
			UserID:  req.CustomerEmail,
			Message: fmt.Sprintf("Booking confirmed for %s.", event.Title),
		}},
		{model.ChannelSMS, model.NotificationPayload{
			Phone:   req.CustomerPhone,
			Message: fmt.Sprintf("Your booking for %s is confirmed.", event.Title),
		}},
		{model.ChannelEmail, model.NotificationPayload{
			Email:          req.CustomerEmail,
			Subject:        ticketSubject,
			Message:        fmt.Sprintf("Your tickets for %s are attached.", event.Title),
			AttachmentName: t.FileName,
			Attachment:     t.Payload,
		}},
	})

	return model.BookingResult{
		BookingID:      bookingID,
		TotalPrice:     total,
		Currency:       event.Currency,
		TicketFileName: t.FileName,
	}, nil
}

// save stores t under a fresh booking id, regenerating the id when the
// store already holds a ticket for it.
func (o *Orchestrator) save(ctx context.Context, t model.Ticket) (string, error) {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id, err := o.newID()
		if err != nil {
			return "", fmt.Errorf("generate booking id: %w", err)
		}
		err = o.issuer.Save(ctx, id, t)
		if err == nil {
			return id, nil
		}
		if !errors.Is(err, ticket.ErrDuplicate) {
			return "", fmt.Errorf("store ticket: %w", err)
		}
		o.logger.WithContext(ctx).WithField("booking_id", id).Warn("booking id collision, regenerating")
	}
	return "", fmt.Errorf("store ticket: %w after %d attempts", ticket.ErrDuplicate, maxIDAttempts)
}

type notice struct {
	channel model.Channel
	payload model.NotificationPayload
}

// fanOut records in-app notices inline, in order, so the inbox reflects
// them as soon as the call returns.  Email and SMS are sent on their own
// goroutines, detached from the request context so they survive the
// response being written.
func (o *Orchestrator) fanOut(ctx context.Context, notices []notice) {
	base := context.WithoutCancel(ctx)
	for _, n := range notices {
		if n.channel == model.ChannelInApp {
			o.send(base, n)
			continue
		}
		o.inflight.Add(1)
		go func() {
			defer o.inflight.Done()
			o.send(base, n)
		}()
	}
}

func (o *Orchestrator) send(ctx context.Context, n notice) {
	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	if err := o.notifier.Send(sendCtx, n.channel, n.payload); err != nil {
		o.logger.WithError(err).WithField("channel", n.channel).Error("notification delivery failed")
	}
}

// Wait blocks until every notification send started so far has finished.
func (o *Orchestrator) Wait() {
	o.inflight.Wait()
}

// RegisterPreference subscribes userID to reminders for eventID and returns
// the reminder times.  One in-app notice is recorded per reminder, in
// schedule order.
func (o *Orchestrator) RegisterPreference(ctx context.Context, userID, eventID string) ([]time.Time, error) {
	event, ok := o.catalog.Event(ctx, eventID)
	if !ok {
		return nil, ErrEventNotFound
	}
	o.reminders.AddPreference(userID, eventID)

	schedule := o.reminders.Schedule(event.Schedule.StartAt)
	notices := make([]notice, 0, len(schedule))
	times := make([]time.Time, 0, len(schedule))
	for _, r := range schedule {
		times = append(times, r.At)
		notices = append(notices, notice{model.ChannelInApp, model.NotificationPayload{
			UserID:  userID,
			Message: fmt.Sprintf("Tickets for %s open in %d minutes.", event.Title, r.MinutesBefore),
		}})
	}
	o.fanOut(ctx, notices)
	return times, nil
}

// Preferences returns the events userID asked to be reminded about.
func (o *Orchestrator) Preferences(userID string) []string {
	return o.reminders.Preferences(userID)
}

// Inbox returns the in-app notices recorded so far.
func (o *Orchestrator) Inbox() []model.NotificationRecord {
	if o.inbox == nil {
		return []model.NotificationRecord{}
	}
	return o.inbox.Inbox()
}

// Ticket returns the stored ticket for bookingID.
func (o *Orchestrator) Ticket(ctx context.Context, bookingID string) (model.Ticket, error) {
	t, err := o.issuer.Retrieve(ctx, bookingID)
	if errors.Is(err, ticket.ErrNotFound) {
		return model.Ticket{}, ErrTicketNotFound
	}
	if err != nil {
		return model.Ticket{}, fmt.Errorf("retrieve ticket: %w", err)
	}
	return t, nil
}
