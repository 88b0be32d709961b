package booking

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/booksphere/internal/clock"
	"github.com/iliyamo/booksphere/internal/model"
	"github.com/iliyamo/booksphere/internal/notification"
	"github.com/iliyamo/booksphere/internal/ticket"
)

type fakeCatalog struct {
	events []model.Event
	tiers  []model.TierRule
}

func (f fakeCatalog) Event(_ context.Context, id string) (model.Event, bool) {
	for _, e := range f.events {
		if e.ID == id {
			return e, true
		}
	}
	return model.Event{}, false
}

func (f fakeCatalog) TierRules(context.Context) []model.TierRule { return f.tiers }

type sent struct {
	channel model.Channel
	payload model.NotificationPayload
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sent
	fail map[model.Channel]bool
}

func (r *recordingNotifier) Send(_ context.Context, ch model.Channel, p model.NotificationPayload) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, sent{ch, p})
	if r.fail[ch] {
		return errors.New("provider down")
	}
	return nil
}

func (r *recordingNotifier) byChannel() map[model.Channel][]model.NotificationPayload {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[model.Channel][]model.NotificationPayload{}
	for _, s := range r.sent {
		out[s.channel] = append(out[s.channel], s.payload)
	}
	return out
}

var rockwave = model.Event{
	ID:         "evt_rockwave",
	Title:      "RockWave Live 2026",
	Currency:   "USD",
	Schedule:   model.Schedule{StartAt: time.Date(2026, 2, 18, 20, 0, 0, 0, time.UTC)},
	PriceCurve: model.DecreaseWithDistance,
	SeatMap: model.SeatMap{Zones: []model.SeatZone{
		{ID: "vip", BasePrice: 240, DistanceFactor: 0.2},
		{ID: "gold", BasePrice: 180, DistanceFactor: 0.5},
	}},
}

var flat = model.Event{
	ID:         "evt_flat",
	Title:      "Flat Fee Night",
	Currency:   "EUR",
	Schedule:   model.Schedule{StartAt: time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)},
	PriceCurve: model.IncreaseWithDistance,
	SeatMap:    model.SeatMap{Zones: []model.SeatZone{{ID: "floor", BasePrice: 180}}},
}

var noZones = model.Event{ID: "evt_nozones", Title: "Standing Only", Currency: "USD"}

var tiers = []model.TierRule{
	{Key: "tier1", MaxTickets: 25},
	{Key: "tier2", MaxTickets: 14},
	{Key: "normal", MaxTickets: 9},
}

type fixture struct {
	orch     *Orchestrator
	notifier *recordingNotifier
	store    *ticket.MemoryStore
}

func newFixture(t *testing.T, newID func() (string, error)) fixture {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	store := ticket.NewMemoryStore()
	renderer := ticket.RendererFunc(func(e model.Event, n int, name string) ([]byte, error) {
		return []byte("%PDF " + e.Title + " " + name), nil
	})
	notifier := &recordingNotifier{}
	orch := NewOrchestrator(Property{
		Catalog:  fakeCatalog{events: []model.Event{rockwave, flat, noZones}, tiers: tiers},
		Issuer:   ticket.NewIssuer(renderer, store),
		Notifier: notifier,
		Logger:   logger,
		NewID:    newID,
	})
	return fixture{orch: orch, notifier: notifier, store: store}
}

func validRequest() model.BookingRequest {
	return model.BookingRequest{
		EventID:       "evt_rockwave",
		Tickets:       2,
		Tier:          "normal",
		CustomerName:  "Ada Lovelace",
		CustomerEmail: "ada@example.com",
		CustomerPhone: "+1 555-010-0199",
		SeatZoneID:    "gold",
	}
}

func TestCreateBooking_Rejections(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(*model.BookingRequest)
		reason string
	}{
		{"letters in phone", func(r *model.BookingRequest) { r.CustomerPhone = "call me" }, "Invalid phone number format."},
		{"short phone", func(r *model.BookingRequest) { r.CustomerPhone = "12345" }, "Invalid phone number format."},
		{"unknown event", func(r *model.BookingRequest) { r.EventID = "evt_missing" }, "Event not found."},
		{"unknown tier", func(r *model.BookingRequest) { r.Tier = "gold" }, "Invalid tier selection."},
		{"over tier limit", func(r *model.BookingRequest) { r.Tickets = 10 }, "Tier limit exceeded. Max 9 tickets."},
		{"unknown zone", func(r *model.BookingRequest) { r.SeatZoneID = "balcony" }, "Invalid seat zone."},
		{"event without zones", func(r *model.BookingRequest) { r.EventID = "evt_nozones"; r.SeatZoneID = "" }, "Seat zone not provided."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t, nil)
			req := validRequest()
			tc.mutate(&req)

			_, err := f.orch.CreateBooking(context.Background(), req)
			v, ok := IsValidation(err)
			if !ok {
				t.Fatalf("expected validation error, got %v", err)
			}
			if v.Reason != tc.reason {
				t.Fatalf("expected %q, got %q", tc.reason, v.Reason)
			}
			f.orch.Wait()
			if f.store.Len() != 0 {
				t.Fatalf("no ticket should be stored on rejection")
			}
			if n := len(f.notifier.byChannel()); n != 0 {
				t.Fatalf("no notices should be sent on rejection, got %d channels", n)
			}
		})
	}
}

func TestCreateBooking_TierLimitBoundary(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	req := validRequest()
	req.Tickets = 9
	if _, err := f.orch.CreateBooking(context.Background(), req); err != nil {
		t.Fatalf("9 tickets on normal tier should pass: %v", err)
	}
	f.orch.Wait()
}

func TestCreateBooking_Pricing(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		event    string
		zone     string
		tickets  int
		code     string
		want     int64
		currency string
	}{
		{"explicit zone", "evt_rockwave", "gold", 2, "", 288, "USD"},
		{"default zone is first", "evt_rockwave", "", 1, "", 221, "USD"},
		{"no discount", "evt_flat", "", 3, "", 540, "EUR"},
		{"any code discounts ten percent", "evt_flat", "", 3, "WHATEVER", 486, "EUR"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t, nil)
			req := validRequest()
			req.EventID, req.SeatZoneID, req.Tickets, req.DiscountCode = tc.event, tc.zone, tc.tickets, tc.code

			res, err := f.orch.CreateBooking(context.Background(), req)
			if err != nil {
				t.Fatalf("unexpected error %v", err)
			}
			f.orch.Wait()
			if res.TotalPrice != tc.want || res.Currency != tc.currency {
				t.Fatalf("expected %d %s, got %d %s", tc.want, tc.currency, res.TotalPrice, res.Currency)
			}
		})
	}
}

func TestCreateBooking_IssuesTicketAndNotifies(t *testing.T) {
	t.Parallel()

	for _, code := range []string{"", "SAVE10"} {
		t.Run("code="+code, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t, nil)
			req := validRequest()
			req.Tickets = 3
			req.DiscountCode = code

			res, err := f.orch.CreateBooking(context.Background(), req)
			if err != nil {
				t.Fatalf("unexpected error %v", err)
			}
			f.orch.Wait()

			if res.BookingID == "" {
				t.Fatalf("missing booking id")
			}
			if want := "ROCKWAVE_LIVE_2026_2026-02-18T20-00-00-000Z_3.pdf"; res.TicketFileName != want {
				t.Fatalf("expected file name %s, got %s", want, res.TicketFileName)
			}
			tk, err := f.orch.Ticket(context.Background(), res.BookingID)
			if err != nil {
				t.Fatalf("ticket not retrievable: %v", err)
			}
			if !strings.HasPrefix(string(tk.Payload), "%PDF") {
				t.Fatalf("unexpected payload %q", tk.Payload)
			}

			got := f.notifier.byChannel()
			for _, ch := range []model.Channel{model.ChannelInApp, model.ChannelSMS, model.ChannelEmail} {
				if len(got[ch]) != 1 {
					t.Fatalf("expected exactly one %s notice, got %d", ch, len(got[ch]))
				}
			}
			if len(got) != 3 {
				t.Fatalf("expected 3 channels, got %d", len(got))
			}
			if p := got[model.ChannelInApp][0]; p.UserID != req.CustomerEmail || p.Message != "Booking confirmed for RockWave Live 2026." {
				t.Fatalf("unexpected in_app notice %+v", p)
			}
			if p := got[model.ChannelSMS][0]; p.Phone != req.CustomerPhone || p.Message != "Your booking for RockWave Live 2026 is confirmed." {
				t.Fatalf("unexpected sms notice %+v", p)
			}
			email := got[model.ChannelEmail][0]
			if email.Email != req.CustomerEmail || email.Subject != "Your BookSphere Tickets" ||
				email.AttachmentName != res.TicketFileName || len(email.Attachment) == 0 {
				t.Fatalf("unexpected email notice %+v", email)
			}
		})
	}
}

func TestCreateBooking_NotificationFailureDoesNotFailBooking(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	f.notifier.fail = map[model.Channel]bool{model.ChannelEmail: true, model.ChannelSMS: true}

	res, err := f.orch.CreateBooking(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("booking should succeed despite delivery failures: %v", err)
	}
	f.orch.Wait()
	if res.BookingID == "" || f.store.Len() != 1 {
		t.Fatalf("ticket should be stored")
	}
}

func TestCreateBooking_RegeneratesCollidingID(t *testing.T) {
	t.Parallel()

	ids := []string{"dup", "dup", "fresh"}
	var mu sync.Mutex
	f := newFixture(t, func() (string, error) {
		mu.Lock()
		defer mu.Unlock()
		id := ids[0]
		ids = ids[1:]
		return id, nil
	})

	first, err := f.orch.CreateBooking(context.Background(), validRequest())
	if err != nil || first.BookingID != "dup" {
		t.Fatalf("first booking: %v %+v", err, first)
	}
	second, err := f.orch.CreateBooking(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("second booking: %v", err)
	}
	f.orch.Wait()
	if second.BookingID != "fresh" {
		t.Fatalf("expected regenerated id, got %s", second.BookingID)
	}
	if f.store.Len() != 2 {
		t.Fatalf("expected 2 stored tickets, got %d", f.store.Len())
	}
}

func TestCreateBooking_GivesUpAfterRepeatedCollisions(t *testing.T) {
	t.Parallel()

	f := newFixture(t, func() (string, error) { return "same", nil })
	if _, err := f.orch.CreateBooking(context.Background(), validRequest()); err != nil {
		t.Fatalf("first booking: %v", err)
	}
	_, err := f.orch.CreateBooking(context.Background(), validRequest())
	f.orch.Wait()
	if !errors.Is(err, ticket.ErrDuplicate) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
	if _, ok := IsValidation(err); ok {
		t.Fatalf("collision exhaustion is not a validation error")
	}
}

func TestTicket_NotFound(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)
	_, err := f.orch.Ticket(context.Background(), "nope")
	if !errors.Is(err, ErrTicketNotFound) {
		t.Fatalf("expected ErrTicketNotFound, got %v", err)
	}
	if err.Error() != "ticket not found" {
		t.Fatalf("unexpected error text %q", err.Error())
	}
}

func TestRegisterPreference(t *testing.T) {
	t.Parallel()

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	dispatcher := notification.NewDispatcher(nil, clock.NewFixed(time.Date(2026, 2, 18, 9, 0, 0, 0, time.UTC)))
	orch := NewOrchestrator(Property{
		Catalog:  fakeCatalog{events: []model.Event{rockwave}, tiers: tiers},
		Issuer:   ticket.NewIssuer(nil, nil),
		Notifier: dispatcher,
		Logger:   logger,
	})

	times, err := orch.RegisterPreference(context.Background(), "u1", "evt_rockwave")
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	orch.Wait()

	want := []string{"2026-02-18T19:00:00Z", "2026-02-18T19:55:00Z", "2026-02-18T19:57:00Z", "2026-02-18T19:58:00Z"}
	if len(times) != len(want) {
		t.Fatalf("expected %d times, got %d", len(want), len(times))
	}
	for i := range want {
		if got := times[i].Format(time.RFC3339); got != want[i] {
			t.Fatalf("time %d: expected %s, got %s", i, want[i], got)
		}
	}

	inbox := orch.Inbox()
	if len(inbox) != 4 {
		t.Fatalf("expected 4 reminder notices, got %d", len(inbox))
	}
	for i, m := range []int{60, 5, 3, 2} {
		msg := "Tickets for RockWave Live 2026 open in " + strconv.Itoa(m) + " minutes."
		if inbox[i].Message != msg {
			t.Fatalf("notice %d: expected %q, got %q", i, msg, inbox[i].Message)
		}
	}

	if _, err := orch.RegisterPreference(context.Background(), "u1", "evt_rockwave"); err != nil {
		t.Fatalf("second registration: %v", err)
	}
	orch.Wait()
	if prefs := orch.Preferences("u1"); len(prefs) != 1 {
		t.Fatalf("preferences should stay deduplicated, got %v", prefs)
	}

	if _, err := orch.RegisterPreference(context.Background(), "u1", "evt_missing"); !errors.Is(err, ErrEventNotFound) {
		t.Fatalf("expected event not found, got %v", err)
	}
	if prefs := orch.Preferences("u1"); len(prefs) != 1 {
		t.Fatalf("unknown events must not be recorded, got %v", prefs)
	}
}

func TestRegisterPreference_InboxFollowsScheduleOrder(t *testing.T) {
	t.Parallel()

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	dispatcher := notification.NewDispatcher(nil, nil)
	orch := NewOrchestrator(Property{
		Catalog:  fakeCatalog{events: []model.Event{rockwave}, tiers: tiers},
		Issuer:   ticket.NewIssuer(nil, nil),
		Notifier: dispatcher,
		Logger:   logger,
	})

	for run := 0; run < 50; run++ {
		if _, err := orch.RegisterPreference(context.Background(), "u"+strconv.Itoa(run), "evt_rockwave"); err != nil {
			t.Fatalf("run %d: %v", run, err)
		}
	}
	// No Wait: in-app notices are recorded before RegisterPreference returns.
	inbox := orch.Inbox()
	if len(inbox) != 200 {
		t.Fatalf("expected 200 notices, got %d", len(inbox))
	}
	offsets := []int{60, 5, 3, 2}
	for i, r := range inbox {
		want := "open in " + strconv.Itoa(offsets[i%4]) + " minutes."
		if !strings.HasSuffix(r.Message, want) {
			t.Fatalf("notice %d out of order: %q", i, r.Message)
		}
	}
}

func TestCreateBooking_InAppNoticeRecordedBeforeReturn(t *testing.T) {
	t.Parallel()

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	dispatcher := notification.NewDispatcher(nil, nil)
	orch := NewOrchestrator(Property{
		Catalog:  fakeCatalog{events: []model.Event{rockwave}, tiers: tiers},
		Issuer:   ticket.NewIssuer(ticket.RendererFunc(func(model.Event, int, string) ([]byte, error) { return []byte("%PDF"), nil }), nil),
		Notifier: dispatcher,
		Logger:   logger,
	})
	defer orch.Wait()

	if _, err := orch.CreateBooking(context.Background(), validRequest()); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	inbox := orch.Inbox()
	if len(inbox) != 1 || inbox[0].Message != "Booking confirmed for RockWave Live 2026." {
		t.Fatalf("in-app confirmation should be visible immediately, got %+v", inbox)
	}
}
