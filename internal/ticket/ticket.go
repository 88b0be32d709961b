// Package ticket issues ticket documents for confirmed bookings and keeps
// them retrievable by booking id.
package ticket

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/iliyamo/booksphere/internal/model"
)

var (
	ErrNotFound  = errors.New("ticket not found")
	ErrDuplicate = errors.New("ticket already stored for booking")
)

// Renderer turns ticket metadata into a document.
type Renderer interface {
	Render(event model.Event, tickets int, customerName string) ([]byte, error)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(event model.Event, tickets int, customerName string) ([]byte, error)

func (f RendererFunc) Render(event model.Event, tickets int, customerName string) ([]byte, error) {
	return f(event, tickets, customerName)
}

// Store keeps one ticket per booking id.  Implementations must be safe for
// concurrent use.
type Store interface {
	// Insert stores t only if nothing is stored under t.BookingID yet and
	// returns ErrDuplicate otherwise.
	Insert(ctx context.Context, t model.Ticket) error
	// Put stores t, replacing any previous ticket for the booking.
	Put(ctx context.Context, t model.Ticket) error
	// Get returns ErrNotFound for unknown booking ids.
	Get(ctx context.Context, bookingID string) (model.Ticket, error)
}

// Issuer renders and stores tickets.
type Issuer struct {
	renderer Renderer
	store    Store
}

func NewIssuer(renderer Renderer, store Store) *Issuer {
	if renderer == nil {
		renderer = PDFRenderer{}
	}
	if store == nil {
		store = NewMemoryStore()
	}
	return &Issuer{renderer: renderer, store: store}
}

var nonAlnum = regexp.MustCompile(`[^A-Za-z0-9]+`)

// FileName derives the ticket file name from the event title, its start
// time and the ticket count.  It is deterministic for identical inputs, e.g.
// ROCKWAVE_LIVE_2026_2026-02-18T20-00-00-000Z_3.pdf.
func FileName(event model.Event, tickets int) string {
	title := strings.ToUpper(nonAlnum.ReplaceAllString(event.Title, "_"))
	stamp := event.Schedule.StartAt.UTC().Format("2006-01-02T15:04:05.000Z")
	stamp = strings.NewReplacer(":", "-", ".", "-").Replace(stamp)
	return fmt.Sprintf("%s_%s_%d.pdf", title, stamp, tickets)
}

// Issue renders a ticket.  The returned ticket has no booking id yet.
func (i *Issuer) Issue(event model.Event, tickets int, customerName string) (model.Ticket, error) {
	payload, err := i.renderer.Render(event, tickets, customerName)
	if err != nil {
		return model.Ticket{}, fmt.Errorf("render ticket: %w", err)
	}
	return model.Ticket{FileName: FileName(event, tickets), Payload: payload}, nil
}

// Save stores t under bookingID, refusing to replace an existing ticket.
func (i *Issuer) Save(ctx context.Context, bookingID string, t model.Ticket) error {
	t.BookingID = bookingID
	return i.store.Insert(ctx, t)
}

// Store associates payload with bookingID, overwriting any previous one.
func (i *Issuer) Store(ctx context.Context, bookingID, fileName string, payload []byte) error {
	return i.store.Put(ctx, model.Ticket{BookingID: bookingID, FileName: fileName, Payload: payload})
}

// Retrieve returns the ticket stored for bookingID.
func (i *Issuer) Retrieve(ctx context.Context, bookingID string) (model.Ticket, error) {
	return i.store.Get(ctx, bookingID)
}
