package model

// BookingRequest is the input of the booking transaction.  Shape checks
// (presence, types, ranges) happen in the request layer; business rules
// are enforced by the orchestrator.
//
// Fields:
//  EventID       – event being booked.
//  Tickets       – number of tickets requested.
//  Tier          – tier rule key the tickets are bought under.
//  CustomerName  – printed on the ticket.
//  CustomerEmail – receives the ticket; also keys the in-app notice.
//  CustomerPhone – receives the SMS confirmation.
//  Parking       – parking add-on requested.
//  DiscountCode  – any non-empty code grants the flat discount.
//  SeatZoneID    – optional; the event's first zone is used when empty.
type BookingRequest struct {
	EventID       string
	Tickets       int
	Tier          string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Parking       bool
	DiscountCode  string
	SeatZoneID    string
}

// BookingResult is returned to the caller once a booking succeeds.  It is
// not persisted on its own; the ticket is.
type BookingResult struct {
	BookingID      string `json:"bookingId"`
	TotalPrice     int64  `json:"totalPrice"`
	Currency       string `json:"currency"`
	TicketFileName string `json:"pdfFileName"`
}

// Ticket is the rendered artifact issued for a booking.
type Ticket struct {
	BookingID string
	FileName  string
	Payload   []byte
}
