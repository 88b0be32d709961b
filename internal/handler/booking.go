package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/booksphere/internal/booking"
	"github.com/iliyamo/booksphere/internal/model"
)

// BookingHandler exposes the booking orchestrator over HTTP.
type BookingHandler struct {
	Bookings *booking.Orchestrator
	Logger   *logrus.Logger
}

func NewBookingHandler(o *booking.Orchestrator, logger *logrus.Logger) *BookingHandler {
	if o == nil {
		panic("nil orchestrator passed to NewBookingHandler")
	}
	return &BookingHandler{Bookings: o, Logger: logger}
}

// createBookingRequest is the wire shape of POST /v1/bookings.  Only the
// shape is checked here; business rules (tier caps, zones, phone format)
// belong to the orchestrator.
type createBookingRequest struct {
	EventID       string `json:"eventId" validate:"required"`
	Tickets       int    `json:"tickets" validate:"min=1,max=25"`
	Tier          string `json:"tier" validate:"required,oneof=tier1 tier2 normal"`
	CustomerName  string `json:"customerName" validate:"required"`
	CustomerEmail string `json:"customerEmail" validate:"required,email"`
	CustomerPhone string `json:"customerPhone" validate:"required"`
	Parking       bool   `json:"parking"`
	DiscountCode  string `json:"discountCode"`
	SeatZoneID    string `json:"seatZoneId"`
}

// CreateBooking handles POST /v1/bookings.
func (h *BookingHandler) CreateBooking(c echo.Context) error {
	var body createBookingRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request body."})
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": describe(err)})
	}

	res, err := h.Bookings.CreateBooking(c.Request().Context(), model.BookingRequest{
		EventID:       body.EventID,
		Tickets:       body.Tickets,
		Tier:          body.Tier,
		CustomerName:  body.CustomerName,
		CustomerEmail: body.CustomerEmail,
		CustomerPhone: body.CustomerPhone,
		Parking:       body.Parking,
		DiscountCode:  body.DiscountCode,
		SeatZoneID:    body.SeatZoneID,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, res)
}

type preferenceRequest struct {
	UserID  string `json:"userId" validate:"required"`
	EventID string `json:"eventId" validate:"required"`
}

// RegisterPreference handles POST /v1/preferences and answers with the
// reminder times as RFC3339 strings.
func (h *BookingHandler) RegisterPreference(c echo.Context) error {
	var body preferenceRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request body."})
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": describe(err)})
	}
	times, err := h.Bookings.RegisterPreference(c.Request().Context(), body.UserID, body.EventID)
	if err != nil {
		return h.fail(c, err)
	}
	schedule := make([]string, 0, len(times))
	for _, t := range times {
		schedule = append(schedule, t.UTC().Format(time.RFC3339))
	}
	return c.JSON(http.StatusOK, echo.Map{"schedule": schedule})
}

// Inbox handles GET /v1/notifications/inbox.
func (h *BookingHandler) Inbox(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"notifications": h.Bookings.Inbox()})
}

// DownloadTicket handles GET /v1/tickets/:bookingId.
func (h *BookingHandler) DownloadTicket(c echo.Context) error {
	t, err := h.Bookings.Ticket(c.Request().Context(), c.Param("bookingId"))
	if err != nil {
		return h.fail(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", t.FileName))
	return c.Blob(http.StatusOK, "application/pdf", t.Payload)
}

// fail maps orchestrator errors to responses.  Validation failures carry
// their customer-facing reason; anything else is logged and hidden.
func (h *BookingHandler) fail(c echo.Context, err error) error {
	if v, ok := booking.IsValidation(err); ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": v.Reason})
	}
	if errors.Is(err, booking.ErrTicketNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Ticket not found."})
	}
	if h.Logger != nil {
		h.Logger.WithContext(c.Request().Context()).WithError(err).Error("booking request failed")
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Something went wrong. Please try again."})
}
