package model

import "time"

// PriceCurve tells the pricing engine whether seats further from the stage
// get cheaper or more expensive.
type PriceCurve string

const (
	DecreaseWithDistance PriceCurve = "decrease_with_distance"
	IncreaseWithDistance PriceCurve = "increase_with_distance"
)

// Event is a bookable event as delivered by the content source.  Events are
// treated as immutable for as long as they live in the content cache.
//
// Fields:
//  ID               – content source identifier (e.g. "evt_rockwave").
//  Slug             – URL slug used by the front-end.
//  Title            – display title; also feeds the ticket file name.
//  Type             – concert, movie, sports, theater or other.
//  Currency         – ISO currency code the prices are expressed in.
//  Schedule         – start and booking window timestamps.
//  Venue            – where the event takes place.
//  Tags             – free-form tags used for filtering and recommendations.
//  SeatMap          – priced zones of the venue.
//  BasePrice        – headline price shown in listings.
//  PriceCurve       – direction in which price changes with distance.
//  ParkingAvailable – whether parking can be added to a booking.
type Event struct {
	ID               string     `json:"id"`
	Slug             string     `json:"slug"`
	Title            string     `json:"title"`
	Type             string     `json:"type"`
	Currency         string     `json:"currency"`
	Schedule         Schedule   `json:"schedule"`
	Venue            Venue      `json:"venue"`
	About            string     `json:"about,omitempty"`
	Tags             []string   `json:"tags"`
	IsPromoted       bool       `json:"isPromoted"`
	Banner           *Asset     `json:"banner,omitempty"`
	Gallery          []Asset    `json:"gallery,omitempty"`
	SeatMap          SeatMap    `json:"seatMap"`
	BasePrice        float64    `json:"basePrice"`
	PriceCurve       PriceCurve `json:"priceCurve"`
	ParkingAvailable bool       `json:"parkingAvailable"`
}

// Schedule holds the event start time and its booking window.
type Schedule struct {
	StartAt         time.Time  `json:"startAt"`
	BookingOpensAt  time.Time  `json:"bookingOpensAt"`
	BookingClosesAt *time.Time `json:"bookingClosesAt,omitempty"`
}

// Venue describes the physical location of an event.
type Venue struct {
	Name     string    `json:"name"`
	Address  string    `json:"address"`
	City     string    `json:"city"`
	Country  string    `json:"country"`
	Location *GeoPoint `json:"location,omitempty"`
}

type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Asset is an image or media reference hosted by the content source.
type Asset struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// SeatMap groups the priced zones of a venue.  Zone ids are unique within a
// map and the declared order matters: the first zone is the default one.
type SeatMap struct {
	ID          string     `json:"id"`
	Orientation string     `json:"orientation"`
	Zones       []SeatZone `json:"zones"`
}

// SeatZone is a named section of the seat map.  DistanceFactor is expected in
// [0,1] where 0 is closest to the stage.
type SeatZone struct {
	ID             string  `json:"id"`
	Label          string  `json:"label"`
	DistanceFactor float64 `json:"distanceFactor"`
	BasePrice      float64 `json:"basePrice"`
	Rows           int     `json:"rows"`
	Cols           int     `json:"cols"`
}
