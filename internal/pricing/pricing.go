// Package pricing computes seat zone prices and booking totals.  Prices are
// whole currency units.  Rounding is half away from zero (math.Round), which
// matches the usual round-half-up for every non-negative amount.
package pricing

import (
	"math"

	"github.com/iliyamo/booksphere/internal/model"
)

const (
	// MinZonePrice is the floor applied to every zone price.
	MinZonePrice = 10
	// DistanceWeight scales how strongly distance moves the price.
	DistanceWeight = 0.4
)

// ZonePrice prices one seat in zone.  The distance factor is used as given,
// without clamping; only the result is floored at MinZonePrice.
func ZonePrice(event model.Event, zone model.SeatZone) int64 {
	var p float64
	if event.PriceCurve == model.DecreaseWithDistance {
		p = zone.BasePrice * (1 - zone.DistanceFactor*DistanceWeight)
	} else {
		p = zone.BasePrice * (1 + zone.DistanceFactor*DistanceWeight)
	}
	return max(MinZonePrice, int64(math.Round(p)))
}

// Total prices tickets seats in zone and applies discountPercent when it is
// positive.  The discounted total never goes below zero.
func Total(event model.Event, zone model.SeatZone, tickets int, discountPercent float64) int64 {
	subtotal := ZonePrice(event, zone) * int64(tickets)
	if discountPercent > 0 {
		return max(0, int64(math.Round(float64(subtotal)*(1-discountPercent/100))))
	}
	return subtotal
}
