// Package seatmap resolves seat zones within an event's seat map.
package seatmap

import (
	"errors"

	"github.com/iliyamo/booksphere/internal/model"
)

var ErrZoneNotFound = errors.New("seat zone not found")

// Resolve finds zoneID in the event's seat map.  There is no default zone
// here; callers that want one pick it themselves.
func Resolve(event model.Event, zoneID string) (model.SeatZone, error) {
	for _, z := range event.SeatMap.Zones {
		if z.ID == zoneID {
			return z, nil
		}
	}
	return model.SeatZone{}, ErrZoneNotFound
}
