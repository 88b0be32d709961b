package seatmap

import (
	"errors"
	"testing"

	"github.com/iliyamo/booksphere/internal/model"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	ev := model.Event{SeatMap: model.SeatMap{Zones: []model.SeatZone{
		{ID: "vip", Label: "VIP"},
		{ID: "gold", Label: "Gold"},
	}}}

	z, err := Resolve(ev, "gold")
	if err != nil || z.Label != "Gold" {
		t.Fatalf("expected gold zone, got %+v err=%v", z, err)
	}
	if _, err := Resolve(ev, "pit"); !errors.Is(err, ErrZoneNotFound) {
		t.Fatalf("expected ErrZoneNotFound, got %v", err)
	}
	if _, err := Resolve(ev, ""); !errors.Is(err, ErrZoneNotFound) {
		t.Fatalf("empty id must not default to a zone, got %v", err)
	}
}
