package content

import (
	"strings"

	"github.com/iliyamo/booksphere/internal/model"
)

// FilterEvents keeps events that carry at least one of interests (when any
// are given) and whose venue city or country contains location,
// case-insensitively (when given).
func FilterEvents(events []model.Event, interests []string, location string) []model.Event {
	location = strings.ToLower(strings.TrimSpace(location))
	out := make([]model.Event, 0, len(events))
	for _, e := range events {
		if len(interests) > 0 && !overlaps(e.Tags, interests) {
			continue
		}
		if location != "" &&
			!strings.Contains(strings.ToLower(e.Venue.Country), location) &&
			!strings.Contains(strings.ToLower(e.Venue.City), location) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Recommend returns the events matched by every rule whose interest tags
// overlap interests.  An event is matched when it carries one of the rule's
// event tags.  Order follows events; each event appears once.
func Recommend(events []model.Event, rules []model.RecommendationRule, interests []string) []model.Event {
	var wanted []string
	for _, r := range rules {
		if overlaps(r.InterestTags, interests) {
			wanted = append(wanted, r.EventTags...)
		}
	}
	out := make([]model.Event, 0)
	if len(wanted) == 0 {
		return out
	}
	for _, e := range events {
		if overlaps(e.Tags, wanted) {
			out = append(out, e)
		}
	}
	return out
}

// SplitList parses a comma separated query value, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func overlaps(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}
