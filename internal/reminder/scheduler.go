// Package reminder keeps per-user event preferences and derives the times
// at which booking reminders fire.
package reminder

import (
	"slices"
	"sync"
	"time"

	"github.com/iliyamo/booksphere/internal/model"
)

// DefaultOffsets are the minutes before start at which reminders fire.
var DefaultOffsets = []int{60, 5, 3, 2}

// Scheduler is safe for concurrent use.
type Scheduler struct {
	offsets []int

	mu    sync.Mutex
	prefs map[string][]string
}

type Option func(*Scheduler)

// WithOffsets replaces the reminder offsets.  Order is kept as given.
func WithOffsets(minutes ...int) Option {
	return func(s *Scheduler) {
		s.offsets = slices.Clone(minutes)
	}
}

func NewScheduler(opts ...Option) *Scheduler {
	s := &Scheduler{offsets: slices.Clone(DefaultOffsets), prefs: make(map[string][]string)}
	for _, o := range opts {
		o(s)
	}
	return s
}

// AddPreference records that userID wants reminders for eventID.  Adding
// the same pair twice is a no-op.
func (s *Scheduler) AddPreference(userID, eventID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if slices.Contains(s.prefs[userID], eventID) {
		return
	}
	s.prefs[userID] = append(s.prefs[userID], eventID)
}

// Preferences returns the event ids userID subscribed to, oldest first.
func (s *Scheduler) Preferences(userID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.prefs[userID])
}

// Schedule returns one reminder per offset, in offset order.  Times in the
// past are returned as well; callers decide what to do with them.
func (s *Scheduler) Schedule(start time.Time) []model.Reminder {
	out := make([]model.Reminder, 0, len(s.offsets))
	for _, m := range s.offsets {
		out = append(out, model.Reminder{
			At:            start.Add(-time.Duration(m) * time.Minute),
			MinutesBefore: m,
		})
	}
	return out
}
