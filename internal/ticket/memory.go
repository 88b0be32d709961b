package ticket

import (
	"context"
	"sync"

	"github.com/iliyamo/booksphere/internal/model"
)

// MemoryStore keeps tickets for the lifetime of the process.
type MemoryStore struct {
	mu      sync.RWMutex
	tickets map[string]model.Ticket
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tickets: make(map[string]model.Ticket)}
}

func (s *MemoryStore) Insert(_ context.Context, t model.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tickets[t.BookingID]; ok {
		return ErrDuplicate
	}
	s.tickets[t.BookingID] = t
	return nil
}

func (s *MemoryStore) Put(_ context.Context, t model.Ticket) error {
	s.mu.Lock()
	s.tickets[t.BookingID] = t
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Get(_ context.Context, bookingID string) (model.Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tickets[bookingID]
	if !ok {
		return model.Ticket{}, ErrNotFound
	}
	return t, nil
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tickets)
}
