package memory

import (
	"codeberg.org/miketth/layoutcast/pkg/journal"
	"context"
	"sync"
)

type Store struct {
	entries []journal.Entry
	lock    sync.Mutex
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Record(_ context.Context, entry journal.Entry) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.entries = append(s.entries, entry)
	return nil
}

func (s *Store) Recent(_ context.Context, limit int) ([]journal.Entry, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	return journal.Newest(s.entries, limit), nil
}
