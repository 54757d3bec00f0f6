package json

import (
	"codeberg.org/miketth/layoutcast/pkg/journal"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

const (
	// MaxEntries bounds the file; older transitions are dropped first.
	MaxEntries    = 1000
	flushInterval = time.Minute
)

type Store struct {
	entries []journal.Entry
	file    *os.File
	lock    sync.Mutex
	dirty   bool

	closeOnce sync.Once
	closeErr  error
}

func NewStore(filename string) (*Store, error) {
	fileExists := true
	info, err := os.Stat(filename)
	if os.IsNotExist(err) || (err == nil && info.Size() == 0) {
		fileExists = false
	}

	file, err := os.OpenFile(filename, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}

	store := &Store{
		file:  file,
		dirty: true,
	}

	if fileExists {
		err = store.load()
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("load: %w", err)
		}

		store.dirty = false
	}

	return store, nil
}

// Close flushes pending entries and closes the file. Calls after the first
// return the first result.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		flushErr := s.Flush()
		err := s.file.Close()
		switch {
		case flushErr != nil:
			s.closeErr = fmt.Errorf("flush: %w", flushErr)
		case err != nil:
			s.closeErr = fmt.Errorf("close file: %w", err)
		}
	})
	return s.closeErr
}

func (s *Store) load() error {
	s.lock.Lock()
	defer s.lock.Unlock()
	_, err := s.file.Seek(0, 0)
	if err != nil {
		return fmt.Errorf("seek to start of file: %w", err)
	}

	dec := json.NewDecoder(s.file)
	err = dec.Decode(&s.entries)
	if err != nil {
		return fmt.Errorf("decode json: %w", err)
	}

	return nil
}

// Flush writes pending entries to disk.
func (s *Store) Flush() error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if !s.dirty {
		return nil
	}

	_, err := s.file.Seek(0, 0)
	if err != nil {
		return fmt.Errorf("seek to start of file: %w", err)
	}

	err = s.file.Truncate(0)
	if err != nil {
		return fmt.Errorf("truncate file: %w", err)
	}

	enc := json.NewEncoder(s.file)
	err = enc.Encode(s.entries)
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}

	s.dirty = false

	return nil
}

// SaveLooper flushes periodically and once more when ctx is done. The file
// stays open until Close.
func (s *Store) SaveLooper(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			err := s.Flush()
			if err != nil {
				return fmt.Errorf("save: %w", err)
			}

			return ctx.Err()
		case <-time.After(flushInterval):
			err := s.Flush()
			if err != nil {
				return fmt.Errorf("save: %w", err)
			}
		}
	}
}

func (s *Store) Record(_ context.Context, entry journal.Entry) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.entries = append(s.entries, entry)
	if len(s.entries) > MaxEntries {
		s.entries = append([]journal.Entry(nil), s.entries[len(s.entries)-MaxEntries:]...)
	}
	s.dirty = true
	return nil
}

func (s *Store) Recent(_ context.Context, limit int) ([]journal.Entry, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	return journal.Newest(s.entries, limit), nil
}
