// Package bus is the in-process broadcast channel providers publish frames
// into. Every subscriber gets its own copy of the stream; a subscriber whose
// buffer is full misses frames instead of blocking the publisher.
package bus

import (
	"errors"
	"fmt"
	"sync"
)

var (
	ErrNoSubscribers = errors.New("no subscribers")
	ErrClosed        = errors.New("bus closed")
)

// LaggedError is returned by Publish when some subscribers had no room for
// the frame. The frame was still delivered to everyone else.
type LaggedError struct {
	Dropped int
}

func (e *LaggedError) Error() string {
	return fmt.Sprintf("frame dropped for %d lagging subscriber(s)", e.Dropped)
}

type Bus struct {
	mu     sync.RWMutex
	subs   map[*Subscription]struct{}
	closed bool
}

func New() *Bus {
	return &Bus{
		subs: make(map[*Subscription]struct{}),
	}
}

type Subscription struct {
	bus    *Bus
	ch     chan []byte
	closed bool
}

// Subscribe registers a new receiver with room for buffer frames.
func (b *Bus) Subscribe(buffer int) (*Subscription, error) {
	if buffer < 1 {
		buffer = 1
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrClosed
	}

	sub := &Subscription{bus: b, ch: make(chan []byte, buffer)}
	b.subs[sub] = struct{}{}
	return sub, nil
}

// C delivers frames. It is closed when the subscription or the bus is closed.
// Frames are shared between subscribers and must not be modified.
func (s *Subscription) C() <-chan []byte {
	return s.ch
}

func (s *Subscription) Close() {
	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	delete(s.bus.subs, s)
	close(s.ch)
}

// Publish hands frame to every subscriber without blocking.
func (b *Bus) Publish(frame []byte) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return ErrClosed
	}
	if len(b.subs) == 0 {
		return ErrNoSubscribers
	}

	data := append([]byte(nil), frame...)
	dropped := 0
	for sub := range b.subs {
		select {
		case sub.ch <- data:
		default:
			dropped++
		}
	}

	if dropped > 0 {
		return &LaggedError{Dropped: dropped}
	}
	return nil
}

func (b *Bus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close ends every subscription. Further publishes fail with ErrClosed.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for sub := range b.subs {
		sub.closed = true
		close(sub.ch)
	}
	b.subs = make(map[*Subscription]struct{})
}
