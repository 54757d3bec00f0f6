// Package provider defines the contract shared by every data source that
// feeds the event bus, and the frame layout they publish.
package provider

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrAlreadyRunning = errors.New("provider already running")
	ErrShortFrame     = errors.New("frame too short")
	ErrLongFrame      = errors.New("frame too long")
	ErrUnexpectedKind = errors.New("unexpected event kind")
)

// Provider is a background data source with a start/stop lifecycle.
// Start must not block; Stop only requests the provider to wind down.
type Provider interface {
	Start(ctx context.Context) error
	Stop()
}

// DataType is the first byte of every frame on the bus and tells consumers
// which provider produced it.
type DataType byte

const (
	Unknown DataType = iota
	Layout
)

func (d DataType) String() string {
	switch d {
	case Layout:
		return "layout"
	}
	return fmt.Sprintf("unknown(%d)", byte(d))
}

// LayoutFrame encodes a layout change: [Layout, index].
func LayoutFrame(idx byte) []byte {
	return []byte{byte(Layout), idx}
}

// Kind returns the DataType of a frame.
func Kind(frame []byte) (DataType, error) {
	if len(frame) == 0 {
		return Unknown, ErrShortFrame
	}
	return DataType(frame[0]), nil
}

// ParseLayoutFrame returns the registry index carried by a layout frame.
func ParseLayoutFrame(frame []byte) (byte, error) {
	kind, err := Kind(frame)
	if err != nil {
		return 0, err
	}
	if kind != Layout {
		return 0, fmt.Errorf("%s: %w", kind, ErrUnexpectedKind)
	}
	switch {
	case len(frame) < 2:
		return 0, fmt.Errorf("layout frame of %d bytes: %w", len(frame), ErrShortFrame)
	case len(frame) > 2:
		return 0, fmt.Errorf("layout frame of %d bytes: %w", len(frame), ErrLongFrame)
	}

	return frame[1], nil
}
