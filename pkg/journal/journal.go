// Package journal keeps a history of layout transitions seen on the bus.
package journal

import (
	"codeberg.org/miketth/layoutcast/pkg/layout"
	"codeberg.org/miketth/layoutcast/pkg/provider"
	"context"
	"fmt"
	"go.uber.org/zap"
	"time"
)

type Entry struct {
	At     time.Time          `json:"at"`
	Index  byte               `json:"index"`
	Layout layout.LanguageTag `json:"layout"`
}

type Store interface {
	Record(ctx context.Context, entry Entry) error
	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]Entry, error)
}

// Recorder turns layout frames back into entries and stores them.
type Recorder struct {
	store    Store
	registry layout.Registry
	log      *zap.SugaredLogger
	now      func() time.Time
}

func NewRecorder(store Store, registry layout.Registry, log *zap.SugaredLogger) *Recorder {
	return &Recorder{
		store:    store,
		registry: registry,
		log:      log,
		now:      time.Now,
	}
}

// Run consumes frames until ctx is done or frames is closed. Frames of
// other kinds are skipped. Frames already queued when ctx is done are still
// recorded before Run returns.
func (r *Recorder) Run(ctx context.Context, frames <-chan []byte) error {
	storeCtx := context.WithoutCancel(ctx)

	for {
		select {
		case <-ctx.Done():
			if err := r.drain(storeCtx, frames); err != nil {
				return err
			}
			return ctx.Err()
		case frame, ok := <-frames:
			if !ok {
				return nil
			}
			if err := r.processFrame(storeCtx, frame); err != nil {
				return fmt.Errorf("process frame: %w", err)
			}
		}
	}
}

func (r *Recorder) drain(ctx context.Context, frames <-chan []byte) error {
	for {
		select {
		case frame, ok := <-frames:
			if !ok {
				return nil
			}
			if err := r.processFrame(ctx, frame); err != nil {
				return fmt.Errorf("process frame: %w", err)
			}
		default:
			return nil
		}
	}
}

func (r *Recorder) processFrame(ctx context.Context, frame []byte) error {
	kind, err := provider.Kind(frame)
	if err != nil || kind != provider.Layout {
		return nil
	}

	idx, err := provider.ParseLayoutFrame(frame)
	if err != nil {
		r.log.Warnw("malformed layout frame", "frame", frame, "error", err)
		return nil
	}

	tag, ok := r.registry.Tag(idx)
	if !ok {
		r.log.Warnw("layout index outside registry", "index", idx)
		return nil
	}

	entry := Entry{At: r.now(), Index: idx, Layout: tag}
	if err := r.store.Record(ctx, entry); err != nil {
		return fmt.Errorf("record entry: %w", err)
	}

	return nil
}
