package journal_test

import (
	"codeberg.org/miketth/layoutcast/pkg/journal"
	"codeberg.org/miketth/layoutcast/pkg/journal/memory"
	"codeberg.org/miketth/layoutcast/pkg/layout"
	"codeberg.org/miketth/layoutcast/pkg/provider"
	"context"
	"errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"testing"
	"time"
)

type failingStore struct{}

func (failingStore) Record(context.Context, journal.Entry) error {
	return errors.New("disk full")
}

func (failingStore) Recent(context.Context, int) ([]journal.Entry, error) {
	return nil, nil
}

func newRegistry(t *testing.T) layout.Registry {
	t.Helper()
	r, err := layout.NewRegistry("en", "ru", "de")
	require.NoError(t, err)
	return r
}

func TestRecorderRecordsLayoutFrames(t *testing.T) {
	store := memory.NewStore()
	rec := journal.NewRecorder(store, newRegistry(t), zaptest.NewLogger(t).Sugar())

	frames := make(chan []byte, 8)
	frames <- provider.LayoutFrame(1)
	frames <- []byte{42, 7}                 // other provider
	frames <- []byte{byte(provider.Layout)} // malformed
	frames <- provider.LayoutFrame(9)       // outside registry
	frames <- nil
	frames <- provider.LayoutFrame(2)
	close(frames)

	require.NoError(t, rec.Run(context.Background(), frames))

	entries, err := store.Recent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, layout.LanguageTag("de"), entries[0].Layout)
	assert.Equal(t, byte(2), entries[0].Index)
	assert.Equal(t, layout.LanguageTag("ru"), entries[1].Layout)
	assert.False(t, entries[1].At.IsZero())
}

func TestRecorderStopsOnContext(t *testing.T) {
	rec := journal.NewRecorder(memory.NewStore(), newRegistry(t), zaptest.NewLogger(t).Sugar())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := rec.Run(ctx, make(chan []byte))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRecorderDrainsQueuedFramesOnCancel(t *testing.T) {
	for i := 0; i < 50; i++ {
		store := memory.NewStore()
		rec := journal.NewRecorder(store, newRegistry(t), zaptest.NewLogger(t).Sugar())

		frames := make(chan []byte, 3)
		frames <- provider.LayoutFrame(0)
		frames <- provider.LayoutFrame(1)
		frames <- provider.LayoutFrame(2)
		busClosed := i%2 == 1
		if busClosed {
			close(frames)
		}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := rec.Run(ctx, frames)
		if !busClosed {
			assert.ErrorIs(t, err, context.Canceled)
		}

		entries, err := store.Recent(context.Background(), 0)
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, layout.LanguageTag("de"), entries[0].Layout)
	}
}

func TestRecorderStoreFailure(t *testing.T) {
	rec := journal.NewRecorder(failingStore{}, newRegistry(t), zaptest.NewLogger(t).Sugar())

	frames := make(chan []byte, 1)
	frames <- provider.LayoutFrame(0)

	err := rec.Run(context.Background(), frames)
	assert.ErrorContains(t, err, "disk full")
}

func TestNewest(t *testing.T) {
	entries := []journal.Entry{{Index: 0}, {Index: 1}, {Index: 2}}

	assert.Equal(t, []journal.Entry{{Index: 2}, {Index: 1}}, journal.Newest(entries, 2))
	assert.Equal(t, []journal.Entry{{Index: 2}, {Index: 1}, {Index: 0}}, journal.Newest(entries, 0))
	assert.Equal(t, []journal.Entry{{Index: 2}, {Index: 1}, {Index: 0}}, journal.Newest(entries, 10))
	assert.Empty(t, journal.Newest(nil, 5))
}
