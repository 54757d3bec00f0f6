package redisbridge

import (
	"codeberg.org/miketth/layoutcast/pkg/provider"
	"context"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
	"testing"
	"time"
)

func TestBridgeForwardsFrames(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	pubsub := rdb.Subscribe(ctx, DefaultChannel)
	t.Cleanup(func() { pubsub.Close() })
	_, err := pubsub.Receive(ctx)
	require.NoError(t, err)

	frames := make(chan []byte, 2)
	frames <- provider.LayoutFrame(1)
	frames <- provider.LayoutFrame(2)
	close(frames)

	require.NoError(t, New(rdb, "", zaptest.NewLogger(t).Sugar()).Run(ctx, frames))

	for _, want := range [][]byte{provider.LayoutFrame(1), provider.LayoutFrame(2)} {
		select {
		case msg := <-pubsub.Channel():
			assert.Equal(t, DefaultChannel, msg.Channel)
			assert.Equal(t, string(want), msg.Payload)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for redis message")
		}
	}
}

func TestBridgeSurvivesPublishFailure(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { rdb.Close() })
	mr.Close()

	frames := make(chan []byte, 1)
	frames <- provider.LayoutFrame(0)
	close(frames)

	require.NoError(t, New(rdb, "custom", zap.New(core).Sugar()).Run(context.Background(), frames))
	assert.Equal(t, 1, logs.FilterMessage("publish frame to redis failed").Len())
}

func TestBridgeStopsOnContext(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New(rdb, "", zaptest.NewLogger(t).Sugar()).Run(ctx, make(chan []byte))
	assert.ErrorIs(t, err, context.Canceled)
}
