// Package redisbridge mirrors bus frames onto a Redis pub/sub channel so
// that consumers outside this process can follow them.
package redisbridge

import (
	"context"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const DefaultChannel = "layoutcast:events"

type Bridge struct {
	rdb     *redis.Client
	channel string
	log     *zap.SugaredLogger
}

func New(rdb *redis.Client, channel string, log *zap.SugaredLogger) *Bridge {
	if channel == "" {
		channel = DefaultChannel
	}

	return &Bridge{
		rdb:     rdb,
		channel: channel,
		log:     log,
	}
}

// Run forwards frames until ctx is done or frames is closed. A failed
// publish is logged and the frame is lost; delivery is at most once.
func (b *Bridge) Run(ctx context.Context, frames <-chan []byte) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case frame, ok := <-frames:
			if !ok {
				return nil
			}
			if err := b.rdb.Publish(ctx, b.channel, frame).Err(); err != nil {
				b.log.Warnw("publish frame to redis failed", "channel", b.channel, "error", err)
			}
		}
	}
}
