// Package layoutprovider polls a layout.Detector and publishes a layout frame
// on the bus every time the active keyboard layout changes.
package layoutprovider

import (
	"codeberg.org/miketth/layoutcast/pkg/layout"
	"codeberg.org/miketth/layoutcast/pkg/provider"
	"context"
	"go.uber.org/zap"
	"sync"
	"sync/atomic"
	"time"
)

const DefaultInterval = 100 * time.Millisecond

// Publisher is the outbound side of the event bus.
type Publisher interface {
	Publish(frame []byte) error
}

type Config struct {
	Registry layout.Registry
	// Interval between detections. Zero means DefaultInterval.
	Interval time.Duration
}

type Provider struct {
	detector  layout.Detector
	publisher Publisher
	registry  layout.Registry
	interval  time.Duration
	log       *zap.SugaredLogger

	running atomic.Bool
	wg      sync.WaitGroup

	mu     sync.Mutex
	cancel context.CancelFunc
	gen    uint64
}

var _ provider.Provider = (*Provider)(nil)

func New(
	cfg Config,
	detector layout.Detector,
	publisher Publisher,
	log *zap.SugaredLogger,
) *Provider {
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	return &Provider{
		detector:  detector,
		publisher: publisher,
		registry:  cfg.Registry,
		interval:  interval,
		log:       log,
	}
}

// Start spawns the polling goroutine and returns immediately. The goroutine
// runs until Stop is called or ctx is cancelled.
func (p *Provider) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running.CompareAndSwap(false, true) {
		return provider.ErrAlreadyRunning
	}

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.gen++

	p.log.Info("layout provider started")
	p.wg.Add(1)
	go p.poll(runCtx, p.gen, newTracker(p.registry))

	return nil
}

// Stop asks the polling goroutine to exit. It does not wait for it.
func (p *Provider) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running.CompareAndSwap(true, false) {
		return
	}

	p.cancel()
	p.cancel = nil
}

func (p *Provider) Running() bool {
	return p.running.Load()
}

// Wait blocks until every polling goroutine started so far has exited.
func (p *Provider) Wait() {
	p.wg.Wait()
}

func (p *Provider) poll(ctx context.Context, gen uint64, t *tracker) {
	defer p.wg.Done()
	defer p.finish(gen)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		// both cases may have been ready at once
		if ctx.Err() != nil {
			return
		}

		p.syncOnce(t)
	}
}

func (p *Provider) syncOnce(t *tracker) {
	tag, ok := p.detector.DetectActiveLayout()
	if !ok {
		return
	}

	idx, changed, known := t.observe(tag)
	if !changed {
		return
	}

	p.log.Infow("synced layout", "layout", tag)
	if !known {
		p.log.Debugw("layout not in registry, nothing published", "layout", tag)
		return
	}

	if err := p.publisher.Publish(provider.LayoutFrame(idx)); err != nil {
		p.log.Warnw("publish layout event failed", "layout", tag, "index", idx, "error", err)
	}
}

// finish runs when a polling goroutine exits. If the exit was caused by the
// parent context rather than Stop, the provider is marked stopped so that it
// can be started again.
func (p *Provider) finish(gen uint64) {
	p.mu.Lock()
	if p.gen == gen && p.cancel != nil {
		p.cancel()
		p.cancel = nil
		p.running.Store(false)
	}
	p.mu.Unlock()

	p.log.Info("layout provider stopped")
}
