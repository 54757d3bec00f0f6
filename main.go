package main

import (
	"codeberg.org/miketth/layoutcast/internal/config"
	"codeberg.org/miketth/layoutcast/internal/logging"
	"codeberg.org/miketth/layoutcast/pkg/bus"
	"codeberg.org/miketth/layoutcast/pkg/bus/redisbridge"
	"codeberg.org/miketth/layoutcast/pkg/journal"
	jsonstore "codeberg.org/miketth/layoutcast/pkg/journal/json"
	"codeberg.org/miketth/layoutcast/pkg/journal/memory"
	"codeberg.org/miketth/layoutcast/pkg/journal/sqlite"
	"codeberg.org/miketth/layoutcast/pkg/layout/detect"
	"codeberg.org/miketth/layoutcast/pkg/layoutprovider"
	"context"
	"errors"
	"fmt"
	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"io"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

func main() {
	err := run()
	if err != nil {
		log.Fatalf("error: %+v", err)
	}
}

func run() error {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logging.New(cfg.Debug, "stdout")
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer log.Sync()

	ctx := context.Background()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	registry, err := cfg.Registry()
	if err != nil {
		return fmt.Errorf("build registry: %w", err)
	}

	detector, err := detect.New(detect.Options{EvdevXMLPath: cfg.EvdevXMLPath}, log)
	if err != nil {
		return fmt.Errorf("create detector: %w", err)
	}

	events := bus.New()
	defer events.Close()

	// bus consumers run until the bus is closed, background tasks until ctx
	// is cancelled
	errChan := make(chan error, 4)
	var consumers, background sync.WaitGroup
	consumerCtx := context.WithoutCancel(ctx)
	goWith := func(wg *sync.WaitGroup, ctx context.Context, name string, fn func(ctx context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(ctx); err != nil {
				errChan <- fmt.Errorf("%s: %w", name, err)
			}
		}()
	}
	spawn := func(name string, fn func(ctx context.Context) error) {
		goWith(&background, ctx, name, fn)
	}
	consume := func(name string, fn func(ctx context.Context) error) {
		goWith(&consumers, consumerCtx, name, fn)
	}

	store, err := openJournal(ctx, cfg, log, spawn)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	if store != nil {
		sub, err := events.Subscribe(cfg.BusBuffer)
		if err != nil {
			return fmt.Errorf("subscribe journal: %w", err)
		}
		recorder := journal.NewRecorder(store, registry, log)
		consume("journal", func(ctx context.Context) error {
			return recorder.Run(ctx, sub.C())
		})
	}

	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		defer rdb.Close()

		sub, err := events.Subscribe(cfg.BusBuffer)
		if err != nil {
			return fmt.Errorf("subscribe redis bridge: %w", err)
		}
		bridge := redisbridge.New(rdb, cfg.Redis.Channel, log)
		consume("redis bridge", func(ctx context.Context) error {
			return bridge.Run(ctx, sub.C())
		})
	}

	spawn("systemd notify", systemdNotifyLoop)

	layoutProvider := layoutprovider.New(layoutprovider.Config{
		Registry: registry,
		Interval: cfg.PollInterval,
	}, detector, events, log)
	if err := layoutProvider.Start(ctx); err != nil {
		return fmt.Errorf("start layout provider: %w", err)
	}

	log.Infow("started layoutcast", "layouts", registry.Tags())

	select {
	case <-ctx.Done():
		err = ctx.Err()
	case err = <-errChan:
	}

	shutdown(layoutProvider, events, &consumers, cancel, &background)

	if closer, ok := store.(io.Closer); ok {
		if cerr := closer.Close(); cerr != nil {
			log.Warnw("close journal failed", "error", cerr)
		}
	}

	switch {
	case errors.Is(err, context.Canceled):
		log.Info("shutting down")
		return nil
	case err != nil:
		return err
	}

	return nil
}

// shutdown stops the producer first so consumers can drain the bus before
// background tasks see cancellation.
func shutdown(
	p *layoutprovider.Provider,
	events *bus.Bus,
	consumers *sync.WaitGroup,
	cancel context.CancelFunc,
	background *sync.WaitGroup,
) {
	p.Stop()
	p.Wait()
	events.Close()
	consumers.Wait()
	cancel()
	background.Wait()
}

// openJournal returns a nil store when the journal is disabled. Background
// work the store needs is handed to spawn.
func openJournal(
	ctx context.Context,
	cfg *config.Config,
	log *zap.SugaredLogger,
	spawn func(string, func(context.Context) error),
) (journal.Store, error) {
	switch cfg.Journal.Kind {
	case config.JournalNone:
		return nil, nil
	case config.JournalMemory:
		return memory.NewStore(), nil
	}

	path, err := cfg.JournalFile()
	if err != nil {
		return nil, err
	}

	var store journal.Store
	switch cfg.Journal.Kind {
	case config.JournalJSON:
		s, err := jsonstore.NewStore(path)
		if err != nil {
			return nil, fmt.Errorf("json store: %w", err)
		}
		spawn("journal saver", s.SaveLooper)
		store = s
	default:
		s, err := sqlite.NewStore(path, log)
		if err != nil {
			return nil, fmt.Errorf("sqlite store: %w", err)
		}
		store = s
	}

	last, err := store.Recent(ctx, 1)
	if err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}
	if len(last) > 0 {
		log.Infow("last recorded layout", "layout", last[0].Layout, "at", last[0].At)
	}

	log.Infow("journal opened", "kind", cfg.Journal.Kind, "path", path)
	return store, nil
}

func systemdNotifyLoop(ctx context.Context) error {
	// tell systemd that we're ready
	supported, err := daemon.SdNotify(false, daemon.SdNotifyReady)
	if err != nil {
		return fmt.Errorf("notify systemd: %w", err)
	}
	if !supported {
		return nil
	}

	_, _ = daemon.SdNotify(false, "STATUS=Watching keyboard layouts")

	t, err := daemon.SdWatchdogEnabled(false)
	if err != nil {
		return fmt.Errorf("check watchdog: %w", err)
	}
	// if watchdog is not enabled, we don't need to notify it
	if t == 0 {
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			_, _ = daemon.SdNotify(false, daemon.SdNotifyStopping)
			return ctx.Err()

		case <-time.After(t / 2):
			_, err := daemon.SdNotify(false, daemon.SdNotifyWatchdog)
			if err != nil {
				return fmt.Errorf("notify watchdog: %w", err)
			}
		}
	}
}
