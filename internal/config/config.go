package config

import (
	"codeberg.org/miketth/layoutcast/pkg/layout"
	"errors"
	"flag"
	"fmt"
	"github.com/adrg/xdg"
	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
	"strings"
	"time"
)

const (
	JournalSQLite = "sqlite"
	JournalJSON   = "json"
	JournalMemory = "memory"
	JournalNone   = "none"
)

var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	Debug bool `env:"LAYOUTCAST_DEBUG"`

	// Layouts is the ordered registry; a layout's position is its wire index.
	Layouts      []string      `env:"LAYOUTCAST_LAYOUTS" envSeparator:";"`
	PollInterval time.Duration `env:"LAYOUTCAST_POLL_INTERVAL"`

	// BusBuffer is the number of frames buffered per bus subscriber.
	BusBuffer    int    `env:"LAYOUTCAST_BUS_BUFFER"`
	EvdevXMLPath string `env:"LAYOUTCAST_EVDEV_XML"`

	Journal JournalConfig
	Redis   RedisConfig
}

type JournalConfig struct {
	Kind string `env:"LAYOUTCAST_JOURNAL"` // sqlite|json|memory|none
	Path string `env:"LAYOUTCAST_JOURNAL_PATH"`
}

// RedisConfig enables the redis bridge when Addr is set.
type RedisConfig struct {
	Addr    string `env:"LAYOUTCAST_REDIS_ADDR"`
	Channel string `env:"LAYOUTCAST_REDIS_CHANNEL"`
}

func Defaults() *Config {
	return &Config{
		Layouts:      []string{"en", "ru"},
		PollInterval: 100 * time.Millisecond,
		BusBuffer:    16,
		EvdevXMLPath: "/usr/share/X11/xkb/rules/evdev.xml",
		Journal: JournalConfig{
			Kind: JournalSQLite,
		},
		Redis: RedisConfig{
			Channel: "layoutcast:events",
		},
	}
}

// Load builds the configuration from defaults, a .env file, the environment
// and finally the command line, each overriding the previous one.
func Load(args []string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Defaults()
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	fs := flag.NewFlagSet("layoutcast", flag.ContinueOnError)
	layoutsFlag := strings.Join(cfg.Layouts, ";")
	fs.StringVar(&layoutsFlag, "layouts", layoutsFlag, "recognized layouts in wire order, separated by ';'")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "enable debug logging")
	fs.DurationVar(&cfg.PollInterval, "poll-interval", cfg.PollInterval, "time between layout detections")
	fs.IntVar(&cfg.BusBuffer, "bus-buffer", cfg.BusBuffer, "frames buffered per bus subscriber")
	fs.StringVar(&cfg.EvdevXMLPath, "evdev-xml-path", cfg.EvdevXMLPath, "path to evdev.xml")
	fs.StringVar(&cfg.Journal.Kind, "journal", cfg.Journal.Kind, "layout journal backend: sqlite|json|memory|none")
	fs.StringVar(&cfg.Journal.Path, "journal-path", cfg.Journal.Path, "layout journal file (default under XDG_DATA_HOME)")
	fs.StringVar(&cfg.Redis.Addr, "redis-addr", cfg.Redis.Addr, "mirror events to this redis server")
	fs.StringVar(&cfg.Redis.Channel, "redis-channel", cfg.Redis.Channel, "redis pub/sub channel for mirrored events")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	cfg.Layouts = parseListFlag(layoutsFlag)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := c.Registry(); err != nil {
		return fmt.Errorf("%w: layouts: %w", ErrInvalid, err)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("%w: poll interval must be positive, got %s", ErrInvalid, c.PollInterval)
	}
	if c.BusBuffer < 1 {
		return fmt.Errorf("%w: bus buffer must be at least 1, got %d", ErrInvalid, c.BusBuffer)
	}

	switch c.Journal.Kind {
	case JournalSQLite, JournalJSON, JournalMemory, JournalNone:
	default:
		return fmt.Errorf("%w: unknown journal %q", ErrInvalid, c.Journal.Kind)
	}

	return nil
}

func (c *Config) Registry() (layout.Registry, error) {
	return layout.ParseRegistry(c.Layouts)
}

// JournalFile returns the journal path, creating the XDG data directory
// when no explicit path is configured.
func (c *Config) JournalFile() (string, error) {
	if c.Journal.Path != "" {
		return c.Journal.Path, nil
	}

	name := "layoutcast/journal.db"
	if c.Journal.Kind == JournalJSON {
		name = "layoutcast/journal.json"
	}

	path, err := xdg.DataFile(name)
	if err != nil {
		return "", fmt.Errorf("resolve data file: %w", err)
	}

	return path, nil
}

// parseListFlag splits a ';' separated value, dropping blanks.
func parseListFlag(v string) []string {
	parts := strings.Split(v, ";")
	cleaned := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			cleaned = append(cleaned, p)
		}
	}
	return cleaned
}
