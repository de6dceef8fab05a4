package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog/log"

	"cotsync/internal/domain"
)

type Config struct {
	App struct {
		SyncIntervalMin int `toml:"sync_interval_min"`
		FetchDelaySec   int `toml:"fetch_delay_sec"`
	} `toml:"app"`

	Provider struct {
		BaseURL    string `toml:"base_url"`
		APIKey     string `toml:"api_key"`
		TimeoutSec int    `toml:"timeout_sec"`
	} `toml:"provider"`

	Storage struct {
		Backend string `toml:"backend"` // memory | sqlite | postgres
		Path    string `toml:"path"`    // sqlite file
		DSN     string `toml:"dsn"`     // postgres
	} `toml:"storage"`

	Redis struct {
		Enabled bool   `toml:"enabled"`
		Addr    string `toml:"addr"`
		Prefix  string `toml:"prefix"`
		Stream  string `toml:"stream"`
	} `toml:"redis"`

	Log struct {
		Level string `toml:"level"`
		File  string `toml:"file"` // rotating log file, empty = console only
	} `toml:"log"`

	Instruments []InstrumentConfig `toml:"instruments"`
}

type InstrumentConfig struct {
	Name        string `toml:"name"`
	Code        string `toml:"code"`
	DisplayName string `toml:"display_name"`
}

func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.App.SyncIntervalMin <= 0 {
		cfg.App.SyncIntervalMin = 1440 // daily
	}
	if cfg.App.FetchDelaySec <= 0 {
		cfg.App.FetchDelaySec = 2
	}
	if cfg.Provider.TimeoutSec <= 0 {
		cfg.Provider.TimeoutSec = 10
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = "sqlite"
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = "data/cotsync.db"
	}
	if cfg.Redis.Prefix == "" {
		cfg.Redis.Prefix = "cotsync"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

func validate(cfg *Config) error {
	if strings.TrimSpace(cfg.Provider.BaseURL) == "" {
		return errors.New("provider.base_url is empty")
	}

	switch cfg.Storage.Backend {
	case "memory", "sqlite":
	case "postgres":
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return errors.New("storage.dsn empty but backend is postgres")
		}
	default:
		return fmt.Errorf("unknown storage.backend %q", cfg.Storage.Backend)
	}

	if cfg.Redis.Enabled && strings.TrimSpace(cfg.Redis.Addr) == "" {
		return errors.New("redis.addr empty but redis enabled")
	}

	cfg.Instruments = normalizeInstruments(cfg.Instruments)
	if len(cfg.Instruments) == 0 {
		return errors.New("instruments list is empty")
	}
	return nil
}

// normalizeInstruments trims entries and drops blanks and duplicate names,
// keeping first occurrence order.
func normalizeInstruments(in []InstrumentConfig) []InstrumentConfig {
	out := make([]InstrumentConfig, 0, len(in))
	seen := map[string]struct{}{}
	for _, ic := range in {
		ic.Name = strings.ToUpper(strings.TrimSpace(ic.Name))
		ic.Code = strings.TrimSpace(ic.Code)
		if ic.Name == "" || ic.Code == "" {
			continue
		}
		if _, ok := seen[ic.Name]; ok {
			log.Warn().Str("instrument", ic.Name).Msg("duplicate instrument ignored")
			continue
		}
		seen[ic.Name] = struct{}{}
		out = append(out, ic)
	}
	return out
}

// Registry builds the instrument registry handed to the syncer.
func (c *Config) Registry() *domain.Registry {
	r := domain.NewRegistry()
	for _, ic := range c.Instruments {
		r.Register(domain.Instrument{
			Name:        ic.Name,
			Code:        ic.Code,
			DisplayName: ic.DisplayName,
		})
	}
	return r
}

// SyncInterval returns the cycle interval as a duration.
func (c *Config) SyncInterval() time.Duration {
	return time.Duration(c.App.SyncIntervalMin) * time.Minute
}

// FetchDelay returns the inter-instrument politeness delay.
func (c *Config) FetchDelay() time.Duration {
	return time.Duration(c.App.FetchDelaySec) * time.Second
}

// ProviderTimeout returns the per-fetch HTTP timeout.
func (c *Config) ProviderTimeout() time.Duration {
	return time.Duration(c.Provider.TimeoutSec) * time.Second
}
