// Package config loads project settings for chartaxis from chartaxis.yml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreKuzu   = "kuzu"
)

// Settle delay bounds. The drop animation is never shorter than 90ms or
// longer than 300ms.
const (
	MinSettleDelay     = 90 * time.Millisecond
	MaxSettleDelay     = 300 * time.Millisecond
	DefaultSettleDelay = 150 * time.Millisecond
)

// Duration is a time.Duration read from a yaml string such as "150ms".
type Duration time.Duration

// UnmarshalYAML accepts a Go duration string or a bare integer of
// milliseconds.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var ms int64
	if err := node.Decode(&ms); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("config: settleDelay: %w", err)
	}
	*d = Duration(v)
	return nil
}

// Duration returns d as a time.Duration.
func (d Duration) Duration() time.Duration { return time.Duration(d) }

// MarshalYAML writes the duration as a Go duration string.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// ProjectConfig holds project-level settings loaded from chartaxis.yml.
type ProjectConfig struct {
	ListenAddr    string   `yaml:"listenAddr,omitempty"`
	MCPAddr       string   `yaml:"mcpAddr,omitempty"`
	Store         string   `yaml:"store,omitempty"`
	StorePath     string   `yaml:"storePath,omitempty"`
	SettleDelay   Duration `yaml:"settleDelay,omitempty"`
	SyncDispatch  bool     `yaml:"syncDispatch,omitempty"`
	WatchDebounce Duration `yaml:"watchDebounce,omitempty"`
	Verbose       bool     `yaml:"verbose,omitempty"`
}

// ErrUnknownStore is returned by Validate for an unsupported store backend.
var ErrUnknownStore = errors.New("unknown store backend")

// Default returns the settings used when no file exists.
func Default() *ProjectConfig {
	return &ProjectConfig{
		ListenAddr:    "127.0.0.1:7878",
		Store:         StoreFile,
		StorePath:     "charts",
		SettleDelay:   Duration(DefaultSettleDelay),
		WatchDebounce: Duration(100 * time.Millisecond),
	}
}

// Load attempts to read chartaxis.yml or chartaxis.yaml from the given
// directory. Values present in the file override Default(); a missing file
// is not an error. A relative storePath is resolved against dir.
func Load(dir string) (*ProjectConfig, error) {
	cfg := Default()
	for _, name := range []string{"chartaxis.yml", "chartaxis.yaml"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
		break
	}
	if cfg.StorePath != "" && !filepath.IsAbs(cfg.StorePath) {
		cfg.StorePath = filepath.Join(dir, cfg.StorePath)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects unknown stores and clamps the settle delay into
// [MinSettleDelay, MaxSettleDelay]. A zero delay means the default.
func (c *ProjectConfig) Validate() error {
	switch c.Store {
	case "":
		c.Store = StoreFile
	case StoreMemory, StoreFile, StoreKuzu:
	default:
		return fmt.Errorf("config: store %q: %w", c.Store, ErrUnknownStore)
	}
	switch d := time.Duration(c.SettleDelay); {
	case d == 0:
		c.SettleDelay = Duration(DefaultSettleDelay)
	case d < MinSettleDelay:
		c.SettleDelay = Duration(MinSettleDelay)
	case d > MaxSettleDelay:
		c.SettleDelay = Duration(MaxSettleDelay)
	}
	if c.WatchDebounce <= 0 {
		c.WatchDebounce = Duration(100 * time.Millisecond)
	}
	return nil
}

// Settle returns the validated settle delay.
func (c *ProjectConfig) Settle() time.Duration {
	return c.SettleDelay.Duration()
}
