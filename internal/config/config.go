// Package config provides configuration management for orbitview.
//
// The config file holds server wiring and visual tuning. Node data lives
// in the repository and is never written here.
//
// Config file locations (priority order):
//  1. $ORBITVIEW_CONFIG
//  2. ./orbitview.yaml, then ./orbitview.toml
//  3. $XDG_CONFIG_HOME/orbitview/config.yaml
//  4. ~/.config/orbitview/config.yaml
//  5. /etc/orbitview/config.yaml
//
// Files ending in .toml are read as TOML, everything else as YAML.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"orbitview/internal/domain"
)

const (
	defaultAddr      = ":3000"
	defaultDBPath    = "./orbitview.db"
	defaultFrameRate = 60
	defaultSubject   = "orbitview"
	defaultIdle      = 10 * time.Minute
)

// Environment overrides applied after the file is loaded
const (
	EnvAddr    = "ORBITVIEW_ADDR"
	EnvDBPath  = "ORBITVIEW_DB"
	EnvNATSURL = "ORBITVIEW_NATS_URL"
)

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		cfg := DefaultConfig()
		cfg.applyEnv()
		return cfg, "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if isTOML(path) {
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, path, fmt.Errorf("parse config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()

	return &cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	var data []byte
	if isTOML(path) {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(c); err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
		data = buf.Bytes()
	} else {
		var err error
		if data, err = yaml.Marshal(c); err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}
	}

	return os.WriteFile(path, data, 0644)
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Server.Addr == "" {
		c.Server.Addr = defaultAddr
	}
	if c.Server.FrameRate <= 0 {
		c.Server.FrameRate = defaultFrameRate
	}
	if c.Server.SessionIdle <= 0 {
		c.Server.SessionIdle = Duration(defaultIdle)
	}
	if c.Database.Path == "" {
		c.Database.Path = defaultDBPath
	}
	if c.Events.Subject == "" {
		c.Events.Subject = defaultSubject
	}
	if c.Selection.ToggleOff == nil {
		on := true
		c.Selection.ToggleOff = &on
	}
}

// applyEnv lets the environment override file values
func (c *Config) applyEnv() {
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(EnvDBPath); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv(EnvNATSURL); v != "" {
		c.Events.NATSURL = v
	}
}

// ToggleOff reports whether reselecting the active theme deactivates it
func (c *Config) ToggleOff() bool {
	return c.Selection.ToggleOff == nil || *c.Selection.ToggleOff
}

// EffectiveProfile returns the device profile with overrides applied
func (c *Config) EffectiveProfile(device domain.DeviceClass) Profile {
	base := ProfileFor(device)

	if c.Visual == nil {
		return base
	}

	if device.IsMobile() {
		return c.Visual.Mobile.apply(base)
	}
	return c.Visual.Desktop.apply(base)
}

// FrameInterval is the simulation step period
func (c *Config) FrameInterval() time.Duration {
	if c.Server.FrameRate <= 0 {
		return time.Second / defaultFrameRate
	}
	return time.Second / time.Duration(c.Server.FrameRate)
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	desktop := c.EffectiveProfile(domain.DeviceDesktop)
	mobile := c.EffectiveProfile(domain.DeviceMobile)

	summary := fmt.Sprintf("Addr: %s, Frame rate: %d, DB: %s\n", c.Server.Addr, c.Server.FrameRate, c.Database.Path)
	summary += fmt.Sprintf("Orbit radius: %s desktop / %s mobile\n",
		strconv.FormatFloat(desktop.OrbitRadius, 'f', -1, 64),
		strconv.FormatFloat(mobile.OrbitRadius, 'f', -1, 64))
	summary += fmt.Sprintf("Toggle-off on reselect: %v", c.ToggleOff())
	if c.Events.NATSURL != "" {
		summary += fmt.Sprintf("\nPublishing selections to %s (%s.>)", c.Events.NATSURL, c.Events.Subject)
	}

	return summary
}
