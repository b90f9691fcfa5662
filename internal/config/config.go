package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"

	"assetgrip/internal/eventbus"
)

// FileName is the config file inside the assetgrip config directory
const FileName = "config.toml"

// Config represents the application configuration
type Config struct {
	Version int             `toml:"version"`
	Backend BackendSettings `toml:"backend"`
	Browse  BrowseSettings  `toml:"browse"`
	Log     LogSettings     `toml:"log"`
}

// BackendSettings selects the asset backend
type BackendSettings struct {
	URL            string `toml:"url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	Demo           bool   `toml:"demo"` // serve an in-memory catalog instead of URL
}

// Timeout returns the request timeout as a duration
func (b BackendSettings) Timeout() time.Duration {
	return time.Duration(b.TimeoutSeconds) * time.Second
}

// BrowseSettings represents browser-related configuration
type BrowseSettings struct {
	PageSize     int    `toml:"page_size"`
	HistoryLimit int    `toml:"history_limit"`
	ExportDir    string `toml:"export_dir"`
}

type LogSettings struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// Dir returns the assetgrip config directory
func Dir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		home, herr := homedir.Dir()
		if herr != nil {
			home = "."
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "assetgrip")
}

// NewConfigService creates a config service for the default location
func NewConfigService() ConfigService {
	return &configService{filePath: filepath.Join(Dir(), FileName)}
}

// NewConfigServiceAt creates a config service for path. bus may be nil.
func NewConfigServiceAt(path string, bus eventbus.EventBus) ConfigService {
	if expanded, err := homedir.Expand(path); err == nil {
		path = expanded
	}
	return &configService{filePath: path, bus: bus}
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(bus eventbus.EventBus) ConfigService {
	cs := NewConfigService().(*configService)
	cs.bus = bus
	return cs
}

func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration from file. A missing file yields defaults.
func (cs *configService) Load() (*Config, error) {
	cfg, err := cs.LoadFromPath(cs.filePath)
	if errors.Is(err, os.ErrNotExist) {
		cfg, err = DefaultConfig(), nil
	}
	if err != nil {
		return nil, err
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigLoadedEvent{Path: cs.filePath})
	}
	return cfg, nil
}

// Save saves the configuration to file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}
	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{Path: cs.filePath})
	}
	return nil
}

// LoadFromPath loads configuration from a specific path. Fields missing
// from the file keep their defaults.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s: %w", path, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes TOML on top of the defaults and normalizes the result
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("failed to parse config at line %d column %d: %w", row, col, err)
		}
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Backend: BackendSettings{
			URL:            "http://127.0.0.1:7878",
			TimeoutSeconds: 30,
		},
		Browse: BrowseSettings{
			PageSize:     60,
			HistoryLimit: 100,
			ExportDir:    "~/assetgrip-exports",
		},
		Log: LogSettings{
			Level: "info",
			File:  filepath.Join(Dir(), "assetgrip.log"),
		},
	}
}

func (c *Config) normalize() {
	def := DefaultConfig()
	if c.Backend.TimeoutSeconds <= 0 {
		c.Backend.TimeoutSeconds = def.Backend.TimeoutSeconds
	}
	if c.Browse.PageSize <= 0 {
		c.Browse.PageSize = def.Browse.PageSize
	}
	if c.Browse.HistoryLimit <= 0 {
		c.Browse.HistoryLimit = def.Browse.HistoryLimit
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
}

// ExpandPath resolves a leading ~ in a configured path
func ExpandPath(path string) string {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return path
	}
	return expanded
}
