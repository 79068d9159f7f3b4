package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"mealsexplorer/internal/catalog"
	"mealsexplorer/internal/eventbus"
	"mealsexplorer/internal/query"
)

// ErrInvalid is wrapped by every validation failure
var ErrInvalid = errors.New("invalid config")

// Config represents the application configuration
type Config struct {
	Version int           `toml:"version"`
	API     APISettings   `toml:"api"`
	Query   QuerySettings `toml:"query"`
	Input   InputSettings `toml:"input"`
	Cache   CacheSettings `toml:"cache"`
	Log     LogSettings   `toml:"log"`
}

// APISettings configures the catalog client
type APISettings struct {
	BaseURL   string `toml:"base_url"`
	TimeoutMS int    `toml:"timeout_ms"`
	Retries   int    `toml:"retries"`
	UserAgent string `toml:"user_agent"`
}

// QuerySettings configures the orchestrator
type QuerySettings struct {
	PageSize        int    `toml:"page_size"`
	DefaultTerm     string `toml:"default_term"`
	SuggestionLimit int    `toml:"suggestion_limit"`
	StaleGuard      bool   `toml:"stale_guard"`
}

// InputSettings configures the search box and page keys
type InputSettings struct {
	DebounceMS int `toml:"debounce_ms"`
	ThrottleMS int `toml:"throttle_ms"`
}

// CacheSettings configures the catalog cache; size 0 disables it
type CacheSettings struct {
	Size int `toml:"size"`
}

// LogSettings configures the log file
type LogSettings struct {
	File string `toml:"file"`
}

// Timeout returns the per-request timeout
func (a APISettings) Timeout() time.Duration {
	return time.Duration(a.TimeoutMS) * time.Millisecond
}

// Debounce returns the search box idle gap
func (i InputSettings) Debounce() time.Duration {
	return time.Duration(i.DebounceMS) * time.Millisecond
}

// Throttle returns the minimum spacing of page key presses
func (i InputSettings) Throttle() time.Duration {
	return time.Duration(i.ThrottleMS) * time.Millisecond
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.Query.PageSize <= 0 {
		return fmt.Errorf("%w: query.page_size must be positive, got %d", ErrInvalid, c.Query.PageSize)
	}
	if c.Query.SuggestionLimit <= 0 {
		return fmt.Errorf("%w: query.suggestion_limit must be positive, got %d", ErrInvalid, c.Query.SuggestionLimit)
	}
	if c.API.TimeoutMS < 0 || c.API.Retries < 0 {
		return fmt.Errorf("%w: api.timeout_ms and api.retries must not be negative", ErrInvalid)
	}
	if c.Input.DebounceMS < 0 || c.Input.ThrottleMS < 0 {
		return fmt.Errorf("%w: input durations must not be negative", ErrInvalid)
	}
	if c.Cache.Size < 0 {
		return fmt.Errorf("%w: cache.size must not be negative", ErrInvalid)
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: api.base_url %q is not an absolute URL", ErrInvalid, c.API.BaseURL)
	}
	return nil
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

// DefaultPath returns the per-user config file location
func DefaultPath() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "mealsexplorer", "config.toml")
}

// NewConfigService creates a config service for path, or DefaultPath if
// path is empty. bus may be nil.
func NewConfigService(path string, bus eventbus.EventBus) ConfigService {
	if path == "" {
		path = DefaultPath()
	}
	return &configService{bus: bus, filePath: path}
}

func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration from the service's file. A missing file
// yields the defaults.
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

// Save saves the configuration to the service's file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{Path: cs.filePath})
	}
	return nil
}

// LoadFromPath loads configuration from a specific path. Keys absent from
// the file keep their default values.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	if err := config.Validate(); err != nil {
		return err
	}

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
		API: APISettings{
			BaseURL:   catalog.DefaultBaseURL,
			TimeoutMS: 15000,
			Retries:   2,
			UserAgent: "mealsexplorer",
		},
		Query: QuerySettings{
			PageSize:        query.DefaultPageSize,
			DefaultTerm:     query.DefaultLandingTerm,
			SuggestionLimit: query.DefaultSuggestionLimit,
			StaleGuard:      true,
		},
		Input: InputSettings{
			DebounceMS: 500,
			ThrottleMS: 600,
		},
		Cache: CacheSettings{Size: 128},
		Log:   LogSettings{File: "mealsexplorer.log"},
	}
}
