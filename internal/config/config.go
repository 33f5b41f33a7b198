// Package config handles loading and managing configuration for opsboard.
// It supports loading from YAML files, environment variables, and hardcoded defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Jayphen/opsboard/internal/project"
)

// Config holds all configuration settings for opsboard.
type Config struct {
	Notion NotionConfig `yaml:"notion"`

	// Sources are snapshot source specs, e.g. "file:path=tasks.json".
	// When empty, a notion source is used if a database is configured.
	Sources []string `yaml:"sources"`

	// RedisURL is the Redis connection URL for the snapshot cache.
	RedisURL string `yaml:"redis_url"`

	// Timezone is the IANA zone that defines "today" for overdue checks.
	Timezone string `yaml:"timezone"`

	// DoneStatus is the status label that marks a task completed.
	DoneStatus string `yaml:"done_status"`

	// OtherLimit caps the "other tasks" section; 0 shows everything.
	OtherLimit int `yaml:"other_limit"`

	// RefreshInterval is how often the tui and serve commands reload the snapshot.
	RefreshInterval time.Duration `yaml:"refresh_interval"`

	// MetricsAddr is the listen address of the Prometheus endpoint.
	MetricsAddr string `yaml:"metrics_addr"`

	// Projects maps Notion project page IDs to display names.
	Projects map[string]string `yaml:"projects"`

	Logging LoggingConfig `yaml:"logging"`
}

// NotionConfig holds Notion API settings.
type NotionConfig struct {
	Token      string `yaml:"token"`
	DatabaseID string `yaml:"database_id"`
	Version    string `yaml:"version"`
	BaseURL    string `yaml:"base_url"`
}

// LoggingConfig mirrors logging.Settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	FilePath   string `yaml:"file"`
	JSON       bool   `yaml:"json"`
	Console    bool   `yaml:"console"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"`
	Compress   bool   `yaml:"compress"`
}

// Default configuration values
const (
	DefaultRedisURL        = "redis://localhost:6379"
	DefaultTimezone        = "Asia/Seoul"
	DefaultDoneStatus      = "Done"
	DefaultOtherLimit      = 10
	DefaultRefreshInterval = 5 * time.Minute
	DefaultMetricsAddr     = ":9464"
	DefaultLogLevel        = "info"
)

var (
	globalConfig *Config
	configOnce   sync.Once
	configErr    error
)

// Get returns the global configuration, loading it if necessary.
// This function is safe for concurrent use.
func Get() (*Config, error) {
	configOnce.Do(func() {
		globalConfig, configErr = Load()
	})
	return globalConfig, configErr
}

// Defaults returns a Config holding only the built-in defaults.
func Defaults() *Config {
	return &Config{
		RedisURL:        DefaultRedisURL,
		Timezone:        DefaultTimezone,
		DoneStatus:      DefaultDoneStatus,
		OtherLimit:      DefaultOtherLimit,
		RefreshInterval: DefaultRefreshInterval,
		MetricsAddr:     DefaultMetricsAddr,
		Projects:        project.DefaultNames(),
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Compress: true,
		},
	}
}

// Load reads configuration from files and environment variables.
// Priority (highest to lowest):
// 1. Environment variables
// 2. ~/.config/opsboard/config.yaml (or config.yml)
// 3. ~/.opsboard.yaml
// 4. Hardcoded defaults
//
// A file that exists but cannot be parsed is an error; missing files are not.
func Load() (*Config, error) {
	cfg := Defaults()

	for _, path := range searchOrder() {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnvOverrides()

	if _, err := cfg.Location(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFile reads defaults, then path, then environment overrides.
func LoadFile(path string) (*Config, error) {
	cfg := Defaults()
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	if err := cfg.mergeFile(path); err != nil {
		return nil, err
	}
	cfg.applyEnvOverrides()
	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// searchOrder lists config files lowest priority first.
func searchOrder() []string {
	paths := ConfigPaths()
	out := make([]string, len(paths))
	for i, p := range paths {
		out[len(paths)-1-i] = p
	}
	return out
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}

	// Project tables replace the defaults instead of merging into them.
	var probe struct {
		Projects map[string]string `yaml:"projects"`
	}
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if probe.Projects != nil {
		c.Projects = nil
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvOverrides() {
	if val := os.Getenv("OPSBOARD_NOTION_TOKEN"); val != "" {
		c.Notion.Token = val
	} else if val := os.Getenv("NOTION_TOKEN"); val != "" {
		c.Notion.Token = val
	}

	if val := os.Getenv("OPSBOARD_DATABASE_ID"); val != "" {
		c.Notion.DatabaseID = val
	}

	if val := os.Getenv("OPSBOARD_SOURCES"); val != "" {
		var sources []string
		for _, s := range strings.Split(val, ";") {
			if s = strings.TrimSpace(s); s != "" {
				sources = append(sources, s)
			}
		}
		c.Sources = sources
	}

	// Redis URL (support both REDIS_URL and OPSBOARD_REDIS_URL)
	if val := os.Getenv("OPSBOARD_REDIS_URL"); val != "" {
		c.RedisURL = val
	} else if val := os.Getenv("REDIS_URL"); val != "" {
		c.RedisURL = val
	}

	if val := os.Getenv("OPSBOARD_TIMEZONE"); val != "" {
		c.Timezone = val
	}

	if val := os.Getenv("OPSBOARD_DONE_STATUS"); val != "" {
		c.DoneStatus = val
	}

	if val := os.Getenv("OPSBOARD_OTHER_LIMIT"); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n >= 0 {
			c.OtherLimit = n
		}
	}

	if val := os.Getenv("OPSBOARD_REFRESH_INTERVAL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			c.RefreshInterval = d
		} else if secs, err := strconv.Atoi(val); err == nil {
			// Support plain seconds for convenience
			c.RefreshInterval = time.Duration(secs) * time.Second
		}
	}

	if val := os.Getenv("OPSBOARD_METRICS_ADDR"); val != "" {
		c.MetricsAddr = val
	}

	if val := os.Getenv("OPSBOARD_LOG_LEVEL"); val != "" {
		c.Logging.Level = val
	}
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Interval returns RefreshInterval, or DefaultRefreshInterval when it is not
// positive.
func (c *Config) Interval() time.Duration {
	if c.RefreshInterval <= 0 {
		return DefaultRefreshInterval
	}
	return c.RefreshInterval
}

// Registry builds the project registry from the Projects table.
func (c *Config) Registry() *project.Registry {
	return project.NewRegistry(c.Projects)
}

// SourceSpecs returns the configured source specs, falling back to the
// configured Notion database.
func (c *Config) SourceSpecs() []string {
	if len(c.Sources) > 0 {
		return c.Sources
	}
	if c.Notion.DatabaseID != "" {
		return []string{"notion:database=" + c.Notion.DatabaseID}
	}
	return nil
}

// ConfigPaths returns the paths where config files are searched, highest
// priority first.
func ConfigPaths() []string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return []string{
		filepath.Join(homeDir, ".config", "opsboard", "config.yaml"),
		filepath.Join(homeDir, ".config", "opsboard", "config.yml"),
		filepath.Join(homeDir, ".opsboard.yaml"),
	}
}

// WriteExample writes an example configuration file to the specified path.
func WriteExample(path string) error {
	example := `# opsboard configuration file
# Place this file at ~/.config/opsboard/config.yaml or ~/.opsboard.yaml

# Notion integration (token may also come from NOTION_TOKEN)
notion:
  token: ""
  database_id: ""
  version: "2022-06-28"

# Snapshot sources, tried in order and concatenated.
# Examples: "file:path=tasks.json", "notion:database=<id>", "redis:key=opsboard:snapshot"
sources: []

# Redis connection URL for the snapshot cache
redis_url: redis://localhost:6379

# Zone that defines "today" for overdue checks
timezone: Asia/Seoul

# Status label of completed tasks
done_status: Done

# Number of "other" tasks shown before "+N more" (0 = all)
other_limit: 10

# How often tui/serve reload the snapshot (Go duration format)
refresh_interval: 5m

# Prometheus listen address for "opsboard serve"
metrics_addr: ":9464"

# Notion project page ID -> display name. Unknown IDs show as "Other".
projects:
  2fced264-4bae-8115-a01b-fd544ed8c038: Woojoosnt
  2fced264-4bae-8147-987f-d61e6171ba4c: Ark Academy
  2fced264-4bae-810a-bb17-e03566a75c9b: Oilyburger

logging:
  level: info
  file: ""
  json: false
  console: false
`
	// Ensure parent directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(example), 0644)
}
