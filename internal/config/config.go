package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"
)

// Config models frameline.yml.
type Config struct {
	Server struct {
		Addr     string `yaml:"addr"`
		BasePath string `yaml:"base_path"`
	} `yaml:"server"`
	Auth struct {
		JWTSecret              string `yaml:"jwt_secret"`
		AllowLegacyActorHeader bool   `yaml:"allow_legacy_actor_header"`
	} `yaml:"auth"`
	Storage   Storage   `yaml:"storage"`
	Logging   Logging   `yaml:"logging"`
	Extractor Extractor `yaml:"extractor"`
}

type Storage struct {
	Driver  string  `yaml:"driver"`
	Mongo   Mongo   `yaml:"mongo"`
	Breaker Breaker `yaml:"breaker"`
}

type Mongo struct {
	URI      string        `yaml:"uri"`
	Database string        `yaml:"database"`
	Timeout  time.Duration `yaml:"timeout"`
}

// Breaker configures the circuit breaker guarding document storage calls.
type Breaker struct {
	MaxRequests         uint32        `yaml:"max_requests"`
	Interval            time.Duration `yaml:"interval"`
	Timeout             time.Duration `yaml:"timeout"`
	ConsecutiveFailures uint32        `yaml:"consecutive_failures"`
}

type Logging struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Extractor holds the attributes reported by the static asset extractor.
type Extractor struct {
	Codec         string `yaml:"codec"`
	AudioChannels int    `yaml:"audio_channels"`
	Resolution    string `yaml:"resolution"`
}

// Load reads and validates config from workspace.
func Load(workspace string) (*Config, error) {
	path := Path(workspace)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config %s not found; create one with fl config init", path)
		}
		return nil, err
	}
	return FromYAML(data)
}

// LoadOptional returns the default config if the file does not exist.
func LoadOptional(workspace string) (*Config, error) {
	path := Path(workspace)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	return FromYAML(data)
}

// Validate ensures the config meets required structure.
func (c *Config) Validate() error {
	if c.Server.BasePath != "" && !strings.HasPrefix(c.Server.BasePath, "/") {
		return fmt.Errorf("config.server.base_path must start with /")
	}
	switch c.Storage.Driver {
	case DriverSQLite:
	case DriverMongo:
		if c.Storage.Mongo.URI == "" {
			return fmt.Errorf("config.storage.mongo.uri is required for driver mongo")
		}
		if c.Storage.Mongo.Database == "" {
			return fmt.Errorf("config.storage.mongo.database is required for driver mongo")
		}
	default:
		return fmt.Errorf("config.storage.driver must be %q or %q", DriverSQLite, DriverMongo)
	}
	if c.Storage.Breaker.ConsecutiveFailures == 0 {
		return fmt.Errorf("config.storage.breaker.consecutive_failures must be positive")
	}
	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("config.logging.level %q is not supported", c.Logging.Level)
	}
	if c.Extractor.AudioChannels < 0 {
		return fmt.Errorf("config.extractor.audio_channels must not be negative")
	}
	return nil
}

// Path returns the config file path for a workspace.
func Path(workspace string) string {
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, "frameline.yml")
}

// GenerateDefault returns default config YAML.
func GenerateDefault() string {
	return defaultTemplate
}

// Default returns the default Config struct.
func Default() *Config {
	var cfg Config
	_ = yaml.NewDecoder(bytes.NewBufferString(defaultTemplate)).Decode(&cfg)
	return &cfg
}

// FromYAML parses and validates config from raw YAML bytes. Keys missing from
// data keep their default values.
func FromYAML(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid config yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromFile reads YAML config from the given path.
func FromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromYAML(data)
}

const defaultTemplate = `server:
  addr: 127.0.0.1:8080
  base_path: /v0

auth:
  jwt_secret: ""
  allow_legacy_actor_header: false

storage:
  driver: sqlite
  mongo:
    uri: mongodb://localhost:27017
    database: frameline
    timeout: 10s
  breaker:
    max_requests: 1
    interval: 0s
    timeout: 5s
    consecutive_failures: 3

logging:
  level: info
  file: ""
  max_size_mb: 10
  max_backups: 3
  max_age_days: 28
  compress: true

extractor:
  codec: H.264
  audio_channels: 2
  resolution: 3840x2160
`
