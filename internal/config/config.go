// Package config loads the service configuration from an optional TOML or
// YAML file and environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
	StoreMySQL    = "mysql"
	StoreSQLite   = "sqlite"
)

// Tip modes.
const (
	TipsStatic = "static"
	TipsOpenAI = "openai"
)

type Config struct {
	Addr        string        `toml:"addr" yaml:"addr"`
	Store       string        `toml:"store" yaml:"store"`
	DatabaseURL string        `toml:"database_url" yaml:"database_url"`
	Redis       RedisConfig   `toml:"redis" yaml:"redis"`
	Session     SessionConfig `toml:"session" yaml:"session"`
	Tips        TipsConfig    `toml:"tips" yaml:"tips"`
	Log         LogConfig     `toml:"log" yaml:"log"`
}

// RedisConfig enables the shared height cache and session store when Addr
// is set.
type RedisConfig struct {
	Addr     string `toml:"addr" yaml:"addr"`
	Password string `toml:"password" yaml:"password"`
	DB       int    `toml:"db" yaml:"db"`
}

type SessionConfig struct {
	TTL          time.Duration `toml:"ttl" yaml:"ttl"`
	SecureCookie bool          `toml:"secure_cookie" yaml:"secure_cookie"`
}

type TipsConfig struct {
	Mode        string        `toml:"mode" yaml:"mode"`
	StaticText  string        `toml:"static_text" yaml:"static_text"`
	APIKey      string        `toml:"api_key" yaml:"api_key"`
	BaseURL     string        `toml:"base_url" yaml:"base_url"`
	Model       string        `toml:"model" yaml:"model"`
	MaxTokens   int           `toml:"max_tokens" yaml:"max_tokens"`
	Temperature float32       `toml:"temperature" yaml:"temperature"`
	Timeout     time.Duration `toml:"timeout" yaml:"timeout"`
}

type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`
	JSON   bool   `toml:"json" yaml:"json"`
	File   string `toml:"file" yaml:"file"`
	Stdout bool   `toml:"stdout" yaml:"stdout"`
}

// Default returns the configuration used when nothing else is given.
func Default() *Config {
	return &Config{
		Addr:  ":8080",
		Store: StoreMemory,
		Session: SessionConfig{
			TTL: 24 * time.Hour,
		},
		Tips: TipsConfig{
			Mode:        TipsStatic,
			Model:       "gpt-4o-mini",
			MaxTokens:   300,
			Temperature: 0.8,
			Timeout:     15 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Stdout: true,
		},
	}
}

// Load reads path (if non-empty) over the defaults, applies environment
// overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".toml":
			if _, err := toml.Decode(string(data), cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		case ".yaml", ".yml":
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		default:
			return nil, fmt.Errorf("unsupported config format %q", filepath.Ext(path))
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Addr = env("FITLOG_ADDR", c.Addr)
	c.Store = env("FITLOG_STORE", c.Store)
	c.DatabaseURL = env("DATABASE_URL", c.DatabaseURL)
	c.Redis.Addr = env("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = env("REDIS_PASSWORD", c.Redis.Password)
	c.Session.TTL = envDuration("FITLOG_SESSION_TTL", c.Session.TTL)
	c.Tips.Mode = env("FITLOG_TIPS_MODE", c.Tips.Mode)
	c.Tips.APIKey = env("OPENAI_API_KEY", c.Tips.APIKey)
	c.Tips.BaseURL = env("FITLOG_TIPS_BASE_URL", c.Tips.BaseURL)
	c.Tips.Model = env("FITLOG_TIPS_MODEL", c.Tips.Model)
	c.Log.Level = env("FITLOG_LOG_LEVEL", c.Log.Level)
	c.Log.File = env("FITLOG_LOG_FILE", c.Log.File)
	if v := os.Getenv("FITLOG_LOG_JSON"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Log.JSON = b
		}
	}
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var err error

	switch c.Store {
	case StoreMemory:
	case StorePostgres, StoreMySQL, StoreSQLite:
		if c.DatabaseURL == "" {
			err = multierr.Append(err, fmt.Errorf("store %q requires database_url", c.Store))
		}
	default:
		err = multierr.Append(err, fmt.Errorf("unknown store %q", c.Store))
	}

	switch c.Tips.Mode {
	case TipsStatic:
	case TipsOpenAI:
		if c.Tips.APIKey == "" {
			err = multierr.Append(err, fmt.Errorf("tips mode %q requires an api key", c.Tips.Mode))
		}
	default:
		err = multierr.Append(err, fmt.Errorf("unknown tips mode %q", c.Tips.Mode))
	}

	if c.Session.TTL <= 0 {
		err = multierr.Append(err, fmt.Errorf("session ttl must be positive, got %s", c.Session.TTL))
	}
	if _, lerr := log.ParseLevel(c.Log.Level); lerr != nil {
		err = multierr.Append(err, lerr)
	}
	return err
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.WithError(err).Warnf("ignoring invalid %s", key)
		return fallback
	}
	return d
}
