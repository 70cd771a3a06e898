// Package config loads process configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
)

// Store backends.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendRemote = "remote"
)

// Config holds every setting the API and MCP binaries read.
type Config struct {
	Server struct {
		Host string `env:"SERVER_HOST,default=0.0.0.0" description:"listen host"`
		Port int    `env:"SERVER_PORT,default=8080" description:"listen port"`
	}

	MQTT struct {
		Broker         string        `env:"MQTT_BROKER,default=tcp://broker.emqx.io:1883" description:"broker URL"`
		Username       string        `env:"MQTT_USERNAME"`
		Password       string        `env:"MQTT_PASSWORD"`
		Topic          string        `env:"MQTT_TOPIC,required" description:"actuator channel"`
		ClientID       string        `env:"MQTT_CLIENT_ID" description:"random mqtt_<hex> when empty"`
		PublishTimeout time.Duration `env:"MQTT_PUBLISH_TIMEOUT,default=2s"`
	}

	Store struct {
		Backend     string        `env:"STORE_BACKEND,default=sqlite" description:"sqlite, file or remote"`
		DatabaseURL string        `env:"DATABASE_URL" description:"remote datastore collection URL"`
		Timeout     time.Duration `env:"STORE_TIMEOUT,default=10s"`
		DataFile    string        `env:"DATA_FILE,default=data.json"`
		SQLitePath  string        `env:"SQLITE_PATH" description:"defaults to the per-user config directory"`
	}

	Sweep struct {
		Interval time.Duration `env:"SWEEP_INTERVAL,default=1m"`
		Recheck  time.Duration `env:"SWEEP_RECHECK,default=20s"`
	}

	Log struct {
		Level  string `env:"LOG_LEVEL,default=info"`
		Pretty bool   `env:"LOG_PRETTY,default=true"`
	}

	Metrics struct {
		AgentAddr string `env:"DD_AGENT_ADDR" description:"empty disables metrics"`
		Namespace string `env:"DD_NAMESPACE,default=lampbridge."`
		Tags      string `env:"DD_TAGS" description:"comma separated"`
	}
}

// Load decodes the environment and validates the result.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := envdecode.Decode(cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that the tags cannot express.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT %d out of range", c.Server.Port)
	}
	if strings.TrimSpace(c.MQTT.Topic) == "" {
		return fmt.Errorf("MQTT_TOPIC must not be empty")
	}
	if c.MQTT.PublishTimeout <= 0 {
		return fmt.Errorf("MQTT_PUBLISH_TIMEOUT must be positive")
	}

	switch c.Store.Backend {
	case BackendSQLite, BackendFile:
	case BackendRemote:
		if c.Store.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for the %s backend", BackendRemote)
		}
		if _, err := url.ParseRequestURI(c.Store.DatabaseURL); err != nil {
			return fmt.Errorf("invalid DATABASE_URL: %w", err)
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q (want %s, %s or %s)",
			c.Store.Backend, BackendSQLite, BackendFile, BackendRemote)
	}
	if c.Store.Timeout <= 0 {
		return fmt.Errorf("STORE_TIMEOUT must be positive")
	}

	if c.Sweep.Interval <= 0 {
		return fmt.Errorf("SWEEP_INTERVAL must be positive")
	}
	if c.Sweep.Recheck < 0 {
		return fmt.Errorf("SWEEP_RECHECK must not be negative")
	}
	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// MetricsTags splits DD_TAGS into statsd tags.
func (c *Config) MetricsTags() []string {
	var tags []string
	for _, tag := range strings.Split(c.Metrics.Tags, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
