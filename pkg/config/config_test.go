package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("MQTT_TOPIC", "lamps/cmd")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	assert.Equal(t, "tcp://broker.emqx.io:1883", cfg.MQTT.Broker)
	assert.Equal(t, 2*time.Second, cfg.MQTT.PublishTimeout)
	assert.Equal(t, BackendSQLite, cfg.Store.Backend)
	assert.Equal(t, 10*time.Second, cfg.Store.Timeout)
	assert.Equal(t, "data.json", cfg.Store.DataFile)
	assert.Equal(t, time.Minute, cfg.Sweep.Interval)
	assert.Equal(t, 20*time.Second, cfg.Sweep.Recheck)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.True(t, cfg.Log.Pretty)
	assert.Empty(t, cfg.Metrics.AgentAddr)
	assert.Equal(t, "lampbridge.", cfg.Metrics.Namespace)
	assert.Empty(t, cfg.MetricsTags())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("MQTT_TOPIC", "lamps/cmd")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STORE_BACKEND", "remote")
	t.Setenv("DATABASE_URL", "https://example.mockapi.io/timers")
	t.Setenv("SWEEP_INTERVAL", "30s")
	t.Setenv("LOG_PRETTY", "false")
	t.Setenv("DD_TAGS", "env:dev, site:home,,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, BackendRemote, cfg.Store.Backend)
	assert.Equal(t, 30*time.Second, cfg.Sweep.Interval)
	assert.False(t, cfg.Log.Pretty)
	assert.Equal(t, []string{"env:dev", "site:home"}, cfg.MetricsTags())
}

func TestLoad_MissingTopic(t *testing.T) {
	t.Setenv("MQTT_TOPIC", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		cfg.Server.Port = 8080
		cfg.MQTT.Topic = "lamps/cmd"
		cfg.MQTT.PublishTimeout = time.Second
		cfg.Store.Backend = BackendSQLite
		cfg.Store.Timeout = time.Second
		cfg.Sweep.Interval = time.Minute
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"file backend", func(c *Config) { c.Store.Backend = BackendFile }, ""},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "SERVER_PORT"},
		{"blank topic", func(c *Config) { c.MQTT.Topic = "  " }, "MQTT_TOPIC"},
		{"unknown backend", func(c *Config) { c.Store.Backend = "redis" }, "STORE_BACKEND"},
		{"remote without url", func(c *Config) { c.Store.Backend = BackendRemote }, "DATABASE_URL"},
		{"remote bad url", func(c *Config) {
			c.Store.Backend = BackendRemote
			c.Store.DatabaseURL = "not a url"
		}, "DATABASE_URL"},
		{"zero interval", func(c *Config) { c.Sweep.Interval = 0 }, "SWEEP_INTERVAL"},
		{"negative recheck", func(c *Config) { c.Sweep.Recheck = -time.Second }, "SWEEP_RECHECK"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
