package main

import (
	"context"
	"flag"

	"github.com/rs/zerolog/log"
	"github.com/urmzd/lampbridge/pkg/config"
	"github.com/urmzd/lampbridge/pkg/lamp"
	"github.com/urmzd/lampbridge/pkg/logging"
	lampmcp "github.com/urmzd/lampbridge/pkg/mcp"
	"github.com/urmzd/lampbridge/pkg/metrics"
	"github.com/urmzd/lampbridge/pkg/mqtt"
	"github.com/urmzd/lampbridge/pkg/store"
	"github.com/urmzd/lampbridge/pkg/timer"
)

func main() {
	dbPath := flag.String("db", "", "Path to SQLite database file (default: ~/.config/lampbridge/timers.db)")
	backend := flag.String("backend", "", "Record store backend: sqlite, file or remote (overrides STORE_BACKEND)")
	flag.Parse()

	// Logging goes to stderr; stdout is the MCP transport
	cfg, err := config.Load()
	if err != nil {
		logging.Init("info", true)
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if *dbPath != "" {
		cfg.Store.SQLitePath = *dbPath
	}
	if *backend != "" {
		cfg.Store.Backend = *backend
		if err := cfg.Validate(); err != nil {
			logging.Init("info", true)
			log.Fatal().Err(err).Msg("Invalid configuration")
		}
	}

	logging.Init(cfg.Log.Level, cfg.Log.Pretty)

	metrics.Init(cfg.Metrics.AgentAddr, cfg.Metrics.Namespace, cfg.MetricsTags())
	defer metrics.Close()

	records, closeStore, err := store.Open(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Store.Backend).Msg("Failed to open record store")
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Error().Err(err).Msg("Failed to close record store")
		}
	}()

	// The publisher keeps retrying an unreachable broker; only a malformed
	// broker URL falls back to NullPublisher
	var publisher lamp.Publisher
	mqttPublisher, err := mqtt.Connect(mqtt.Options{
		Broker:         cfg.MQTT.Broker,
		ClientID:       cfg.MQTT.ClientID,
		Username:       cfg.MQTT.Username,
		Password:       cfg.MQTT.Password,
		Topic:          cfg.MQTT.Topic,
		PublishTimeout: cfg.MQTT.PublishTimeout,
	})
	if err != nil {
		log.Error().Err(err).Str("broker", cfg.MQTT.Broker).Msg("MQTT broker misconfigured, using null publisher")
		publisher = lamp.NewNullPublisher()
	} else {
		publisher = mqttPublisher
	}
	defer publisher.Close()

	// Expiry is left to the API process's scheduler
	engine := timer.NewEngine(records, publisher)
	mcpServer := lampmcp.NewServer(engine, publisher)

	log.Info().Msg("Starting MCP server on stdio")

	if err := mcpServer.ServeStdio(); err != nil {
		log.Fatal().Err(err).Msg("MCP server failed")
	}
}
