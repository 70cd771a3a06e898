package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urmzd/lampbridge/pkg/api"
	"github.com/urmzd/lampbridge/pkg/config"
	"github.com/urmzd/lampbridge/pkg/lamp"
	"github.com/urmzd/lampbridge/pkg/lamp/schema"
	"github.com/urmzd/lampbridge/pkg/logging"
	"github.com/urmzd/lampbridge/pkg/metrics"
	"github.com/urmzd/lampbridge/pkg/mqtt"
	"github.com/urmzd/lampbridge/pkg/schedule"
	"github.com/urmzd/lampbridge/pkg/store"
	"github.com/urmzd/lampbridge/pkg/timer"

	_ "github.com/urmzd/lampbridge/docs"
)

// @title           Lampbridge API
// @version         1.0
// @description     REST API for timed lamp control over MQTT

// @host      localhost:8080
// @BasePath  /
// @schemes   http https

func main() {
	dbPath := flag.String("db", "", "Path to SQLite database file (default: ~/.config/lampbridge/timers.db)")
	backend := flag.String("backend", "", "Record store backend: sqlite, file or remote (overrides STORE_BACKEND)")
	flag.Parse()

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	records, closeStore, err := store.Open(ctx, cfg)
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

	engine := timer.NewEngine(records, publisher)

	sweeps := schedule.New(engine, cfg.Sweep.Interval, cfg.Sweep.Recheck).Start(ctx)

	router := api.NewRouter(engine, publisher, schema.NewValidator())
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("address", srv.Addr).Msg("Starting API server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Server failed")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Failed to shut down server")
	}
	<-sweeps

	log.Info().Msg("Stopped")
}
