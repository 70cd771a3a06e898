// Package store opens the record store backend named in the configuration.
package store

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/urmzd/lampbridge/pkg/config"
	"github.com/urmzd/lampbridge/pkg/db"
	"github.com/urmzd/lampbridge/pkg/lamp"
	"github.com/urmzd/lampbridge/pkg/store/file"
	"github.com/urmzd/lampbridge/pkg/store/remote"
)

// Closer releases backend resources.
type Closer func() error

func noopCloser() error { return nil }

// Open returns the configured store. The caller must call the returned
// Closer on shutdown.
func Open(ctx context.Context, cfg *config.Config) (lamp.Store, Closer, error) {
	switch cfg.Store.Backend {
	case config.BackendSQLite:
		database, err := db.Open(cfg.Store.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if err := database.Migrate(ctx); err != nil {
			_ = database.Close()
			return nil, nil, fmt.Errorf("failed to run database migrations: %w", err)
		}
		log.Info().Str("backend", cfg.Store.Backend).Str("path", database.Path()).Msg("Record store opened")
		return database.Timers(), database.Close, nil

	case config.BackendFile:
		s, err := file.New(cfg.Store.DataFile)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("backend", cfg.Store.Backend).Str("path", s.Path()).Msg("Record store opened")
		return s, noopCloser, nil

	case config.BackendRemote:
		s, err := remote.New(cfg.Store.DatabaseURL, remote.WithTimeout(cfg.Store.Timeout))
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("backend", cfg.Store.Backend).Str("url", cfg.Store.DatabaseURL).Msg("Record store opened")
		return s, noopCloser, nil
	}

	return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
}
