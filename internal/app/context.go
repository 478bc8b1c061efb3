// Package app wires configuration, logging, storage and the engine into a
// runtime shared by the CLI commands and the HTTP server.
package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"frameline/internal/config"
	"frameline/internal/db"
	"frameline/internal/engine"
	"frameline/internal/metrics"
	"frameline/internal/migrate"
	"frameline/internal/mongostore"
	"frameline/internal/repo"
)

type Runtime struct {
	Config   *config.Config
	Log      *logrus.Logger
	Engine   engine.Engine
	Registry *prometheus.Registry

	closers []func(context.Context) error
}

// Open builds a runtime for workspace. The SQLite database is created and
// migrated on first use; the Mongo driver connects and ensures indexes.
func Open(ctx context.Context, workspace string, cfg *config.Config, log *logrus.Logger) (*Runtime, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	store, closer, err := OpenStore(ctx, workspace, cfg, log)
	if err != nil {
		return nil, err
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	eng := engine.New(store, cfg, log)
	eng.Metrics = metrics.New(reg)
	return &Runtime{
		Config:   cfg,
		Log:      log,
		Engine:   eng,
		Registry: reg,
		closers:  []func(context.Context) error{closer},
	}, nil
}

// OpenStore opens the persistence backend selected by cfg.Storage.Driver.
func OpenStore(ctx context.Context, workspace string, cfg *config.Config, log *logrus.Logger) (repo.Store, func(context.Context) error, error) {
	switch cfg.Storage.Driver {
	case "", config.DriverSQLite:
		conn, err := db.Open(db.Config{Workspace: workspace})
		if err != nil {
			return nil, nil, err
		}
		if err := migrate.Migrate(ctx, conn); err != nil {
			conn.Close()
			return nil, nil, fmt.Errorf("migrate %s: %w", db.Path(workspace), err)
		}
		return repo.Repo{DB: conn}, closeSQL(conn), nil
	case config.DriverMongo:
		s, err := mongostore.Open(ctx, cfg.Storage, log)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		return nil, nil, fmt.Errorf("invalid storage driver %q", cfg.Storage.Driver)
	}
}

func closeSQL(conn *sql.DB) func(context.Context) error {
	return func(context.Context) error { return conn.Close() }
}

// Close releases the storage backend.
func (r *Runtime) Close(ctx context.Context) error {
	var first error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](ctx); err != nil && first == nil {
			first = err
		}
	}
	r.closers = nil
	return first
}
