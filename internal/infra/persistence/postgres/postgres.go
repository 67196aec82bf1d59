package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"blogauth/config"
	"blogauth/internal/domain/lifecycle"
	"blogauth/internal/errors"
	"blogauth/internal/infra/metrics"

	"github.com/prometheus/client_golang/prometheus/collectors"
	pgLib "github.com/slighter12/go-lib/database/postgres"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

const (
	poolCheckInterval  = 5 * time.Second
	poolWaitWarnAfter  = 50 * time.Millisecond
	dbStatsCollectorDB = "credential_store"
)

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config  *config.Config
	Logger  *slog.Logger
	Metrics *metrics.Metrics `optional:"true"`
}

// New opens the credential store database. The pool is pinged on start,
// closed on stop and, when metrics are enabled, exported as
// go_sql_* series labelled db="credential_store".
func New(params Params) (*gorm.DB, error) {
	db, err := pgLib.New(params.Config.Postgres)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create PostgreSQL client")
	}
	// Multi-statement atomicity goes through TransactionManager.Execute only.
	db = db.Session(&gorm.Session{
		SkipDefaultTransaction: true,
		Logger:                 newGormSlogLogger(params.Logger, params.Config),
	})

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get PostgreSQL sql.DB")
	}

	if params.Metrics != nil {
		params.Metrics.Registry().MustRegister(collectors.NewDBStatsCollector(sqlDB, dbStatsCollectorDB))
	}

	monitor := &poolMonitor{db: sqlDB, logger: params.Logger, interval: poolCheckInterval}
	monitorCtx, stopMonitor := context.WithCancel(context.Background())

	params.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			if err := sqlDB.PingContext(ctx); err != nil {
				return errors.Wrap(err, "failed to ping PostgreSQL")
			}

			go monitor.run(monitorCtx)

			return nil
		},
		OnStop: func(_ context.Context) error {
			stopMonitor()

			return errors.WithStack(sqlDB.Close())
		},
	})

	return db, nil
}

// poolMonitor logs requests that had to wait for a pooled connection. Sign-in
// bursts show up here before they show up as latency.
type poolMonitor struct {
	db       *sql.DB
	logger   *slog.Logger
	interval time.Duration
}

func (m *poolMonitor) run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	prev := m.db.Stats()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cur := m.db.Stats()
			m.report(ctx, prev, cur)
			prev = cur
		}
	}
}

func (m *poolMonitor) report(ctx context.Context, prev, cur sql.DBStats) {
	waits := cur.WaitCount - prev.WaitCount
	if waits <= 0 {
		return
	}
	waited := cur.WaitDuration - prev.WaitDuration

	level := slog.LevelDebug
	if waited >= poolWaitWarnAfter {
		level = slog.LevelWarn
	}

	m.logger.LogAttrs(ctx, level, "Credential store pool saturated",
		slog.Int64("waits", waits),
		slog.Duration("waited", waited),
		slog.Duration("avg_wait", waited/time.Duration(waits)),
		slog.Int("open_conns", cur.OpenConnections),
		slog.Int("in_use", cur.InUse),
		slog.Int("max_open_conns", cur.MaxOpenConnections),
	)
}
