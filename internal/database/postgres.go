package database

import (
	"context"
	"fmt"

	zerologadapter "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/multitracer"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/newrelic/go-agent/v3/integrations/nrpgx5"
	"github.com/rs/zerolog"
)

// NewPool opens the ledger connection pool. Queries are logged through
// zerolog at warn level and traced as New Relic segments when withNewRelic is set.
func NewPool(ctx context.Context, databaseURL string, logger zerolog.Logger, withNewRelic bool) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	tracers := []pgx.QueryTracer{
		&tracelog.TraceLog{
			Logger:   zerologadapter.NewLogger(logger.With().Str("component", "ledger-db").Logger()),
			LogLevel: tracelog.LogLevelWarn,
		},
	}
	if withNewRelic {
		tracers = append(tracers, nrpgx5.NewTracer())
	}
	cfg.ConnConfig.Tracer = multitracer.New(tracers...)

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("new pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return pool, nil
}
