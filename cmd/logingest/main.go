package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gocql/gocql"
	"github.com/rs/zerolog"

	"github.com/akave-ai/logingest/internal/config"
	"github.com/akave-ai/logingest/internal/database"
	"github.com/akave-ai/logingest/internal/handler"
	"github.com/akave-ai/logingest/internal/infrastructure/sources"
	_ "github.com/akave-ai/logingest/internal/infrastructure/sources/localsource"
	_ "github.com/akave-ai/logingest/internal/infrastructure/sources/s3source"
	"github.com/akave-ai/logingest/internal/ingest"
	"github.com/akave-ai/logingest/internal/logger"
	"github.com/akave-ai/logingest/internal/repository"
	"github.com/akave-ai/logingest/internal/server"
)

func main() {
	cfg, err := config.Load(config.FilePath())
	if err != nil {
		boot := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
		boot.Fatal().Err(err).Msg("could not load config")
	}
	log := logger.New(cfg.Observability, nil)

	nrApp, err := logger.NewRelicApp(cfg.Observability)
	if err != nil {
		log.Fatal().Err(err).Msg("new relic")
	}
	if nrApp != nil {
		defer nrApp.Shutdown(10 * time.Second)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reader, err := sources.GlobalRegistry.Create(ctx, cfg.Source.Backend, cfg.Source.ReaderConfig())
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Source.Backend).Msg("source reader")
	}
	log.Info().Str("backend", cfg.Source.Backend).Strs("available", sources.GlobalRegistry.ListRegistered()).Msg("source reader ready")

	log.Info().Strs("hosts", cfg.Scylla.Hosts).Str("dc", cfg.Scylla.DC).Msg("connecting to scylla")
	session, err := database.NewScyllaSession(database.ScyllaOptions{
		Hosts:      cfg.Scylla.Hosts,
		DataCenter: cfg.Scylla.DC,
		Timeout:    cfg.Scylla.Timeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("scylla")
	}
	defer session.Close()

	// The schema must be complete before the listener opens.
	exec := database.NewSessionExecutor(session)
	if err := database.BootstrapSchemaFile(ctx, exec, cfg.Scylla.SchemaFile, log); err != nil {
		log.Fatal().Err(err).Msg("schema bootstrap")
	}
	insertPermits := database.NewInsertPermits(cfg.Ingest.DBParallelism)
	writer := database.NewWriter(exec.WithConsistency(gocql.Any), insertPermits, log)

	var runs handler.RunStore
	if cfg.Ledger.Enabled() {
		if err := database.RunMigrations(ctx, cfg.Ledger.DatabaseURL, log); err != nil {
			log.Fatal().Err(err).Msg("ledger migrations")
		}
		pool, err := database.NewPool(ctx, cfg.Ledger.DatabaseURL, log, nrApp != nil)
		if err != nil {
			log.Fatal().Err(err).Msg("ledger pool")
		}
		defer pool.Close()
		runs = repository.NewIngestionRunRepository(pool)
	}

	fetchPermits := ingest.NewFetchPermits(cfg.Ingest.ParallelFiles)
	orch := ingest.New(reader, writer, fetchPermits, log)
	srv := server.New(cfg, server.Deps{
		Ingester: orch,
		Runs:     runs,
		Sources:  sources.GlobalRegistry,
		NewRelic: nrApp,
		Logger:   log,
	})

	log.Info().
		Int("parallel_files", cfg.Ingest.ParallelFiles).
		Int("db_parallelism", cfg.Ingest.DBParallelism).
		Bool("ledger", cfg.Ledger.Enabled()).
		Msg("ingestion service configured")
	if err := srv.Start(ctx); err != nil {
		log.Error().Err(err).Msg("server exited")
		os.Exit(1)
	}
	log.Info().Msg("server stopped")
}
