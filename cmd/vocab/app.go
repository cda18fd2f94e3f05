package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/pkordes/vocablog/internal/backup"
	"github.com/pkordes/vocablog/internal/config"
	"github.com/pkordes/vocablog/internal/corpus"
	"github.com/pkordes/vocablog/internal/metrics"
	"github.com/pkordes/vocablog/internal/repo"
	"github.com/pkordes/vocablog/internal/service"
	"github.com/pkordes/vocablog/migrations"
)

// app wires the stores and services one command needs.
type app struct {
	cfg     config.Config
	logger  *slog.Logger
	metrics *metrics.Metrics

	// storeKind is one of the config.Store* constants; source is its path or URL.
	storeKind string
	source    string

	words repo.WordRepo
	log   repo.RepeatLogStore
	vocab *service.VocabularyService

	closers []func()
}

// openApp opens the configured word store, applies migrations to relational
// stores and loads the vocabulary into memory.
func openApp(ctx context.Context, cfg config.Config, logger *slog.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: logger, metrics: metrics.New()}

	kind, source, err := cfg.Store()
	if err != nil {
		return nil, err
	}
	a.storeKind, a.source = kind, source

	if err := a.openStore(ctx); err != nil {
		a.Close()
		return nil, err
	}
	if cfg.ReadOnly && kind != config.StoreText {
		a.words = repo.ReadOnly(a.words)
	}
	a.log = repo.NewJSONRepeatLogStore(cfg.Path(cfg.RepeatLogFile))
	a.vocab = service.NewVocabularyService(a.words, a.log, a.metrics, logger)

	if err := a.vocab.Reload(ctx); err != nil {
		a.Close()
		return nil, fmt.Errorf("load vocabulary: %w", err)
	}
	return a, nil
}

func (a *app) openStore(ctx context.Context) error {
	switch a.storeKind {
	case config.StorePostgres:
		// pgxpool.New does not open connections; the Ping below does.
		pool, err := pgxpool.New(ctx, a.source)
		if err != nil {
			return fmt.Errorf("create database pool: %w", err)
		}
		a.closers = append(a.closers, pool.Close)
		if err := pool.Ping(ctx); err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}

		db := stdlib.OpenDBFromPool(pool)
		defer db.Close()
		n, err := migrations.Up(ctx, goose.DialectPostgres, db)
		if err != nil {
			return err
		}
		a.logger.Info("database connection established", "store", a.storeKind, "migrations_applied", n)
		a.words = repo.NewPgWordRepo(pool)

	case config.StoreSQLite:
		db, err := repo.OpenSQLite(a.source)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, func() { db.Close() })
		n, err := migrations.Up(ctx, goose.DialectSQLite3, db)
		if err != nil {
			return err
		}
		a.logger.Info("database opened", "store", a.storeKind, "path", a.source, "migrations_applied", n)
		a.words = repo.NewSQLiteWordRepo(db)

	default:
		a.logger.Debug("using text store", "path", a.source, "read_only", a.cfg.ReadOnly)
		a.words = repo.NewTextWordRepo(a.source, a.cfg.ReadOnly, a.logger)
	}
	return nil
}

// Close releases the store connections in reverse order.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func (a *app) quizService() *service.QuizService {
	return service.NewQuizService(a.vocab, a.log, a.metrics, a.logger, a.cfg.QuizChoices)
}

func (a *app) exampleService() *service.ExampleService {
	client := corpus.NewClient(a.cfg.CorpusURL, a.cfg.SynonymsURL, corpus.DefaultSelectors, nil)
	return service.NewExampleService(client, corpus.NewArticleSource(nil), a.metrics, a.logger)
}

// newBackupService needs no word store, so backups still work when the
// vocabulary cannot be loaded.
func newBackupService(cfg config.Config, logger *slog.Logger) (*service.BackupService, error) {
	drive, err := backup.NewDirDrive(cfg.Path(cfg.BackupDir))
	if err != nil {
		return nil, err
	}
	return service.NewBackupService(drive, cfg.DataDir, cfg.BackupPatterns, logger), nil
}

// withApp loads the configuration, opens the app for one CLI command and
// closes it afterwards.
func withApp(ctx context.Context, opts *options, fn func(a *app) error) error {
	cfg, err := opts.load()
	if err != nil {
		return err
	}
	a, err := openApp(ctx, cfg, cliLogger(cfg))
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}
