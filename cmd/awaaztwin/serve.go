package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mukundajmera/AwaazTwin/internal/api"
	"github.com/mukundajmera/AwaazTwin/internal/domain/archive"
	"github.com/mukundajmera/AwaazTwin/internal/domain/connectivity"
	"github.com/mukundajmera/AwaazTwin/internal/domain/content"
	"github.com/mukundajmera/AwaazTwin/internal/domain/practice"
	"github.com/mukundajmera/AwaazTwin/internal/domain/testrun"
	"github.com/mukundajmera/AwaazTwin/internal/infra/config"
	"github.com/mukundajmera/AwaazTwin/internal/infra/eventbus"
	"github.com/mukundajmera/AwaazTwin/internal/infra/llm"
	"github.com/mukundajmera/AwaazTwin/internal/infra/logging"
	"github.com/mukundajmera/AwaazTwin/internal/infra/sqlite"
	"github.com/mukundajmera/AwaazTwin/internal/infra/storage"
	"github.com/mukundajmera/AwaazTwin/internal/infra/tts"
	"github.com/mukundajmera/AwaazTwin/internal/server"
	"github.com/mukundajmera/AwaazTwin/internal/version"
)

// closerFunc adapts a plain func to io.Closer for the server's shutdown list.
type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// setup loads configuration and installs the process logger.
func setup() (config.Config, *slog.Logger, io.Closer, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, nil, nil, err
	}
	logger, logCloser, err := logging.New(cfg.Log)
	if err != nil {
		logger.Warn("log file unavailable, logging to stderr", "file", cfg.Log.File, "error", err)
	}
	return cfg, logger, logCloser, nil
}

// openDB opens the practice/archive database, creating its directory, and migrates it.
func openDB(ctx context.Context, path string) (*sql.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}
	db, err := sqlite.NewDB(path)
	if err != nil {
		return nil, err
	}
	if err := sqlite.MigrateUp(ctx, db); err != nil {
		db.Close() //nolint:errcheck
		return nil, err
	}
	return db, nil
}

func newConnectivity(cfg config.Config, logger *slog.Logger, events eventbus.Publisher) *connectivity.Service {
	return connectivity.NewService(
		llm.NewClient(llm.WithLogger(logger)),
		tts.NewClient(tts.WithLogger(logger)),
		cfg.ProductionMode(),
		events,
	).WithLogger(logger)
}

func newRunner(cfg config.Config, logger *slog.Logger) *testrun.Runner {
	return testrun.NewRunner(testrun.Options{
		Mode:    testrun.Mode(cfg.Tests.Mode),
		WorkDir: cfg.Tests.WorkDir,
		Logger:  logger,
	})
}

// startArchiver wires the audio archive when storage is enabled. A bucket that cannot be
// reached is logged and archiving stays on; uploads will log their own failures.
func startArchiver(ctx context.Context, cfg config.StorageConfig, db *sql.DB, bus eventbus.EventBus, logger *slog.Logger) (*archive.Archiver, error) {
	bucket, err := storage.New(ctx, storage.Options{
		Endpoint:  cfg.Endpoint,
		Bucket:    cfg.Bucket,
		Prefix:    cfg.Prefix,
		Region:    cfg.Region,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}
	if err := bucket.Check(ctx); err != nil {
		logger.Warn("audio archive bucket not reachable", "bucket", bucket.Name(), "error", err)
	}

	archiver := archive.NewArchiver(bucket, db, logger)
	archiver.Subscribe(bus)
	go archiver.Run(ctx)
	logger.Info("audio archive enabled", "bucket", bucket.Name(), "prefix", bucket.Prefix())
	return archiver, nil
}

func runServe(ctx context.Context, out io.Writer) int {
	cfg, logger, logCloser, err := setup()
	if err != nil {
		fmt.Fprintf(out, "config: %v\n", err) //nolint:errcheck
		return 1
	}
	defer logCloser.Close() //nolint:errcheck

	db, err := openDB(ctx, cfg.Data.DBPath)
	if err != nil {
		logger.Error("open database", "path", cfg.Data.DBPath, "error", err)
		return 1
	}

	bus := eventbus.New()
	deps := api.Deps{
		Connectivity: newConnectivity(cfg, logger, bus),
		Practice:     practice.NewService(db),
		Content:      content.NewStore(cfg.Data.ContentDir),
		Tests:        newRunner(cfg, logger),
		StaticDir:    cfg.Server.StaticDir,
		Logger:       logger,
	}
	if cfg.Storage.Enabled {
		archiver, err := startArchiver(ctx, cfg.Storage, db, bus, logger)
		if err != nil {
			logger.Error("audio archive disabled", "error", err)
		} else {
			deps.Archive = archiver
		}
	}

	srvCfg := server.DefaultConfig()
	srvCfg.Host, srvCfg.Port = cfg.Server.Host, cfg.Server.Port
	srv := server.NewServer(api.NewRouter(deps), srvCfg, logger,
		closerFunc(func() error { bus.Close(); return nil }),
		db,
	)

	logger.Info("starting "+version.Name,
		"version", version.Version,
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"production", cfg.ProductionMode(),
		"tests_mode", cfg.Tests.Mode,
	)
	if err := srv.Start(ctx); err != nil {
		logger.Error("server stopped", "error", err)
		return 1
	}
	return 0
}
