package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/prodex/internal/catalog"
	"github.com/kailas-cloud/prodex/internal/config"
	"github.com/kailas-cloud/prodex/internal/db"
	dbBolt "github.com/kailas-cloud/prodex/internal/db/bolt"
	dbMemory "github.com/kailas-cloud/prodex/internal/db/memory"
	dbRedis "github.com/kailas-cloud/prodex/internal/db/redis"
	dbSQLite "github.com/kailas-cloud/prodex/internal/db/sqlite"
	"github.com/kailas-cloud/prodex/internal/docstore"
	logpkg "github.com/kailas-cloud/prodex/internal/logger"
	"github.com/kailas-cloud/prodex/internal/metrics"
	"github.com/kailas-cloud/prodex/internal/repository/snapshot"
	healthuc "github.com/kailas-cloud/prodex/internal/usecase/health"
	"github.com/kailas-cloud/prodex/internal/usecase/ingestion"
	"github.com/kailas-cloud/prodex/internal/usecase/retrieval"
	"github.com/kailas-cloud/prodex/internal/vectorizer"
)

// app is the composition root shared by every subcommand.
type app struct {
	cfg       config.Config
	logger    *zap.Logger
	db        db.Store
	store     *docstore.Store
	ingestion *ingestion.Service
	retrieval *retrieval.Service
	health    *healthuc.Service
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	kv, err := openDatabase(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.Database.Driver, err)
	}
	if err := kv.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		kv.Close()
		return nil, fmt.Errorf("database not ready: %w", err)
	}
	logger.Info("Connected to database",
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("db_path", cfg.Database.Path),
	)

	metrics.RegisterEngineMetrics()

	snap := snapshot.New(kv, cfg.Snapshot.Key, logger).
		WithMetrics(metrics.SnapshotWritesTotal, metrics.SnapshotLoadsTotal)
	store := docstore.New(snap, logger)

	catalogFormat, err := catalog.ParseFormat(cfg.Catalog.Format)
	if err != nil {
		kv.Close()
		return nil, fmt.Errorf("catalog: %w", err)
	}
	src, err := catalog.NewFile(cfg.Catalog.Path, catalogFormat)
	if err != nil {
		kv.Close()
		return nil, fmt.Errorf("catalog: %w", err)
	}

	vec := vectorizer.New()
	ing := ingestion.New(src, store, vec, logger).WithURLTemplates(ingestion.URLTemplates{
		Marketplace: cfg.Retrieval.MarketplaceURL,
		Discovery:   cfg.Retrieval.DiscoveryURL,
	})
	ret := retrieval.New(store, ing, vec, logger).
		WithDefaults(cfg.Retrieval.DefaultLimit, cfg.Retrieval.MinSimilarity)

	return &app{
		cfg:       cfg,
		logger:    logger,
		db:        kv,
		store:     store,
		ingestion: ing,
		retrieval: ret,
		health:    healthuc.New(kv, store),
	}, nil
}

func (a *app) Close() {
	a.db.Close()
	_ = a.logger.Sync()
}

// openDatabase picks the snapshot backend. Redis and Valkey share the rueidis driver.
func openDatabase(cfg *config.DatabaseConfig) (db.Store, error) {
	switch strings.ToLower(cfg.Driver) {
	case config.DriverMemory:
		return dbMemory.NewStore(), nil
	case config.DriverRedis, config.DriverValkey:
		return dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Addrs,
			Password: cfg.Password,
		})
	case config.DriverSQLite:
		return dbSQLite.NewStore(cfg.Path)
	case config.DriverBolt:
		return dbBolt.NewStore(dbBolt.Config{Path: cfg.Path})
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}
