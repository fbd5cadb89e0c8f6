package prodex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/prodex/internal/catalog"
	"github.com/kailas-cloud/prodex/internal/db"
	dbBolt "github.com/kailas-cloud/prodex/internal/db/bolt"
	dbMemory "github.com/kailas-cloud/prodex/internal/db/memory"
	dbRedis "github.com/kailas-cloud/prodex/internal/db/redis"
	dbSQLite "github.com/kailas-cloud/prodex/internal/db/sqlite"
	"github.com/kailas-cloud/prodex/internal/docstore"
	"github.com/kailas-cloud/prodex/internal/repository/snapshot"
	healthuc "github.com/kailas-cloud/prodex/internal/usecase/health"
	"github.com/kailas-cloud/prodex/internal/usecase/ingestion"
	"github.com/kailas-cloud/prodex/internal/usecase/retrieval"
	"github.com/kailas-cloud/prodex/internal/vectorizer"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces so tests can substitute the engine.
type retrievalUseCase interface {
	Retrieve(ctx context.Context, sv Survey, opts Options) (Response, error)
	RetrieveByCategory(ctx context.Context, sv Survey, category string, limit int) (Response, error)
	RetrieveRoutine(ctx context.Context, sv Survey) (map[string]Response, error)
	Search(ctx context.Context, query string, sv *Survey, limit int) (Response, error)
}

type ingestionUseCase interface {
	EnsureIngested(ctx context.Context) ingestion.Result
	ReIngestAll(ctx context.Context) ingestion.Result
}

// Client is the prodex SDK entry point.
type Client struct {
	store     db.Store
	catalog   *catalog.Static
	retrieval retrievalUseCase
	ingestion ingestionUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client, opening the snapshot database when one is configured.
// The provided context is used for the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{driver: "memory"}
	for _, o := range opts {
		o.apply(cfg)
	}

	src, static, err := createCatalog(cfg)
	if err != nil {
		return nil, err
	}

	store, err := createStore(cfg)
	if err != nil {
		return nil, err
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("prodex: database not ready: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		store.Close()
		return nil, err
	}
	c := wireClient(store, src, cfg, obs)
	c.catalog = static
	return c, nil
}

func createCatalog(cfg *clientConfig) (ingestion.Catalog, *catalog.Static, error) {
	if cfg.catalogPath != "" {
		f, err := catalog.NewFile(cfg.catalogPath, "")
		if err != nil {
			return nil, nil, fmt.Errorf("prodex: %w", err)
		}
		return f, nil, nil
	}
	static := catalog.NewStatic(cfg.products)
	return static, static, nil
}

func createStore(cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "memory":
		return dbMemory.NewStore(), nil
	case "valkey", "redis":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, fmt.Errorf("prodex: create %s store: %w", cfg.driver, err)
		}
		return s, nil
	case "sqlite":
		s, err := dbSQLite.NewStore(cfg.path)
		if err != nil {
			return nil, fmt.Errorf("prodex: create sqlite store: %w", err)
		}
		return s, nil
	case "bolt":
		s, err := dbBolt.NewStore(dbBolt.Config{Path: cfg.path})
		if err != nil {
			return nil, fmt.Errorf("prodex: create bolt store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("prodex: unknown driver %q", cfg.driver)
	}
}

func wireClient(store db.Store, src ingestion.Catalog, cfg *clientConfig, obs *observer) *Client {
	// Engine internals log through zap; SDK callers get slog via the observer.
	logger := zap.NewNop()

	snap := snapshot.New(store, cfg.snapshotKey, logger)
	docs := docstore.New(snap, logger)
	vec := vectorizer.New()

	ingSvc := ingestion.New(src, docs, vec, logger).WithURLTemplates(ingestion.URLTemplates{
		Marketplace: cfg.marketplaceURL,
		Discovery:   cfg.discoveryURL,
	})
	retSvc := retrieval.New(docs, ingSvc, vec, logger).
		WithDefaults(cfg.defaultLimit, cfg.minSimilarity)

	return &Client{
		store:     store,
		retrieval: retSvc,
		ingestion: ingSvc,
		healthSvc: healthuc.New(store, docs),
		obs:       obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks snapshot database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, 0, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// SetCatalog replaces the products of a WithCatalog client.
// The next retrieval notices the change and re-ingests.
func (c *Client) SetCatalog(products []Product) error {
	if c.catalog == nil {
		return errors.New("prodex: catalog is file-backed (use WithCatalog for a mutable catalog)")
	}
	c.catalog.Set(products)
	return nil
}

// Retrieve ranks products for a survey.
func (c *Client) Retrieve(ctx context.Context, sv Survey, opts Options) (resp Response, err error) {
	start := time.Now()
	defer func() { c.obs.observe("retrieve", start, len(resp.Products), err) }()

	resp, err = c.retrieval.Retrieve(ctx, sv, opts)
	if err != nil {
		return Response{}, fmt.Errorf("retrieve: %w", err)
	}
	return resp, nil
}

// RetrieveByCategory ranks products of one category.
func (c *Client) RetrieveByCategory(
	ctx context.Context, sv Survey, category string, limit int,
) (resp Response, err error) {
	start := time.Now()
	defer func() { c.obs.observe("retrieve_category", start, len(resp.Products), err) }()

	resp, err = c.retrieval.RetrieveByCategory(ctx, sv, category, limit)
	if err != nil {
		return Response{}, fmt.Errorf("retrieve %s: %w", category, err)
	}
	return resp, nil
}

// Routine ranks the top products for every routine step (cleanser, serum, moisturizer, sunscreen).
func (c *Client) Routine(ctx context.Context, sv Survey) (steps map[string]Response, err error) {
	start := time.Now()
	defer func() {
		n := 0
		for _, s := range steps {
			n += len(s.Products)
		}
		c.obs.observe("routine", start, n, err)
	}()

	steps, err = c.retrieval.RetrieveRoutine(ctx, sv)
	if err != nil {
		return nil, fmt.Errorf("routine: %w", err)
	}
	return steps, nil
}

// Search ranks products for a free-text query.
func (c *Client) Search(ctx context.Context, query string, limit int) (resp Response, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, len(resp.Products), err) }()

	resp, err = c.retrieval.Search(ctx, query, nil, limit)
	if err != nil {
		return Response{}, fmt.Errorf("search: %w", err)
	}
	return resp, nil
}

// Ensure ingests the catalog only if the store is empty or out of sync.
func (c *Client) Ensure(ctx context.Context) (IngestResult, error) {
	return c.ingest(ctx, "ensure", c.ingestion.EnsureIngested)
}

// Ingest clears the store and re-ingests the whole catalog.
func (c *Client) Ingest(ctx context.Context) (IngestResult, error) {
	return c.ingest(ctx, "ingest", c.ingestion.ReIngestAll)
}

func (c *Client) ingest(
	ctx context.Context, op string, run func(context.Context) ingestion.Result,
) (out IngestResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe(op, start, out.Count, err) }()

	res := run(ctx)
	out = IngestResult{
		RunID:    res.RunID,
		Trigger:  string(res.Trigger),
		Count:    res.Count,
		Skipped:  res.Skipped,
		Duration: res.Duration,
	}
	if !res.Success {
		return out, fmt.Errorf("%s: %w", op, res.Err)
	}
	return out, nil
}
