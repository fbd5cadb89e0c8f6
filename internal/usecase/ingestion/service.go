// Package ingestion projects catalog items into the document store and keeps it in sync.
package ingestion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/kailas-cloud/prodex/internal/domain"
	dombatch "github.com/kailas-cloud/prodex/internal/domain/batch"
	"github.com/kailas-cloud/prodex/internal/domain/product"
	logpkg "github.com/kailas-cloud/prodex/internal/logger"
	"github.com/kailas-cloud/prodex/internal/metrics"
)

// Trigger tells why an ingestion run happened.
type Trigger string

// Ingestion triggers.
const (
	TriggerInitial Trigger = "initial"
	TriggerDrift   Trigger = "drift"
	TriggerManual  Trigger = "manual"
	// TriggerNone marks an EnsureIngested call that found the store in sync.
	TriggerNone Trigger = "none"
)

// Result is the outcome of an ingestion run. Batch failures never panic; they
// come back with Success=false and Err set.
type Result struct {
	RunID    string
	Trigger  Trigger
	Success  bool
	Count    int
	Skipped  int
	Items    []dombatch.Result
	Duration time.Duration
	Err      error
}

var tracer = otel.Tracer("github.com/kailas-cloud/prodex/ingestion")

// Service loads the catalog into the document store.
type Service struct {
	catalog Catalog
	store   DocumentStore
	embed   Embedder
	urls    URLTemplates
	logger  *zap.Logger
	group   singleflight.Group
}

// New creates an ingestion service with the default URL templates.
func New(catalog Catalog, store DocumentStore, embed Embedder, logger *zap.Logger) *Service {
	return &Service{
		catalog: catalog,
		store:   store,
		embed:   embed,
		urls:    DefaultURLTemplates(),
		logger:  logger,
	}
}

// WithURLTemplates overrides product URL templates. Empty fields keep the defaults.
func (s *Service) WithURLTemplates(t URLTemplates) *Service {
	if t.Marketplace != "" {
		s.urls.Marketplace = t.Marketplace
	}
	if t.Discovery != "" {
		s.urls.Discovery = t.Discovery
	}
	return s
}

// IsIngested reports whether the store holds any document.
func (s *Service) IsIngested(ctx context.Context) bool {
	return s.store.Count(ctx) > 0
}

// IngestOne validates and stores a single product. Failures are logged and reported as false.
func (s *Service) IngestOne(ctx context.Context, p product.Product) bool {
	log := logpkg.FromContext(ctx, s.logger)
	doc, err := s.toDocument(p)
	if err != nil {
		log.Warn("Product rejected", zap.String("product_id", p.ID), zap.Error(err))
		return false
	}
	if err := s.store.Upsert(ctx, doc); err != nil {
		log.Warn("Product upsert failed", zap.String("product_id", p.ID), zap.Error(err))
		return false
	}
	return true
}

// IngestAll loads the whole catalog on top of the current store contents.
func (s *Service) IngestAll(ctx context.Context) Result {
	return s.listAndRun(ctx, TriggerManual, false)
}

// ReIngestAll clears the store and loads the whole catalog.
func (s *Service) ReIngestAll(ctx context.Context) Result {
	return s.listAndRun(ctx, TriggerManual, true)
}

// EnsureIngested bootstraps the store on first use and re-ingests when the
// store count drifts from the number of ingestible catalog items. Concurrent
// callers share one in-flight run.
func (s *Service) EnsureIngested(ctx context.Context) Result {
	v, _, _ := s.group.Do("ensure", func() (any, error) {
		return s.ensure(ctx), nil
	})
	return v.(Result)
}

func (s *Service) ensure(ctx context.Context) Result {
	stored := s.store.Count(ctx)
	trigger := TriggerDrift
	if stored == 0 {
		trigger = TriggerInitial
	}

	products, err := s.catalog.List(ctx)
	if err != nil {
		return s.fail(newRun(trigger), fmt.Errorf("list catalog: %w", wrapCatalog(err)))
	}

	if stored > 0 {
		ingestible := countIngestible(products)
		if stored == ingestible {
			return Result{Trigger: TriggerNone, Success: true, Count: stored}
		}
		logpkg.FromContext(ctx, s.logger).Info("Catalog drift detected",
			zap.Int("stored", stored),
			zap.Int("catalog", ingestible),
		)
	}

	r := newRun(trigger)
	pr, err := s.project(ctx, products)
	if err != nil {
		return s.fail(r, err)
	}
	return s.run(ctx, r, pr, stored > 0)
}

func (s *Service) listAndRun(ctx context.Context, trigger Trigger, clear bool) Result {
	r := newRun(trigger)
	products, err := s.catalog.List(ctx)
	if err != nil {
		return s.fail(r, fmt.Errorf("list catalog: %w", wrapCatalog(err)))
	}
	pr, err := s.project(ctx, products)
	if err != nil {
		return s.fail(r, err)
	}
	return s.run(ctx, r, pr, clear)
}

type run struct {
	id      string
	trigger Trigger
	started time.Time
}

func newRun(trigger Trigger) run {
	return run{id: uuid.NewString(), trigger: trigger, started: time.Now()}
}

// run writes a projected catalog into the store.
func (s *Service) run(ctx context.Context, r run, pr projection, clear bool) Result {
	ctx, span := tracer.Start(ctx, "ingestion.Run", trace.WithAttributes(
		attribute.String("prodex.ingestion.run_id", r.id),
		attribute.String("prodex.ingestion.trigger", string(r.trigger)),
		attribute.Int("prodex.ingestion.catalog_items", len(pr.items)),
	))
	defer span.End()

	if err := ctx.Err(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return s.fail(r, fmt.Errorf("ingestion cancelled: %w", err))
	}

	if clear {
		s.store.Clear(ctx)
	}
	if len(pr.docs) > 0 {
		if err := s.store.UpsertMany(ctx, pr.docs); err != nil {
			span.SetStatus(codes.Error, err.Error())
			return s.fail(r, fmt.Errorf("store documents: %w", err))
		}
	}

	res := Result{
		RunID:    r.id,
		Trigger:  r.trigger,
		Success:  true,
		Count:    len(pr.docs),
		Skipped:  pr.skipped(),
		Items:    pr.items,
		Duration: time.Since(r.started),
	}
	span.AddEvent("stored", trace.WithAttributes(
		attribute.Int("prodex.ingestion.count", res.Count),
		attribute.Int("prodex.ingestion.skipped", res.Skipped),
	))

	metrics.IngestionRunsTotal.WithLabelValues(string(r.trigger), "ok").Inc()
	metrics.IngestedDocuments.Set(float64(s.store.Count(ctx)))

	log := logpkg.FromContext(ctx, s.logger)
	for _, item := range pr.items {
		if item.Status() == dombatch.StatusSkipped {
			log.Warn("Catalog item skipped",
				zap.String("run_id", r.id),
				zap.String("document_id", item.ID()),
				zap.Error(item.Err()),
			)
		}
	}
	log.Info("Ingestion completed",
		zap.String("run_id", r.id),
		zap.String("trigger", string(r.trigger)),
		zap.Int("count", res.Count),
		zap.Int("skipped", res.Skipped),
		zap.Duration("duration", res.Duration),
	)
	return res
}

func (s *Service) fail(r run, err error) Result {
	metrics.IngestionRunsTotal.WithLabelValues(string(r.trigger), "error").Inc()
	s.logger.Warn("Ingestion failed",
		zap.String("run_id", r.id),
		zap.String("trigger", string(r.trigger)),
		zap.Error(err),
	)
	return Result{
		RunID:    r.id,
		Trigger:  r.trigger,
		Success:  false,
		Duration: time.Since(r.started),
		Err:      err,
	}
}

// wrapCatalog tags catalog read failures with ErrCatalogUnavailable.
func wrapCatalog(err error) error {
	if errors.Is(err, domain.ErrCatalogUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrCatalogUnavailable, err)
}
