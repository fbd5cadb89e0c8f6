// Package retrieval ranks stored products against a user survey.
package retrieval

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/prodex/internal/docstore"
	domdoc "github.com/kailas-cloud/prodex/internal/domain/document"
	"github.com/kailas-cloud/prodex/internal/domain/product"
	"github.com/kailas-cloud/prodex/internal/domain/ranking"
	"github.com/kailas-cloud/prodex/internal/domain/survey"
	"github.com/kailas-cloud/prodex/internal/domain/vector"
	logpkg "github.com/kailas-cloud/prodex/internal/logger"
	"github.com/kailas-cloud/prodex/internal/metrics"
)

// Query vector blend when free text accompanies the survey.
const (
	surveyWeight = 0.7
	queryWeight  = 0.3
)

// DefaultCategoryLimit is the per-category result count for category and routine queries.
const DefaultCategoryLimit = 3

// RoutineCategories are the steps of a skincare routine, in order.
var RoutineCategories = []string{"cleanser", "serum", "moisturizer", "sunscreen"}

// Request kinds, used as metric labels.
const (
	kindRetrieve = "retrieve"
	kindCategory = "category"
	kindRoutine  = "routine"
	kindSearch   = "search"
)

var tracer = otel.Tracer("github.com/kailas-cloud/prodex/retrieval")

// Service runs hybrid retrieval: similarity search followed by attribute re-ranking.
type Service struct {
	store  Searcher
	ingest Ingestor
	embed  Embedder
	logger *zap.Logger

	defaultLimit  int
	minSimilarity float64
}

// New creates a retrieval service.
func New(store Searcher, ingest Ingestor, embed Embedder, logger *zap.Logger) *Service {
	return &Service{
		store:         store,
		ingest:        ingest,
		embed:         embed,
		logger:        logger,
		defaultLimit:  ranking.DefaultLimit,
		minSimilarity: ranking.DefaultMinSimilarity,
	}
}

// WithDefaults overrides the limit and similarity threshold used when options omit them.
func (s *Service) WithDefaults(limit int, minSimilarity float64) *Service {
	if limit > 0 {
		s.defaultLimit = limit
	}
	if minSimilarity > 0 {
		s.minSimilarity = minSimilarity
	}
	return s
}

// Retrieve ranks products for a survey. Only malformed options return an error;
// an empty store or no matches yield an empty response.
func (s *Service) Retrieve(ctx context.Context, sv survey.Survey, opts ranking.Options) (ranking.Response, error) {
	return s.retrieve(ctx, kindRetrieve, sv, opts, true)
}

// RetrieveByCategory ranks products of one category. limit <= 0 means DefaultCategoryLimit.
func (s *Service) RetrieveByCategory(
	ctx context.Context, sv survey.Survey, category string, limit int,
) (ranking.Response, error) {
	if limit <= 0 {
		limit = DefaultCategoryLimit
	}
	return s.retrieve(ctx, kindCategory, sv, ranking.Options{Category: category, Limit: limit}, true)
}

// RetrieveRoutine ranks the top products of every routine step in parallel.
func (s *Service) RetrieveRoutine(ctx context.Context, sv survey.Survey) (map[string]ranking.Response, error) {
	s.ensure(ctx)

	var mu sync.Mutex
	out := make(map[string]ranking.Response, len(RoutineCategories))
	g, gctx := errgroup.WithContext(ctx)
	for _, category := range RoutineCategories {
		g.Go(func() error {
			resp, err := s.retrieve(gctx, kindRoutine, sv,
				ranking.Options{Category: category, Limit: DefaultCategoryLimit}, false)
			if err != nil {
				return fmt.Errorf("%s: %w", category, err)
			}
			mu.Lock()
			out[category] = resp
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("retrieve routine: %w", err)
	}
	return out, nil
}

// Search runs a free-text query, optionally personalized by a survey.
// limit <= 0 means the default limit.
func (s *Service) Search(
	ctx context.Context, query string, sv *survey.Survey, limit int,
) (ranking.Response, error) {
	profile := survey.Survey{}
	if sv != nil {
		profile = *sv
	}
	if limit < 0 {
		limit = 0
	}
	return s.retrieve(ctx, kindSearch, profile, ranking.Options{
		Limit:                limit,
		NaturalLanguageQuery: query,
	}, true)
}

func (s *Service) ensure(ctx context.Context) {
	if res := s.ingest.EnsureIngested(ctx); !res.Success {
		logpkg.FromContext(ctx, s.logger).Warn("Ingestion check failed, serving current store",
			zap.String("run_id", res.RunID),
			zap.Error(res.Err),
		)
	}
}

func (s *Service) retrieve(
	ctx context.Context, kind string, sv survey.Survey, opts ranking.Options, ensure bool,
) (ranking.Response, error) {
	start := time.Now()
	metrics.RetrievalRequestsTotal.WithLabelValues(kind).Inc()
	defer func() {
		metrics.RetrievalDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	}()

	ctx, span := tracer.Start(ctx, "retrieval.Retrieve", trace.WithAttributes(
		attribute.String("prodex.retrieval.kind", kind),
		attribute.String("prodex.retrieval.category", opts.Category),
	))
	defer span.End()

	if opts.Limit == 0 {
		opts.Limit = s.defaultLimit
	}
	if opts.MinSimilarity == nil {
		v := s.minSimilarity
		opts.MinSimilarity = &v
	}
	opts, err := opts.Normalize()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return ranking.Response{}, err
	}
	if ensure {
		s.ensure(ctx)
	}

	qv := s.queryVector(&sv, opts.NaturalLanguageQuery)
	candidates, err := s.store.Search(ctx, qv, docstore.SearchOptions{
		TopK:          opts.Limit * ranking.OverFetchFactor,
		MinSimilarity: opts.MinSim(),
		Filter:        buildFilter(opts),
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return ranking.Response{}, fmt.Errorf("search: %w", err)
	}
	span.AddEvent("search", trace.WithAttributes(attribute.Int("prodex.retrieval.candidates", len(candidates))))
	metrics.RetrievalCandidates.Observe(float64(len(candidates)))

	results := rank(&sv, candidates)
	total := len(results)
	if len(results) > opts.Limit {
		results = results[:opts.Limit]
	}
	span.AddEvent("rank", trace.WithAttributes(attribute.Int("prodex.retrieval.returned", len(results))))
	logpkg.FromContext(ctx, s.logger).Debug("Retrieval completed",
		zap.String("kind", kind),
		zap.Int("candidates", len(candidates)),
		zap.Int("returned", len(results)),
	)

	return ranking.Response{
		Products:         results,
		Query:            ranking.Query{Survey: sv, Options: opts},
		TotalCandidates:  total,
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	}, nil
}

// queryVector embeds the survey and blends in the free-text query when present.
func (s *Service) queryVector(sv *survey.Survey, query string) vector.Vector {
	qv := s.embed.EmbedSurvey(sv)
	if strings.TrimSpace(query) == "" {
		return qv
	}
	return vector.Blend(qv, s.embed.EmbedQuery(query), surveyWeight, queryWeight)
}

// buildFilter combines the category and source restrictions. Nil means no filter.
func buildFilter(opts ranking.Options) docstore.Filter {
	var want product.Source
	switch opts.SourceFilter {
	case ranking.SourceMarketplaceOnly:
		want = product.SourceMarketplace
	case ranking.SourceDiscoveryOnly:
		want = product.SourceDiscovery
	}
	if opts.Category == "" && want == "" {
		return nil
	}
	return func(doc *domdoc.Document) bool {
		m := doc.Metadata()
		if opts.Category != "" && m.Category != opts.Category {
			return false
		}
		return want == "" || m.Source == want
	}
}

// rank scores candidates and orders them by final score. Ties keep search order.
func rank(sv *survey.Survey, candidates []docstore.SearchResult) []ranking.Result {
	results := make([]ranking.Result, len(candidates))
	for i := range candidates {
		m := candidates[i].Document.Metadata()
		attr, reasons := attributeScore(sv, &m)
		simScore, final := finalScore(candidates[i].Similarity, attr)
		results[i] = ranking.Result{
			ID:              candidates[i].Document.ID(),
			Metadata:        m,
			Similarity:      candidates[i].Similarity,
			SimilarityScore: simScore,
			AttributeScore:  attr,
			FinalScore:      final,
			MatchReasons:    reasons,
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].FinalScore > results[j].FinalScore
	})
	return results
}
