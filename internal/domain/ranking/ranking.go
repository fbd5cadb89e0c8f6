// Package ranking holds retrieval options and ranked result types.
package ranking

import (
	"fmt"

	"github.com/kailas-cloud/prodex/internal/domain"
	"github.com/kailas-cloud/prodex/internal/domain/document"
	"github.com/kailas-cloud/prodex/internal/domain/survey"
)

// SourceFilter restricts results by product source.
type SourceFilter string

// Source filter values.
const (
	SourceAll             SourceFilter = "all"
	SourceMarketplaceOnly SourceFilter = "marketplace-only"
	SourceDiscoveryOnly   SourceFilter = "discovery-only"
)

// Retrieval defaults.
const (
	DefaultLimit         = 10
	DefaultMinSimilarity = 0.05
	// OverFetchFactor is how many more candidates than limit are pulled before re-ranking.
	OverFetchFactor = 3
)

// Options tune a single retrieval.
type Options struct {
	Category             string       `json:"category,omitempty"`
	Limit                int          `json:"limit,omitempty"`
	MinSimilarity        *float64     `json:"minSimilarity,omitempty"`
	NaturalLanguageQuery string       `json:"naturalLanguageQuery,omitempty"`
	SourceFilter         SourceFilter `json:"sourceFilter,omitempty"`
}

// Normalize fills defaults and validates the options.
func (o Options) Normalize() (Options, error) {
	if o.Limit < 0 {
		return o, fmt.Errorf("limit must not be negative, got %d: %w", o.Limit, domain.ErrInvalidOptions)
	}
	if o.Limit == 0 {
		o.Limit = DefaultLimit
	}
	if o.MinSimilarity == nil {
		v := DefaultMinSimilarity
		o.MinSimilarity = &v
	}
	switch o.SourceFilter {
	case "":
		o.SourceFilter = SourceAll
	case SourceAll, SourceMarketplaceOnly, SourceDiscoveryOnly:
	default:
		return o, fmt.Errorf("unknown source filter %q: %w", o.SourceFilter, domain.ErrInvalidOptions)
	}
	return o, nil
}

// MinSim returns the similarity threshold, defaulting when unset.
func (o Options) MinSim() float64 {
	if o.MinSimilarity == nil {
		return DefaultMinSimilarity
	}
	return *o.MinSimilarity
}

// Result is a document with its hybrid ranking explanation.
type Result struct {
	ID              string
	Metadata        document.Metadata
	Similarity      float64
	SimilarityScore float64
	AttributeScore  int
	FinalScore      float64
	MatchReasons    []string
}

// Response is the outcome of one retrieval.
type Response struct {
	Products         []Result
	Query            Query
	TotalCandidates  int
	ProcessingTimeMs int64
}

// Query echoes what was asked.
type Query struct {
	Survey  survey.Survey
	Options Options
}
