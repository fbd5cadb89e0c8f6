// Package format renders retrieval responses for machines and for chat.
package format

import (
	"math"

	"github.com/kailas-cloud/prodex/internal/domain/ranking"
	"github.com/kailas-cloud/prodex/internal/domain/survey"
)

// Product is the machine projection of one ranked result.
type Product struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Brand           string   `json:"brand"`
	Category        string   `json:"category"`
	Price           float64  `json:"price"`
	Rating          float64  `json:"rating"`
	Source          string   `json:"source"`
	SimilarityScore float64  `json:"similarityScore"`
	AttributeScore  int      `json:"attributeScore"`
	FinalScore      float64  `json:"finalScore"`
	MatchReasons    []string `json:"matchReasons"`
	ProductURL      string   `json:"productUrl"`
	MarketplaceURL  string   `json:"marketplaceUrl"`
	Image           string   `json:"image,omitempty"`
	InStock         bool     `json:"inStock"`
}

// Query summarizes what was asked.
type Query struct {
	SkinType     string   `json:"skinType,omitempty"`
	Concerns     []string `json:"concerns,omitempty"`
	Category     string   `json:"category,omitempty"`
	Limit        int      `json:"limit"`
	SourceFilter string   `json:"sourceFilter,omitempty"`
	Text         string   `json:"naturalLanguageQuery,omitempty"`
}

// Response is the machine projection of a retrieval.
type Response struct {
	Products         []Product `json:"products"`
	Query            Query     `json:"query"`
	TotalCandidates  int       `json:"totalCandidates"`
	ProcessingTimeMs int64     `json:"processingTimeMs"`
}

// JSON projects a response for API consumers. Scores are rounded to one decimal.
func JSON(resp *ranking.Response) Response {
	out := Response{
		Products:         make([]Product, len(resp.Products)),
		Query:            querySummary(&resp.Query.Survey, &resp.Query.Options),
		TotalCandidates:  resp.TotalCandidates,
		ProcessingTimeMs: resp.ProcessingTimeMs,
	}
	for i := range resp.Products {
		r := &resp.Products[i]
		reasons := r.MatchReasons
		if reasons == nil {
			reasons = []string{}
		}
		out.Products[i] = Product{
			ID:              r.ID,
			Name:            r.Metadata.Name,
			Brand:           r.Metadata.Brand,
			Category:        r.Metadata.Category,
			Price:           r.Metadata.Price,
			Rating:          r.Metadata.Rating,
			Source:          string(r.Metadata.Source),
			SimilarityScore: round1(r.SimilarityScore),
			AttributeScore:  r.AttributeScore,
			FinalScore:      round1(r.FinalScore),
			MatchReasons:    reasons,
			ProductURL:      r.Metadata.ProductURL,
			MarketplaceURL:  r.Metadata.ProductURL,
			Image:           r.Metadata.Image,
			InStock:         r.Metadata.InStock,
		}
	}
	return out
}

// Routine projects a per-category routine.
func Routine(steps map[string]ranking.Response) map[string]Response {
	out := make(map[string]Response, len(steps))
	for category, resp := range steps {
		out[category] = JSON(&resp)
	}
	return out
}

func querySummary(s *survey.Survey, o *ranking.Options) Query {
	return Query{
		SkinType:     s.SkinType,
		Concerns:     s.Concerns,
		Category:     o.Category,
		Limit:        o.Limit,
		SourceFilter: string(o.SourceFilter),
		Text:         o.NaturalLanguageQuery,
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
