package retrieval

import (
	"context"

	"github.com/kailas-cloud/prodex/internal/docstore"
	"github.com/kailas-cloud/prodex/internal/domain/survey"
	"github.com/kailas-cloud/prodex/internal/domain/vector"
	"github.com/kailas-cloud/prodex/internal/usecase/ingestion"
)

// Searcher runs filtered similarity search over stored documents.
type Searcher interface {
	Search(ctx context.Context, query vector.Vector, opts docstore.SearchOptions) ([]docstore.SearchResult, error)
}

// Ingestor makes sure the store reflects the catalog before a query.
type Ingestor interface {
	EnsureIngested(ctx context.Context) ingestion.Result
}

// Embedder vectorizes surveys and free-text queries.
type Embedder interface {
	EmbedSurvey(s *survey.Survey) vector.Vector
	EmbedQuery(query string) vector.Vector
}
