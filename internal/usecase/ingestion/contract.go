package ingestion

import (
	"context"

	domdoc "github.com/kailas-cloud/prodex/internal/domain/document"
	"github.com/kailas-cloud/prodex/internal/domain/product"
	"github.com/kailas-cloud/prodex/internal/domain/vector"
	"github.com/kailas-cloud/prodex/internal/vectorizer"
)

// Catalog lists the products to ingest.
type Catalog interface {
	List(ctx context.Context) ([]product.Product, error)
}

// DocumentStore holds the ingested documents.
type DocumentStore interface {
	Upsert(ctx context.Context, doc domdoc.Document) error
	UpsertMany(ctx context.Context, docs []domdoc.Document) error
	Clear(ctx context.Context)
	Count(ctx context.Context) int
}

// Embedder projects structured product fields into a vector.
type Embedder interface {
	EmbedStructured(f vectorizer.Fields) vector.Vector
}
