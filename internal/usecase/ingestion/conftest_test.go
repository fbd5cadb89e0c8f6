package ingestion

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/prodex/internal/docstore"
	domdoc "github.com/kailas-cloud/prodex/internal/domain/document"
	"github.com/kailas-cloud/prodex/internal/domain/product"
	"github.com/kailas-cloud/prodex/internal/domain/vector"
	"github.com/kailas-cloud/prodex/internal/vectorizer"
)

// --- Mocks ---

type mockCatalog struct {
	mu       sync.Mutex
	products []product.Product
	err      error
	calls    int
	listFn   func(ctx context.Context) ([]product.Product, error)
}

func (m *mockCatalog) List(ctx context.Context) ([]product.Product, error) {
	m.mu.Lock()
	m.calls++
	fn := m.listFn
	products, err := m.products, m.err
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx)
	}
	return products, err
}

func (m *mockCatalog) set(products []product.Product) {
	m.mu.Lock()
	m.products = products
	m.mu.Unlock()
}

func (m *mockCatalog) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// failingStore wraps a real store and fails writes.
type failingStore struct {
	*docstore.Store
	err error
}

func (f *failingStore) Upsert(_ context.Context, _ domdoc.Document) error { return f.err }

func (f *failingStore) UpsertMany(_ context.Context, _ []domdoc.Document) error { return f.err }

// countingEmbedder wraps the real vectorizer and counts EmbedStructured calls.
type countingEmbedder struct {
	*vectorizer.Vectorizer
	mu    sync.Mutex
	calls int
}

func (c *countingEmbedder) EmbedStructured(f vectorizer.Fields) vector.Vector {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	return c.Vectorizer.EmbedStructured(f)
}

func (c *countingEmbedder) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// --- Helpers ---

func newTestService(t *testing.T, products []product.Product) (*Service, *mockCatalog, *docstore.Store) {
	t.Helper()
	cat := &mockCatalog{products: products}
	store := docstore.New(nil, zap.NewNop())
	return New(cat, store, vectorizer.New(), zap.NewNop()), cat, store
}

func testProduct(id string) product.Product {
	return product.Product{
		ID:             id,
		Name:           "Product " + id,
		Brand:          "Brand",
		Category:       "serum",
		Description:    "A lightweight serum for daily use",
		Price:          20,
		Rating:         4.5,
		SkinTypes:      []string{"oily"},
		Concerns:       []string{"acne"},
		KeyIngredients: []string{"niacinamide"},
		Preferences:    product.Preferences{Vegan: true},
		InStock:        true,
	}
}

func testProducts(n int) []product.Product {
	out := make([]product.Product, n)
	for i := range out {
		out[i] = testProduct(fmt.Sprintf("%d", i+1))
	}
	return out
}
