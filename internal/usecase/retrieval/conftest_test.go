package retrieval

import (
	"context"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/prodex/internal/catalog"
	"github.com/kailas-cloud/prodex/internal/docstore"
	"github.com/kailas-cloud/prodex/internal/domain/product"
	"github.com/kailas-cloud/prodex/internal/usecase/ingestion"
	"github.com/kailas-cloud/prodex/internal/vectorizer"
)

// --- Mocks ---

type mockIngestor struct {
	mu       sync.Mutex
	calls    int
	ensureFn func(ctx context.Context) ingestion.Result
}

func (m *mockIngestor) EnsureIngested(ctx context.Context) ingestion.Result {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.ensureFn != nil {
		return m.ensureFn(ctx)
	}
	return ingestion.Result{Success: true}
}

func (m *mockIngestor) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// --- Helpers ---

// newTestEngine wires the real vectorizer, store and ingestion over a static catalog.
func newTestEngine(t *testing.T, products []product.Product) (*Service, *docstore.Store) {
	t.Helper()
	store := docstore.New(nil, zap.NewNop())
	vec := vectorizer.New()
	ing := ingestion.New(catalog.NewStatic(products), store, vec, zap.NewNop())
	return New(store, ing, vec, zap.NewNop()), store
}

func ptr[T any](v T) *T { return &v }

// skincareCatalog is a small catalog covering every routine step and both sources.
func skincareCatalog() []product.Product {
	return []product.Product{
		{
			ID: "1", Name: "Clarifying Gel Cleanser", Brand: "ClearSkin", Category: "cleanser",
			Description: "Oil control cleanser for acne prone skin",
			Price:       15, Rating: 4.6, SkinTypes: []string{"oily", "combination"},
			Concerns: []string{"acne", "oil control"}, KeyIngredients: []string{"salicylic acid"},
			Preferences: product.Preferences{FragranceFree: true, CrueltyFree: true}, InStock: true,
		},
		{
			ID: "2", Name: "Rich Repair Cream", Brand: "Velvet", Category: "moisturizer",
			Description: "Deep hydration for very dry skin",
			Price:       42, Rating: 4.2, SkinTypes: []string{"dry"},
			Concerns: []string{"dryness"}, KeyIngredients: []string{"shea butter"},
			InStock: true,
		},
		{
			ID: "3", Name: "Blemish Serum", Brand: "ClearSkin", Category: "serum",
			Description: "Niacinamide serum for breakouts",
			Price:       28, Rating: 4.8, SkinTypes: []string{"oily"},
			Concerns: []string{"acne", "large pores"}, KeyIngredients: []string{"niacinamide", "zinc"},
			Preferences: product.Preferences{Vegan: true, FragranceFree: true}, InStock: true,
		},
		{
			ID: "4", Name: "Glow Essence Toner", Brand: "Bloom", Category: "toner",
			Description: "Scented brightening toner",
			Price:       22, Rating: 4.0, SkinTypes: []string{"all"},
			Concerns: []string{"dullness"}, KeyIngredients: []string{"fragrance", "witch hazel"},
			InStock: false,
		},
		{
			ID: "5", Name: "Daily Mineral Sunscreen SPF 50", Brand: "Indie Sun", Category: "sunscreen",
			Description: "Zinc sunscreen for sensitive skin",
			Price:       30, Rating: 4.7, SkinTypes: []string{"all"},
			Concerns: []string{"sun protection"}, KeyIngredients: []string{"zinc oxide"},
			Preferences: product.Preferences{FragranceFree: true, Vegan: true}, InStock: true,
			Source: product.SourceDiscovery,
		},
		{
			ID: "6", Name: "Light Gel Moisturizer", Brand: "ClearSkin", Category: "moisturizer",
			Description: "Oil free hydration",
			Price:       24, Rating: 4.5, SkinTypes: []string{"oily", "combination"},
			Concerns: []string{"oil control", "hydration"}, KeyIngredients: []string{"hyaluronic acid"},
			Preferences: product.Preferences{FragranceFree: true}, InStock: true,
		},
	}
}
