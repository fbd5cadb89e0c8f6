package snapshot

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/prodex/internal/db"
	domdoc "github.com/kailas-cloud/prodex/internal/domain/document"
	"github.com/kailas-cloud/prodex/internal/domain/product"
	"github.com/kailas-cloud/prodex/internal/domain/vector"
)

// mockKVStore implements the consumer interface for tests.
// Without fn overrides it behaves like an in-memory map.
type mockKVStore struct {
	mu    sync.Mutex
	data  map[string][]byte
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte) error
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockKVStore) Set(ctx context.Context, key string, value []byte) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		m.data = make(map[string][]byte)
	}
	m.data[key] = value
	return nil
}

func newTestRepo(t *testing.T) (*Repo, *mockKVStore) {
	t.Helper()
	ms := &mockKVStore{}
	r := New(ms, "", zap.NewNop())
	r.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return r, ms
}

func testDoc(t *testing.T, id string, slot int) domdoc.Document {
	t.Helper()
	vec := vector.Zero()
	vec[slot] = 1
	doc, err := domdoc.New(id, vec, domdoc.Metadata{
		ProductID:      id,
		Brand:          "Acme",
		Name:           "Gel " + id,
		Category:       "cleanser",
		Price:          19.5,
		Rating:         4.6,
		ReviewCount:    120,
		SkinTypes:      []string{"oily"},
		Concerns:       []string{"acne"},
		KeyIngredients: []string{"niacinamide"},
		Preferences:    product.Preferences{Vegan: true},
		InStock:        true,
		Source:         product.SourceMarketplace,
		ProductURL:     "/marketplace/" + id,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return doc
}
