package docstore

import (
	"context"
	"sync"
	"testing"

	"go.uber.org/zap"

	domdoc "github.com/kailas-cloud/prodex/internal/domain/document"
	"github.com/kailas-cloud/prodex/internal/domain/product"
	"github.com/kailas-cloud/prodex/internal/domain/vector"
	"github.com/kailas-cloud/prodex/internal/repository/snapshot"
)

// --- Mocks ---

type mockPersister struct {
	mu        sync.Mutex
	loadDocs  []domdoc.Document
	loadRes   snapshot.LoadResult
	saveErr   error
	loadCalls int
	saves     [][]domdoc.Document
}

func (m *mockPersister) Load(_ context.Context) ([]domdoc.Document, snapshot.LoadResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadCalls++
	if m.loadRes == "" {
		return m.loadDocs, snapshot.LoadEmpty
	}
	return m.loadDocs, m.loadRes
}

func (m *mockPersister) Save(_ context.Context, docs []domdoc.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves = append(m.saves, docs)
	return m.saveErr
}

func (m *mockPersister) lastSave() []domdoc.Document {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.saves) == 0 {
		return nil
	}
	return m.saves[len(m.saves)-1]
}

// --- Helpers ---

func newTestStore(t *testing.T) (*Store, *mockPersister) {
	t.Helper()
	p := &mockPersister{}
	return New(p, zap.NewNop()), p
}

// unit returns a unit vector with weights spread over the given slots.
func unit(weights map[int]float32) vector.Vector {
	v := vector.Zero()
	for i, w := range weights {
		v[i] = w
	}
	return v.Normalize()
}

func mkDoc(t *testing.T, id string, vec vector.Vector, category string, source product.Source) domdoc.Document {
	t.Helper()
	doc, err := domdoc.New(id, vec, domdoc.Metadata{
		ProductID: id,
		Name:      "Product " + id,
		Category:  category,
		Source:    source,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return doc
}

func ids(results []SearchResult) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Document.ID()
	}
	return out
}
