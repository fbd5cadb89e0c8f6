// Package catalog provides product catalog sources for ingestion.
package catalog

import (
	"context"
	"sync"

	"github.com/kailas-cloud/prodex/internal/domain/product"
)

// Source lists the current catalog.
type Source interface {
	List(ctx context.Context) ([]product.Product, error)
}

// Static is an in-memory catalog. Set replaces its contents.
type Static struct {
	mu       sync.RWMutex
	products []product.Product
}

// NewStatic creates a Static catalog holding a copy of products.
func NewStatic(products []product.Product) *Static {
	s := &Static{}
	s.Set(products)
	return s
}

// Set replaces the catalog.
func (s *Static) Set(products []product.Product) {
	cp := make([]product.Product, len(products))
	copy(cp, products)
	s.mu.Lock()
	s.products = cp
	s.mu.Unlock()
}

// List returns a copy of the catalog.
func (s *Static) List(ctx context.Context) ([]product.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]product.Product, len(s.products))
	copy(out, s.products)
	return out, nil
}
