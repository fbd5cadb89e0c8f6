package prodex

import "github.com/kailas-cloud/prodex/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidOptions     = domain.ErrInvalidOptions
	ErrInvalidProduct     = domain.ErrInvalidProduct
	ErrCatalogUnavailable = domain.ErrCatalogUnavailable
)
