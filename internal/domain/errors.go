package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrDocumentNotFound signals a missing document.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrVectorDimMismatch signals a vector dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrInvalidProduct signals a catalog item that cannot be ingested.
	ErrInvalidProduct = errors.New("invalid product")
	// ErrInvalidOptions signals malformed retrieval options.
	ErrInvalidOptions = errors.New("invalid retrieval options")
	// ErrCatalogUnavailable signals that the catalog source could not be read.
	ErrCatalogUnavailable = errors.New("catalog unavailable")
)
