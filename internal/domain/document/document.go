package document

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kailas-cloud/prodex/internal/domain/product"
	"github.com/kailas-cloud/prodex/internal/domain/vector"
)

// MaxIDLength is the maximum document ID length.
const MaxIDLength = 256

// Metadata is the fixed product schema stored next to each vector.
type Metadata struct {
	ProductID         string
	Brand             string
	Name              string
	Category          string
	Price             float64
	Rating            float64
	ReviewCount       int
	SkinTypes         []string
	Concerns          []string
	KeyIngredients    []string
	ActiveIngredients []string
	Preferences       product.Preferences
	InStock           bool
	Size              string
	Image             string
	Description       string
	Source            product.Source
	ProductURL        string
	// MarketplaceURL is a deprecated alias of ProductURL and always equals it.
	MarketplaceURL string
}

// Clone returns a deep copy of the metadata.
func (m Metadata) Clone() Metadata {
	m.SkinTypes = cloneStrings(m.SkinTypes)
	m.Concerns = cloneStrings(m.Concerns)
	m.KeyIngredients = cloneStrings(m.KeyIngredients)
	m.ActiveIngredients = cloneStrings(m.ActiveIngredients)
	return m
}

// Document is a stored catalog projection (immutable value object).
type Document struct {
	id       string
	vector   vector.Vector
	metadata Metadata
}

// ValidateID checks a document ID: 1-256 bytes of valid UTF-8 without control
// characters. Spaces and slashes are allowed since catalog ids carry them.
func ValidateID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("document ID is required")
	}
	if len(id) > MaxIDLength {
		return fmt.Errorf("document ID too long (max %d)", MaxIDLength)
	}
	if !utf8.ValidString(id) || strings.IndexFunc(id, unicode.IsControl) >= 0 {
		return fmt.Errorf("document ID %q has invalid characters", id)
	}
	return nil
}

// New validates and creates a Document. Vector must have dimension vector.Dim.
func New(id string, vec vector.Vector, meta Metadata) (Document, error) {
	if err := ValidateID(id); err != nil {
		return Document{}, err
	}
	if len(vec) != vector.Dim {
		return Document{}, fmt.Errorf("vector has %d dimensions, want %d", len(vec), vector.Dim)
	}
	meta.MarketplaceURL = meta.ProductURL
	return Document{id: id, vector: vec.Clone(), metadata: meta.Clone()}, nil
}

// Reconstruct creates a Document without validation (storage hydration).
func Reconstruct(id string, vec vector.Vector, meta Metadata) Document {
	return Document{id: id, vector: vec, metadata: meta}
}

// ID returns the document identifier.
func (d *Document) ID() string { return d.id }

// Vector returns the embedding vector.
func (d *Document) Vector() vector.Vector { return d.vector }

// Metadata returns the product metadata.
func (d *Document) Metadata() Metadata { return d.metadata }

// Clone returns a deep copy that shares no slices with d.
func (d *Document) Clone() Document {
	return Document{id: d.id, vector: d.vector.Clone(), metadata: d.metadata.Clone()}
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	c := make([]string, len(s))
	copy(c, s)
	return c
}
