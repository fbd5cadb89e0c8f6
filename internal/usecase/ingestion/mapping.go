package ingestion

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/kailas-cloud/prodex/internal/domain"
	dombatch "github.com/kailas-cloud/prodex/internal/domain/batch"
	domdoc "github.com/kailas-cloud/prodex/internal/domain/document"
	"github.com/kailas-cloud/prodex/internal/domain/product"
	"github.com/kailas-cloud/prodex/internal/vectorizer"
)

// DocumentIDPrefix namespaces catalog ids in the document store.
const DocumentIDPrefix = "product_"

// Default product URL templates. "{id}" is replaced by the catalog id.
const (
	DefaultMarketplaceURL = "https://shop.prodex.dev/products/{id}"
	DefaultDiscoveryURL   = "https://discover.prodex.dev/products/{id}"
)

// URLTemplates build product links per source.
type URLTemplates struct {
	Marketplace string
	Discovery   string
}

// DefaultURLTemplates returns the built-in templates.
func DefaultURLTemplates() URLTemplates {
	return URLTemplates{Marketplace: DefaultMarketplaceURL, Discovery: DefaultDiscoveryURL}
}

// ProductURL renders the link for a product. The id is path-escaped.
func (t URLTemplates) ProductURL(p *product.Product) string {
	tmpl := t.Marketplace
	if p.Source == product.SourceDiscovery {
		tmpl = t.Discovery
	}
	return strings.ReplaceAll(tmpl, "{id}", url.PathEscape(p.ID))
}

// DocumentID returns the store id of a catalog item.
func DocumentID(catalogID string) string {
	return DocumentIDPrefix + catalogID
}

// admit validates a product and returns its document id without embedding it.
func admit(p *product.Product) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	id := DocumentID(p.ID)
	if err := domdoc.ValidateID(id); err != nil {
		return "", fmt.Errorf("product %s: %w: %w", p.ID, domain.ErrInvalidProduct, err)
	}
	return id, nil
}

// countIngestible returns the number of unique document ids the catalog would produce.
func countIngestible(products []product.Product) int {
	ids := make(map[string]struct{}, len(products))
	for i := range products {
		p := products[i]
		if id, err := admit(&p); err == nil {
			ids[id] = struct{}{}
		}
	}
	return len(ids)
}

// toDocument validates a product and projects it into a Document.
func (s *Service) toDocument(p product.Product) (domdoc.Document, error) {
	id, err := admit(&p)
	if err != nil {
		return domdoc.Document{}, err
	}
	link := s.urls.ProductURL(&p)
	doc, err := domdoc.New(id, s.embed.EmbedStructured(vectorizer.FieldsFromProduct(&p)), domdoc.Metadata{
		ProductID:         p.ID,
		Brand:             p.Brand,
		Name:              p.Name,
		Category:          p.Category,
		Price:             p.Price,
		Rating:            p.Rating,
		ReviewCount:       p.ReviewCount,
		SkinTypes:         p.SkinTypes,
		Concerns:          p.Concerns,
		KeyIngredients:    p.KeyIngredients,
		ActiveIngredients: p.ActiveIngredients,
		Preferences:       p.Preferences,
		InStock:           p.InStock,
		Size:              p.Size,
		Image:             p.Image,
		Description:       p.Description,
		Source:            p.Source,
		ProductURL:        link,
	})
	if err != nil {
		return domdoc.Document{}, fmt.Errorf("product %s: %w: %w", p.ID, domain.ErrInvalidProduct, err)
	}
	return doc, nil
}

// projection is a catalog mapped to documents. Later duplicates replace earlier
// ones in place, so docs holds one entry per id in first-seen order.
type projection struct {
	docs  []domdoc.Document
	items []dombatch.Result
	ids   map[string]int
}

// project stops between items once ctx is done.
func (s *Service) project(ctx context.Context, products []product.Product) (projection, error) {
	pr := projection{
		docs:  make([]domdoc.Document, 0, len(products)),
		items: make([]dombatch.Result, 0, len(products)),
		ids:   make(map[string]int, len(products)),
	}
	for i := range products {
		if err := ctx.Err(); err != nil {
			return projection{}, fmt.Errorf("ingestion cancelled: %w", err)
		}
		doc, err := s.toDocument(products[i])
		if err != nil {
			pr.items = append(pr.items, dombatch.NewSkipped(DocumentID(products[i].ID), err))
			continue
		}
		if at, dup := pr.ids[doc.ID()]; dup {
			pr.docs[at] = doc
		} else {
			pr.ids[doc.ID()] = len(pr.docs)
			pr.docs = append(pr.docs, doc)
		}
		pr.items = append(pr.items, dombatch.NewOK(doc.ID()))
	}
	return pr, nil
}

// skipped counts items rejected during projection.
func (pr *projection) skipped() int {
	return dombatch.Count(pr.items)[dombatch.StatusSkipped]
}
