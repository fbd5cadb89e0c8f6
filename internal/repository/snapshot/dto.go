package snapshot

import (
	domdoc "github.com/kailas-cloud/prodex/internal/domain/document"
	"github.com/kailas-cloud/prodex/internal/domain/product"
	"github.com/kailas-cloud/prodex/internal/domain/vector"
)

// payload is the persisted snapshot record.
type payload struct {
	Version     string        `json:"version"`
	Documents   []documentDTO `json:"documents"`
	LastUpdated string        `json:"lastUpdated"`
}

type documentDTO struct {
	ID       string      `json:"id"`
	Vector   []float32   `json:"vector"`
	Metadata metadataDTO `json:"metadata"`
}

type preferencesDTO struct {
	CrueltyFree   bool `json:"crueltyFree"`
	Vegan         bool `json:"vegan"`
	FragranceFree bool `json:"fragranceFree"`
	AlcoholFree   bool `json:"alcoholFree"`
}

type metadataDTO struct {
	ProductID         string         `json:"productId"`
	Brand             string         `json:"brand"`
	Name              string         `json:"name"`
	Category          string         `json:"category"`
	Price             float64        `json:"price"`
	Rating            float64        `json:"rating"`
	ReviewCount       int            `json:"reviewCount"`
	SkinTypes         []string       `json:"skinTypes"`
	Concerns          []string       `json:"concerns"`
	KeyIngredients    []string       `json:"keyIngredients"`
	ActiveIngredients []string       `json:"activeIngredients"`
	Preferences       preferencesDTO `json:"preferences"`
	InStock           bool           `json:"inStock"`
	Size              string         `json:"size,omitempty"`
	Image             string         `json:"image,omitempty"`
	Description       string         `json:"description,omitempty"`
	Source            string         `json:"source"`
	ProductURL        string         `json:"productUrl"`
	MarketplaceURL    string         `json:"marketplaceUrl"`
}

func toDTO(doc *domdoc.Document) documentDTO {
	m := doc.Metadata()
	return documentDTO{
		ID:     doc.ID(),
		Vector: doc.Vector(),
		Metadata: metadataDTO{
			ProductID:         m.ProductID,
			Brand:             m.Brand,
			Name:              m.Name,
			Category:          m.Category,
			Price:             m.Price,
			Rating:            m.Rating,
			ReviewCount:       m.ReviewCount,
			SkinTypes:         m.SkinTypes,
			Concerns:          m.Concerns,
			KeyIngredients:    m.KeyIngredients,
			ActiveIngredients: m.ActiveIngredients,
			Preferences: preferencesDTO{
				CrueltyFree:   m.Preferences.CrueltyFree,
				Vegan:         m.Preferences.Vegan,
				FragranceFree: m.Preferences.FragranceFree,
				AlcoholFree:   m.Preferences.AlcoholFree,
			},
			InStock:        m.InStock,
			Size:           m.Size,
			Image:          m.Image,
			Description:    m.Description,
			Source:         string(m.Source),
			ProductURL:     m.ProductURL,
			MarketplaceURL: m.ProductURL,
		},
	}
}

func fromDTO(d *documentDTO) domdoc.Document {
	m := d.Metadata
	return domdoc.Reconstruct(d.ID, vector.Vector(d.Vector), domdoc.Metadata{
		ProductID:         m.ProductID,
		Brand:             m.Brand,
		Name:              m.Name,
		Category:          m.Category,
		Price:             m.Price,
		Rating:            m.Rating,
		ReviewCount:       m.ReviewCount,
		SkinTypes:         m.SkinTypes,
		Concerns:          m.Concerns,
		KeyIngredients:    m.KeyIngredients,
		ActiveIngredients: m.ActiveIngredients,
		Preferences: product.Preferences{
			CrueltyFree:   m.Preferences.CrueltyFree,
			Vegan:         m.Preferences.Vegan,
			FragranceFree: m.Preferences.FragranceFree,
			AlcoholFree:   m.Preferences.AlcoholFree,
		},
		InStock:        m.InStock,
		Size:           m.Size,
		Image:          m.Image,
		Description:    m.Description,
		Source:         product.Source(m.Source),
		ProductURL:     m.ProductURL,
		MarketplaceURL: m.ProductURL,
	})
}
