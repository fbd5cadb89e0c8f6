package product

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/prodex/internal/domain"
)

// Source tells where a product is listed.
type Source string

// Known product sources.
const (
	SourceMarketplace Source = "marketplace"
	SourceDiscovery   Source = "discovery"
)

// Preferences are the boolean product traits a survey can ask for.
type Preferences struct {
	CrueltyFree   bool `yaml:"crueltyFree" json:"crueltyFree" parquet:"cruelty_free,optional"`
	Vegan         bool `yaml:"vegan" json:"vegan" parquet:"vegan,optional"`
	FragranceFree bool `yaml:"fragranceFree" json:"fragranceFree" parquet:"fragrance_free,optional"`
	AlcoholFree   bool `yaml:"alcoholFree" json:"alcoholFree" parquet:"alcohol_free,optional"`
}

// Flag is one named preference trait.
type Flag struct {
	Name    string
	Enabled bool
}

// Flags returns the preference traits in a fixed order.
func (p Preferences) Flags() []Flag {
	return []Flag{
		{Name: "crueltyFree", Enabled: p.CrueltyFree},
		{Name: "vegan", Enabled: p.Vegan},
		{Name: "fragranceFree", Enabled: p.FragranceFree},
		{Name: "alcoholFree", Enabled: p.AlcoholFree},
	}
}

// Product is one catalog item as read from the catalog source.
type Product struct {
	ID                string      `yaml:"id" json:"id" parquet:"id"`
	Name              string      `yaml:"name" json:"name" parquet:"name"`
	Brand             string      `yaml:"brand" json:"brand" parquet:"brand"`
	Description       string      `yaml:"description" json:"description" parquet:"description,optional"`
	Category          string      `yaml:"category" json:"category" parquet:"category"`
	Price             float64     `yaml:"price" json:"price" parquet:"price"`
	Rating            float64     `yaml:"rating" json:"rating" parquet:"rating,optional"`
	ReviewCount       int         `yaml:"reviewCount" json:"reviewCount" parquet:"review_count,optional"`
	SkinTypes         []string    `yaml:"skinTypes" json:"skinTypes" parquet:"skin_types,list"`
	Concerns          []string    `yaml:"concerns" json:"concerns" parquet:"concerns,list"`
	KeyIngredients    []string    `yaml:"keyIngredients" json:"keyIngredients" parquet:"key_ingredients,list"`
	ActiveIngredients []string    `yaml:"activeIngredients" json:"activeIngredients" parquet:"active_ingredients,list"`
	Preferences       Preferences `yaml:"preferences" json:"preferences" parquet:"preferences"`
	InStock           bool        `yaml:"inStock" json:"inStock" parquet:"in_stock,optional"`
	Size              string      `yaml:"size" json:"size" parquet:"size,optional"`
	Image             string      `yaml:"image" json:"image" parquet:"image,optional"`
	Source            Source      `yaml:"source" json:"source" parquet:"source,optional"`
}

// Validate checks the fields ingestion relies on and defaults an empty source to marketplace.
// IDs are free-form; ingestion only rejects ids the document store cannot hold
// (control characters, invalid UTF-8, over-long).
func (p *Product) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("product id is required: %w", domain.ErrInvalidProduct)
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("product %s: name is required: %w", p.ID, domain.ErrInvalidProduct)
	}
	if p.Price < 0 {
		return fmt.Errorf("product %s: negative price %.2f: %w", p.ID, p.Price, domain.ErrInvalidProduct)
	}
	if p.Rating < 0 || p.Rating > 5 {
		return fmt.Errorf("product %s: rating %.2f out of range [0,5]: %w", p.ID, p.Rating, domain.ErrInvalidProduct)
	}
	switch p.Source {
	case "":
		p.Source = SourceMarketplace
	case SourceMarketplace, SourceDiscovery:
	default:
		return fmt.Errorf("product %s: unknown source %q: %w", p.ID, p.Source, domain.ErrInvalidProduct)
	}
	return nil
}
