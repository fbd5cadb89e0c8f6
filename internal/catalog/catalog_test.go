package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"

	"github.com/kailas-cloud/prodex/internal/domain"
	"github.com/kailas-cloud/prodex/internal/domain/product"
)

const yamlCatalog = `
products:
  - id: "1"
    name: Gentle Foaming Cleanser
    brand: CeraVe
    category: cleanser
    price: 14.99
    rating: 4.6
    skinTypes: [oily, combination]
    concerns: [acne, oil control]
    keyIngredients: [niacinamide, ceramides]
    preferences:
      fragranceFree: true
      crueltyFree: true
    inStock: true
  - id: "2"
    name: Vitamin C Serum
    brand: Glow
    category: serum
    price: 32
    source: discovery
`

const jsonCatalog = `{"products":[
  {"id":"1","name":"Barrier Cream","brand":"Derm","category":"moisturizer","price":24.5,
   "skinTypes":["dry"],"preferences":{"vegan":true},"inStock":false}
]}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestFile_YAML(t *testing.T) {
	src, err := NewFile(writeFile(t, "catalog.yaml", yamlCatalog), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	products, err := src.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}
	p := products[0]
	if p.ID != "1" || p.Brand != "CeraVe" || p.Price != 14.99 {
		t.Errorf("unexpected product: %+v", p)
	}
	if !p.Preferences.FragranceFree || !p.Preferences.CrueltyFree || p.Preferences.Vegan {
		t.Errorf("unexpected preferences: %+v", p.Preferences)
	}
	if len(p.Concerns) != 2 || p.Concerns[1] != "oil control" {
		t.Errorf("unexpected concerns: %v", p.Concerns)
	}
	if products[1].Source != product.SourceDiscovery {
		t.Errorf("expected discovery source, got %q", products[1].Source)
	}
}

func TestFile_JSON(t *testing.T) {
	src, err := NewFile(writeFile(t, "catalog.json", jsonCatalog), FormatJSON)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	products, err := src.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products) != 1 || products[0].Category != "moisturizer" || !products[0].Preferences.Vegan {
		t.Fatalf("unexpected products: %+v", products)
	}
}

func TestFile_Parquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.parquet")
	rows := []product.Product{
		{
			ID: "1", Name: "Daily SPF 50", Brand: "Sun", Category: "sunscreen",
			Price: 18, Rating: 4.9, SkinTypes: []string{"all"},
			Concerns:    []string{"sun protection"},
			Preferences: product.Preferences{Vegan: true},
			InStock:     true, Source: product.SourceMarketplace,
		},
		{ID: "2", Name: "Night Oil", Brand: "Moon", Category: "serum", Price: 40},
	}
	if err := parquet.WriteFile(path, rows); err != nil {
		t.Fatalf("write parquet: %v", err)
	}

	src, err := NewFile(path, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	products, err := src.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}
	p := products[0]
	if p.ID != "1" || p.Category != "sunscreen" || p.Rating != 4.9 || !p.InStock || !p.Preferences.Vegan {
		t.Errorf("unexpected product: %+v", p)
	}
	if len(p.SkinTypes) != 1 || p.SkinTypes[0] != "all" {
		t.Errorf("unexpected skin types: %v", p.SkinTypes)
	}
	if products[1].Name != "Night Oil" {
		t.Errorf("unexpected second product: %+v", products[1])
	}
}

func TestFile_ReReadsOnEveryList(t *testing.T) {
	path := writeFile(t, "catalog.yaml", yamlCatalog)
	src, _ := NewFile(path, FormatYAML)

	if err := os.WriteFile(path, []byte("products: []\n"), 0o600); err != nil {
		t.Fatalf("rewrite fixture: %v", err)
	}
	products, err := src.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products) != 0 {
		t.Fatalf("expected edited catalog to be empty, got %d", len(products))
	}
}

func TestFile_Errors(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(t.TempDir(), "missing.yaml")},
		{"bad yaml", writeFile(t, "bad.yaml", "products: [:::")},
		{"bad json", writeFile(t, "bad.json", "{")},
		{"bad parquet", writeFile(t, "bad.parquet", "not parquet")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := NewFile(tt.path, "")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			_, err = src.List(context.Background())
			if !errors.Is(err, domain.ErrCatalogUnavailable) {
				t.Fatalf("expected ErrCatalogUnavailable, got %v", err)
			}
		})
	}
}

func TestNewFile_Validation(t *testing.T) {
	if _, err := NewFile("", FormatYAML); err == nil {
		t.Error("expected error for empty path")
	}
	if _, err := NewFile("catalog.csv", ""); err == nil {
		t.Error("expected error for undetectable format")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", "", false},
		{"yaml", FormatYAML, false},
		{"YML", FormatYAML, false},
		{"json", FormatJSON, false},
		{"parquet", FormatParquet, false},
		{"csv", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStatic(t *testing.T) {
	in := []product.Product{{ID: "1", Name: "A"}}
	s := NewStatic(in)
	in[0].Name = "mutated"

	got, _ := s.List(context.Background())
	if got[0].Name != "A" {
		t.Fatal("Static must copy its input")
	}

	s.Set([]product.Product{{ID: "1"}, {ID: "2"}})
	got, _ = s.List(context.Background())
	if len(got) != 2 {
		t.Fatalf("expected 2 products after Set, got %d", len(got))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.List(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
