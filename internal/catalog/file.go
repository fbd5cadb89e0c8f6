package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/prodex/internal/domain"
	"github.com/kailas-cloud/prodex/internal/domain/product"
)

// Format is a catalog file encoding.
type Format string

// Supported catalog formats.
const (
	FormatYAML    Format = "yaml"
	FormatJSON    Format = "json"
	FormatParquet Format = "parquet"
)

// ParseFormat validates a format name. Empty means "detect from extension".
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "", FormatYAML, FormatJSON, FormatParquet:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown catalog format %q", s)
	}
}

// document is the yaml/json catalog layout.
type document struct {
	Products []product.Product `yaml:"products" json:"products"`
}

// File reads the catalog from disk on every List, so edits show up as drift.
type File struct {
	path   string
	format Format
}

// NewFile creates a file-backed catalog. An empty format is detected from the extension.
func NewFile(path string, format Format) (*File, error) {
	if path == "" {
		return nil, fmt.Errorf("catalog path is required")
	}
	if format == "" {
		format = formatFromExt(path)
		if format == "" {
			return nil, fmt.Errorf("cannot detect catalog format of %s", path)
		}
	}
	return &File{path: filepath.Clean(path), format: format}, nil
}

// Path returns the catalog file path.
func (f *File) Path() string { return f.path }

// List reads and decodes the catalog file.
func (f *File) List(ctx context.Context) ([]product.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		products []product.Product
		err      error
	)
	switch f.format {
	case FormatParquet:
		products, err = parquet.ReadFile[product.Product](f.path)
		if err != nil {
			err = fmt.Errorf("read parquet: %w", err)
		}
	case FormatYAML, FormatJSON:
		products, err = f.readDocument()
	default:
		err = fmt.Errorf("unknown catalog format %q", f.format)
	}
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w: %w", f.path, domain.ErrCatalogUnavailable, err)
	}
	return products, nil
}

func (f *File) readDocument() ([]product.Product, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	var doc document
	if f.format == FormatJSON {
		err = json.Unmarshal(data, &doc)
	} else {
		err = yaml.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", f.format, err)
	}
	return doc.Products, nil
}

func formatFromExt(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	case ".parquet":
		return FormatParquet
	default:
		return ""
	}
}
