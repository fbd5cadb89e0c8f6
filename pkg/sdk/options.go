package prodex

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver   string // "memory", "redis", "valkey", "sqlite" or "bolt"
	addrs    []string
	password string
	path     string

	products    []Product
	catalogPath string
	snapshotKey string

	defaultLimit   int
	minSimilarity  float64
	marketplaceURL string
	discoveryURL   string

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithCatalog serves a fixed product list.
func WithCatalog(products []Product) Option {
	return optionFunc(func(c *clientConfig) {
		c.products = products
		c.catalogPath = ""
	})
}

// WithCatalogFile reads products from a yaml, json or parquet file.
// The file is re-read on every ingestion check, so edits are picked up as drift.
func WithCatalogFile(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.catalogPath = path
		c.products = nil
	})
}

// WithValkey persists the document snapshot in Valkey.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "valkey"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedis persists the document snapshot in Redis.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithSQLite persists the document snapshot in a SQLite file.
func WithSQLite(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "sqlite"
		c.path = path
	})
}

// WithBolt persists the document snapshot in a bbolt file.
func WithBolt(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "bolt"
		c.path = path
	})
}

// WithSnapshotKey overrides the key the snapshot is stored under.
// Default: "prodex:vector_store".
func WithSnapshotKey(key string) Option {
	return optionFunc(func(c *clientConfig) {
		c.snapshotKey = key
	})
}

// WithDefaults sets the result limit and similarity threshold used when Options leave them empty.
// Defaults: 10 and 0.05.
func WithDefaults(limit int, minSimilarity float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaultLimit = limit
		c.minSimilarity = minSimilarity
	})
}

// WithURLTemplates sets product link templates. "{id}" is replaced by the catalog id.
func WithURLTemplates(marketplace, discovery string) Option {
	return optionFunc(func(c *clientConfig) {
		c.marketplaceURL = marketplace
		c.discoveryURL = discovery
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
