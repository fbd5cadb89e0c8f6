package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Database drivers.
const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
	DriverValkey = "valkey"
	DriverSQLite = "sqlite"
	DriverBolt   = "bolt"
)

// Config holds the prodex configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Snapshot  SnapshotConfig  `yaml:"snapshot"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Auth      AuthConfig      `yaml:"auth"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig selects where the document snapshot is persisted.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // memory, redis, valkey, sqlite, bolt (default: memory)
	Addrs            []string `yaml:"addrs"`  // redis, valkey
	Password         string   `yaml:"password"`
	Path             string   `yaml:"path"` // sqlite, bolt
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// CatalogConfig locates the product catalog.
type CatalogConfig struct {
	Path   string `yaml:"path"`
	Format string `yaml:"format"` // yaml, json, parquet (default: from extension)
}

// SnapshotConfig holds snapshot persistence settings.
type SnapshotConfig struct {
	Key string `yaml:"key"`
}

// RetrievalConfig holds ranking defaults and product link templates.
type RetrievalConfig struct {
	DefaultLimit   int     `yaml:"default_limit"`
	MinSimilarity  float64 `yaml:"min_similarity"`
	MarketplaceURL string  `yaml:"marketplace_url"` // "{id}" is replaced by the catalog id
	DiscoveryURL   string  `yaml:"discovery_url"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
// A .env file in the working directory, if present, is loaded first.
func Load(env string) (Config, error) {
	_ = godotenv.Load()

	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit path.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = DriverMemory
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Snapshot.Key == "" {
		c.Snapshot.Key = "prodex:vector_store"
	}
	if c.Retrieval.DefaultLimit <= 0 {
		c.Retrieval.DefaultLimit = 10
	}
	if c.Retrieval.MinSimilarity <= 0 {
		c.Retrieval.MinSimilarity = 0.05
	}
	if c.Retrieval.MarketplaceURL == "" {
		c.Retrieval.MarketplaceURL = "https://shop.prodex.dev/products/{id}"
	}
	if c.Retrieval.DiscoveryURL == "" {
		c.Retrieval.DiscoveryURL = "https://discover.prodex.dev/products/{id}"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Database.Driver {
	case DriverMemory:
	case DriverRedis, DriverValkey:
		if len(c.Database.Addrs) == 0 {
			return fmt.Errorf("database.addrs is required for driver %q", c.Database.Driver)
		}
	case DriverSQLite, DriverBolt:
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required for driver %q", c.Database.Driver)
		}
	default:
		return fmt.Errorf("unknown database.driver %q", c.Database.Driver)
	}
	if c.Catalog.Path == "" {
		return fmt.Errorf("catalog.path is required")
	}
	switch strings.ToLower(c.Catalog.Format) {
	case "", "yaml", "yml", "json", "parquet":
	default:
		return fmt.Errorf("catalog.format must be yaml, json or parquet, got %q", c.Catalog.Format)
	}
	if c.Retrieval.MinSimilarity > 1 {
		return fmt.Errorf("retrieval.min_similarity must be at most 1, got %g", c.Retrieval.MinSimilarity)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
