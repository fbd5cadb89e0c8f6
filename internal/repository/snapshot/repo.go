package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/prodex/internal/db"
	domdoc "github.com/kailas-cloud/prodex/internal/domain/document"
	"github.com/kailas-cloud/prodex/internal/domain/vector"
)

// Version is the compiled-in snapshot format. Snapshots carrying any other
// version are discarded on load, never migrated.
const Version = "1.0"

// DefaultKey is the well-known key the snapshot lives under.
const DefaultKey = "prodex:vector_store"

// LoadResult classifies a snapshot load.
type LoadResult string

// Load outcomes.
const (
	LoadOK        LoadResult = "ok"
	LoadEmpty     LoadResult = "empty"
	LoadDiscarded LoadResult = "discarded"
	LoadError     LoadResult = "error"
)

// store is the consumer interface for snapshot persistence (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Repo reads and writes the whole document set as one serialized record.
type Repo struct {
	store   store
	key     string
	version string
	now     func() time.Time
	writes  *prometheus.CounterVec
	loads   *prometheus.CounterVec
	logger  *zap.Logger
}

// New creates a snapshot repository. An empty key falls back to DefaultKey.
func New(s store, key string, logger *zap.Logger) *Repo {
	if key == "" {
		key = DefaultKey
	}
	return &Repo{
		store:   s,
		key:     key,
		version: Version,
		now:     time.Now,
		logger:  logger,
	}
}

// WithMetrics attaches counters with label "result".
func (r *Repo) WithMetrics(writes, loads *prometheus.CounterVec) *Repo {
	r.writes = writes
	r.loads = loads
	return r
}

// Key returns the storage key.
func (r *Repo) Key() string { return r.key }

// Load reads the snapshot. It never fails: missing, unreadable, corrupted or
// version-mismatched snapshots all yield no documents, with the reason reported.
func (r *Repo) Load(ctx context.Context) ([]domdoc.Document, LoadResult) {
	data, err := r.store.Get(ctx, r.key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			r.incLoad(LoadEmpty)
			return nil, LoadEmpty
		}
		r.logger.Warn("Failed to read snapshot", zap.String("key", r.key), zap.Error(err))
		r.incLoad(LoadError)
		return nil, LoadError
	}

	docs, err := r.decode(data)
	if err != nil {
		r.logger.Warn("Discarding snapshot", zap.String("key", r.key), zap.Error(err))
		r.incLoad(LoadDiscarded)
		return nil, LoadDiscarded
	}

	r.incLoad(LoadOK)
	return docs, LoadOK
}

// Save serializes docs with the current version and timestamp and writes them.
func (r *Repo) Save(ctx context.Context, docs []domdoc.Document) error {
	p := payload{
		Version:     r.version,
		Documents:   make([]documentDTO, len(docs)),
		LastUpdated: r.now().UTC().Format(time.RFC3339Nano),
	}
	for i := range docs {
		p.Documents[i] = toDTO(&docs[i])
	}

	data, err := json.Marshal(p)
	if err != nil {
		r.incWrite("error")
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := r.store.Set(ctx, r.key, data); err != nil {
		r.incWrite("error")
		return fmt.Errorf("write snapshot: %w", err)
	}
	r.incWrite("ok")
	return nil
}

func (r *Repo) decode(data []byte) ([]domdoc.Document, error) {
	var p payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("corrupted payload: %w", err)
	}
	if p.Version != r.version {
		return nil, fmt.Errorf("version %q does not match %q", p.Version, r.version)
	}

	docs := make([]domdoc.Document, 0, len(p.Documents))
	seen := make(map[string]struct{}, len(p.Documents))
	for i := range p.Documents {
		d := &p.Documents[i]
		if d.ID == "" {
			return nil, fmt.Errorf("corrupted payload: document %d has no id", i)
		}
		if len(d.Vector) != vector.Dim {
			return nil, fmt.Errorf("corrupted payload: document %s has %d dimensions", d.ID, len(d.Vector))
		}
		if _, dup := seen[d.ID]; dup {
			return nil, fmt.Errorf("corrupted payload: duplicate id %s", d.ID)
		}
		seen[d.ID] = struct{}{}
		docs = append(docs, fromDTO(d))
	}
	return docs, nil
}

func (r *Repo) incWrite(result string) {
	if r.writes != nil {
		r.writes.WithLabelValues(result).Inc()
	}
}

func (r *Repo) incLoad(result LoadResult) {
	if r.loads != nil {
		r.loads.WithLabelValues(string(result)).Inc()
	}
}
