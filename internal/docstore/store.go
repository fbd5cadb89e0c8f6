// Package docstore is the in-memory document index with best-effort snapshot persistence.
package docstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/kailas-cloud/prodex/internal/domain"
	domdoc "github.com/kailas-cloud/prodex/internal/domain/document"
	"github.com/kailas-cloud/prodex/internal/domain/vector"
	"github.com/kailas-cloud/prodex/internal/repository/snapshot"
)

// Persister loads and saves the full document set.
type Persister interface {
	Load(ctx context.Context) ([]domdoc.Document, snapshot.LoadResult)
	Save(ctx context.Context, docs []domdoc.Document) error
}

// Filter is evaluated before similarity scoring. Returning false drops the document.
type Filter func(doc *domdoc.Document) bool

// SearchOptions tune a similarity search. TopK <= 0 disables truncation.
type SearchOptions struct {
	TopK          int
	MinSimilarity float64
	Filter        Filter
}

// SearchResult is one scored candidate.
type SearchResult struct {
	Document   domdoc.Document
	Similarity float64
}

type entry struct {
	doc domdoc.Document
	seq uint64
}

// Store keeps documents in memory; the map is always authoritative for reads.
// Every mutation rewrites the full snapshot; persistence failures are logged, never returned.
type Store struct {
	mu      sync.RWMutex
	docs    map[string]entry
	nextSeq uint64

	initMu      sync.Mutex
	initialized bool

	// saveMu is taken before mu is released so snapshots are written in mutation order.
	saveMu  sync.Mutex
	persist Persister
	logger  *zap.Logger
}

// New creates a Store. persist may be nil for a purely in-memory store.
func New(persist Persister, logger *zap.Logger) *Store {
	return &Store{
		docs:    make(map[string]entry),
		persist: persist,
		logger:  logger,
	}
}

// Initialize loads the persisted snapshot once. Later calls are no-ops.
// Documents already upserted before loading keep precedence over snapshot copies.
func (s *Store) Initialize(ctx context.Context) {
	s.initMu.Lock()
	defer s.initMu.Unlock()
	if s.initialized {
		return
	}
	s.initialized = true

	if s.persist == nil {
		return
	}
	docs, res := s.persist.Load(ctx)

	s.mu.Lock()
	loaded := 0
	for i := range docs {
		if _, exists := s.docs[docs[i].ID()]; exists {
			continue
		}
		s.putLocked(docs[i])
		loaded++
	}
	s.mu.Unlock()

	s.logger.Info("Document store initialized",
		zap.String("snapshot", string(res)),
		zap.Int("documents", loaded),
	)
}

// Upsert inserts or replaces a document by ID and persists the store.
func (s *Store) Upsert(ctx context.Context, doc domdoc.Document) error {
	return s.UpsertMany(ctx, []domdoc.Document{doc})
}

// UpsertMany inserts or replaces documents and persists once.
// Either every document is applied or, on a validation error, none is.
func (s *Store) UpsertMany(ctx context.Context, docs []domdoc.Document) error {
	for i := range docs {
		if err := validate(&docs[i]); err != nil {
			return err
		}
	}
	s.Initialize(ctx)

	s.mu.Lock()
	for i := range docs {
		s.putLocked(docs[i].Clone())
	}
	s.persistAndUnlock(ctx)
	return nil
}

// Get returns a copy of the document with the given ID.
func (s *Store) Get(ctx context.Context, id string) (domdoc.Document, error) {
	s.Initialize(ctx)

	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.docs[id]
	if !ok {
		return domdoc.Document{}, fmt.Errorf("get %s: %w", id, domain.ErrDocumentNotFound)
	}
	return e.doc.Clone(), nil
}

// Delete removes a document by ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.Initialize(ctx)

	s.mu.Lock()
	if _, ok := s.docs[id]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("delete %s: %w", id, domain.ErrDocumentNotFound)
	}
	delete(s.docs, id)
	s.persistAndUnlock(ctx)
	return nil
}

// Clear removes every document and persists the empty store.
func (s *Store) Clear(ctx context.Context) {
	s.Initialize(ctx)

	s.mu.Lock()
	s.docs = make(map[string]entry)
	s.persistAndUnlock(ctx)
}

// Count returns the number of stored documents.
func (s *Store) Count(ctx context.Context) int {
	s.Initialize(ctx)

	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// IsPopulated reports whether the store holds at least one document.
func (s *Store) IsPopulated(ctx context.Context) bool {
	return s.Count(ctx) > 0
}

// GetAll returns copies of every document in insertion order.
func (s *Store) GetAll(ctx context.Context) []domdoc.Document {
	s.Initialize(ctx)

	s.mu.RLock()
	defer s.mu.RUnlock()
	ordered := s.orderedLocked()
	out := make([]domdoc.Document, len(ordered))
	for i := range ordered {
		out[i] = ordered[i].Clone()
	}
	return out
}

// Search scores every document passing the filter by cosine similarity, drops
// those under MinSimilarity, and returns the rest best-first. Equal similarities
// keep insertion order.
func (s *Store) Search(ctx context.Context, query vector.Vector, opts SearchOptions) ([]SearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	s.Initialize(ctx)

	s.mu.RLock()
	ordered := s.orderedLocked()
	results := make([]SearchResult, 0, len(ordered))
	for i := range ordered {
		doc := &ordered[i]
		if opts.Filter != nil && !opts.Filter(doc) {
			continue
		}
		sim := vector.Cosine(query, doc.Vector())
		if sim < opts.MinSimilarity {
			continue
		}
		results = append(results, SearchResult{Document: doc.Clone(), Similarity: sim})
	}
	s.mu.RUnlock()

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})

	if opts.TopK > 0 && len(results) > opts.TopK {
		results = results[:opts.TopK]
	}
	return results, nil
}

// putLocked inserts or replaces; a replaced document keeps its original position.
func (s *Store) putLocked(doc domdoc.Document) {
	if e, ok := s.docs[doc.ID()]; ok {
		s.docs[doc.ID()] = entry{doc: doc, seq: e.seq}
		return
	}
	s.docs[doc.ID()] = entry{doc: doc, seq: s.nextSeq}
	s.nextSeq++
}

func (s *Store) orderedLocked() []domdoc.Document {
	entries := make([]entry, 0, len(s.docs))
	for _, e := range s.docs {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })

	out := make([]domdoc.Document, len(entries))
	for i := range entries {
		out[i] = entries[i].doc
	}
	return out
}

// persistAndUnlock must be called with mu held. It snapshots the map, hands
// over to saveMu, releases mu and writes.
func (s *Store) persistAndUnlock(ctx context.Context) {
	if s.persist == nil {
		s.mu.Unlock()
		return
	}
	docs := s.orderedLocked()
	s.saveMu.Lock()
	s.mu.Unlock()
	defer s.saveMu.Unlock()

	if err := s.persist.Save(ctx, docs); err != nil {
		s.logger.Warn("Failed to persist document store",
			zap.Int("documents", len(docs)),
			zap.Error(err),
		)
	}
}

func validate(doc *domdoc.Document) error {
	if doc.ID() == "" {
		return fmt.Errorf("document ID is required: %w", domain.ErrInvalidProduct)
	}
	if len(doc.Vector()) != vector.Dim {
		return fmt.Errorf("document %s has %d dimensions, want %d: %w",
			doc.ID(), len(doc.Vector()), vector.Dim, domain.ErrVectorDimMismatch)
	}
	return nil
}
