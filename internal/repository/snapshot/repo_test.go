package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	domdoc "github.com/kailas-cloud/prodex/internal/domain/document"
)

func TestSaveLoad_RoundTrip(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()
	toSave := []domdoc.Document{testDoc(t, "product_1", 0), testDoc(t, "product_2", 1)}
	if err := r.Save(ctx, toSave); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	loaded, res := r.Load(ctx)
	if res != LoadOK {
		t.Fatalf("expected %q, got %q", LoadOK, res)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(loaded))
	}
	for i := range loaded {
		if loaded[i].ID() != toSave[i].ID() {
			t.Errorf("doc %d: id %q, want %q", i, loaded[i].ID(), toSave[i].ID())
		}
		if !reflect.DeepEqual(loaded[i].Vector(), toSave[i].Vector()) {
			t.Errorf("doc %d: vector changed across round-trip", i)
		}
		if !reflect.DeepEqual(loaded[i].Metadata(), toSave[i].Metadata()) {
			t.Errorf("doc %d: metadata changed across round-trip:\n got %+v\nwant %+v",
				i, loaded[i].Metadata(), toSave[i].Metadata())
		}
	}
}

func TestSave_WireFormat(t *testing.T) {
	r, ms := newTestRepo(t)
	if err := r.Save(context.Background(), []domdoc.Document{testDoc(t, "product_1", 0)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(ms.data[DefaultKey], &raw); err != nil {
		t.Fatalf("snapshot is not JSON: %v", err)
	}
	if raw["version"] != Version {
		t.Errorf("expected version %q, got %v", Version, raw["version"])
	}
	if raw["lastUpdated"] != "2026-03-01T12:00:00Z" {
		t.Errorf("unexpected lastUpdated: %v", raw["lastUpdated"])
	}
	docs, ok := raw["documents"].([]any)
	if !ok || len(docs) != 1 {
		t.Fatalf("expected one document, got %v", raw["documents"])
	}
	meta := docs[0].(map[string]any)["metadata"].(map[string]any)
	if meta["productUrl"] != meta["marketplaceUrl"] {
		t.Errorf("marketplaceUrl must equal productUrl, got %v vs %v", meta["marketplaceUrl"], meta["productUrl"])
	}
}

func TestLoad_Missing(t *testing.T) {
	r, _ := newTestRepo(t)
	docs, res := r.Load(context.Background())
	if res != LoadEmpty || docs != nil {
		t.Fatalf("expected empty load, got %q with %d docs", res, len(docs))
	}
}

func TestLoad_VersionMismatchDiscarded(t *testing.T) {
	r, ms := newTestRepo(t)
	ms.data = map[string][]byte{DefaultKey: []byte(`{"version":"0.9","documents":[],"lastUpdated":""}`)}

	docs, res := r.Load(context.Background())
	if res != LoadDiscarded || len(docs) != 0 {
		t.Fatalf("expected discarded, got %q with %d docs", res, len(docs))
	}
}

func TestLoad_CorruptedDiscarded(t *testing.T) {
	tests := map[string]string{
		"not json":      `{"version":`,
		"missing id":    `{"version":"1.0","documents":[{"id":"","vector":[]}]}`,
		"bad dimension": `{"version":"1.0","documents":[{"id":"product_1","vector":[1,0]}]}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			r, ms := newTestRepo(t)
			ms.data = map[string][]byte{DefaultKey: []byte(body)}
			if _, res := r.Load(context.Background()); res != LoadDiscarded {
				t.Fatalf("expected %q, got %q", LoadDiscarded, res)
			}
		})
	}
}

func TestLoad_ReadErrorIsEmpty(t *testing.T) {
	r, ms := newTestRepo(t)
	ms.getFn = func(context.Context, string) ([]byte, error) {
		return nil, errors.New("connection refused")
	}
	docs, res := r.Load(context.Background())
	if res != LoadError || docs != nil {
		t.Fatalf("expected error result with no docs, got %q", res)
	}
}

func TestSave_WriteError(t *testing.T) {
	r, ms := newTestRepo(t)
	ms.setFn = func(context.Context, string, []byte) error { return errors.New("READONLY") }
	if err := r.Save(context.Background(), nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestMetrics(t *testing.T) {
	writes := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "w"}, []string{"result"})
	loads := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "l"}, []string{"result"})
	ms := &mockKVStore{}
	r := New(ms, "custom", zap.NewNop()).WithMetrics(writes, loads)
	ctx := context.Background()

	r.Load(ctx)
	_ = r.Save(ctx, nil)
	r.Load(ctx)
	ms.setFn = func(context.Context, string, []byte) error { return errors.New("down") }
	_ = r.Save(ctx, nil)

	if r.Key() != "custom" {
		t.Errorf("expected key custom, got %q", r.Key())
	}
	if v := testutil.ToFloat64(writes.WithLabelValues("ok")); v != 1 {
		t.Errorf("expected 1 ok write, got %f", v)
	}
	if v := testutil.ToFloat64(writes.WithLabelValues("error")); v != 1 {
		t.Errorf("expected 1 failed write, got %f", v)
	}
	if v := testutil.ToFloat64(loads.WithLabelValues("empty")); v != 1 {
		t.Errorf("expected 1 empty load, got %f", v)
	}
	if v := testutil.ToFloat64(loads.WithLabelValues("ok")); v != 1 {
		t.Errorf("expected 1 ok load, got %f", v)
	}
}
