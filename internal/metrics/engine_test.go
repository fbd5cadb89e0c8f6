package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterEngineMetrics_Idempotent(t *testing.T) {
	RegisterEngineMetrics()
	RegisterEngineMetrics()

	RetrievalRequestsTotal.WithLabelValues("retrieve").Inc()
	if v := testutil.ToFloat64(RetrievalRequestsTotal.WithLabelValues("retrieve")); v < 1 {
		t.Errorf("expected retrieval_requests_total >= 1, got %f", v)
	}

	IngestedDocuments.Set(12)
	if v := testutil.ToFloat64(IngestedDocuments); v != 12 {
		t.Errorf("expected ingested_documents = 12, got %f", v)
	}
}
