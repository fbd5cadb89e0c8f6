package prodex

import (
	"context"

	healthuc "github.com/kailas-cloud/prodex/internal/usecase/health"
)

// HealthStatus is the aggregated engine health.
// Status is "ok", "degraded" or "error"; checks are keyed by component ("database", "store").
type HealthStatus struct {
	Status string
	Checks map[string]string
}

// Healthy reports whether every component passed.
func (h HealthStatus) Healthy() bool {
	return h.Status == string(healthuc.Healthy)
}

// Health checks the snapshot database and whether the store holds documents.
// An empty store reports "empty" until the first ingestion.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	out := HealthStatus{
		Status: string(report.Status),
		Checks: make(map[string]string, len(report.Checks)),
	}
	for component, result := range report.Checks {
		out.Checks[component] = string(result)
	}
	return out
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}
