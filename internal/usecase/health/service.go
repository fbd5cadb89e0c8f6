// Package health aggregates component checks for the /health endpoint.
package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates total failure.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
	// CheckEmpty indicates a reachable component without data.
	CheckEmpty CheckResult = "empty"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	db    DBPinger
	store StoreChecker
}

// New creates a Service. db can be nil when the store runs without persistence.
func New(db DBPinger, store StoreChecker) *Service {
	return &Service{db: db, store: store}
}

// Check runs health checks against all components.
// Any failing check degrades the status; all failing makes it unhealthy.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if s.db != nil {
		if err := s.db.Ping(ctx); err != nil {
			checks["database"] = CheckError
		} else {
			checks["database"] = CheckOK
		}
	}

	if s.store.IsPopulated(ctx) {
		checks["store"] = CheckOK
	} else {
		checks["store"] = CheckEmpty
	}

	failed := 0
	for _, v := range checks {
		if v != CheckOK {
			failed++
		}
	}

	status := Healthy
	switch {
	case failed == len(checks):
		status = Unhealthy
	case failed > 0:
		status = Degraded
	}
	return Report{Status: status, Checks: checks}
}
