package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates the shared store is failing; suggestions still work from the local cache.
	Degraded Status = "degraded"
	// Unhealthy indicates the search backend is failing.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	backend BackendChecker
	db      DBPinger
}

// New creates a Service. db can be nil when no shared store is configured.
func New(backend BackendChecker, db DBPinger) *Service {
	return &Service{backend: backend, db: db}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	status := Healthy

	if s.db != nil {
		if err := s.db.Ping(ctx); err != nil {
			checks["database"] = CheckError
			status = Degraded
		} else {
			checks["database"] = CheckOK
		}
	}

	if err := s.backend.HealthCheck(ctx); err != nil {
		checks["search_backend"] = CheckError
		status = Unhealthy
	} else {
		checks["search_backend"] = CheckOK
	}

	return Report{Status: status, Checks: checks}
}
