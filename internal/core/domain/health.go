package domain

import "time"

// HealthStatus summarises the state of the pipeline's dependencies.
type HealthStatus string

// Health statuses.
const (
	HealthHealthy  HealthStatus = "healthy"
	HealthDegraded HealthStatus = "degraded"
)

// ComponentHealth is the result of checking one dependency.
type ComponentHealth struct {
	Name    string        `json:"name"`
	Model   string        `json:"model,omitempty"`
	Healthy bool          `json:"healthy"`
	Error   string        `json:"error,omitempty"`
	Latency time.Duration `json:"latencyNs"`
}

// HealthReport is the outcome of a health check.
type HealthReport struct {
	Status     HealthStatus      `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Components []ComponentHealth `json:"components"`
}

// NewHealthReport derives the overall status from the component results.
func NewHealthReport(components []ComponentHealth, at time.Time) *HealthReport {
	status := HealthHealthy
	for _, c := range components {
		if !c.Healthy {
			status = HealthDegraded
			break
		}
	}
	return &HealthReport{
		Status:     status,
		Timestamp:  at,
		Components: components,
	}
}
