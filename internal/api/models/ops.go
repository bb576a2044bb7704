package models

import "time"

// HealthStatus values for operational endpoints.
const (
	HealthStatusOK       = "ok"
	HealthStatusDegraded = "degraded"
)

// Health is the body of the liveness and readiness endpoints.
type Health struct {
	Status  string                 `json:"status"`
	Time    time.Time              `json:"time"`
	Details map[string]interface{} `json:"details,omitempty"`
}
