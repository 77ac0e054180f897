package services

import (
	"context"
	"runtime"
	"time"
)

// HealthStatus is the health check response
type HealthStatus struct {
	Status          string    `json:"status"`
	Timestamp       time.Time `json:"timestamp"`
	Version         string    `json:"version"`
	UptimeSeconds   float64   `json:"uptime_seconds"`
	Records         int       `json:"records"`
	SnapshotPresent bool      `json:"snapshot_present"`
	GoVersion       string    `json:"go_version"`
	Goroutines      int       `json:"goroutines"`
}

// HealthService provides liveness and dataset status
type HealthService struct {
	version   string
	startTime time.Time
	survey    *SurveyService
	now       func() time.Time
}

// NewHealthService creates a health service
func NewHealthService(version string, survey *SurveyService) *HealthService {
	return &HealthService{
		version:   version,
		startTime: time.Now(),
		survey:    survey,
		now:       time.Now,
	}
}

// Status reports the current health of the application
func (h *HealthService) Status(ctx context.Context) HealthStatus {
	now := h.now()

	status := HealthStatus{
		Status:        "healthy",
		Timestamp:     now,
		Version:       h.version,
		UptimeSeconds: now.Sub(h.startTime).Seconds(),
		GoVersion:     runtime.Version(),
		Goroutines:    runtime.NumGoroutine(),
	}
	if h.survey != nil {
		status.Records = h.survey.Count()
		status.SnapshotPresent = h.survey.SnapshotPresent()
	}
	return status
}
