package handler

import (
	"net/http"
	"time"

	"library-be/pkg/logger"
)

// dependencyCheck is a named probe against a backing service
type dependencyCheck struct {
	name  string
	check func(r *http.Request) error
}

// HealthHandler handles health check requests
type HealthHandler struct {
	service string
	version string
	checks  []dependencyCheck
	log     *logger.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(service, version string, log *logger.Logger) *HealthHandler {
	return &HealthHandler{service: service, version: version, log: log}
}

// AddCheck registers a named dependency probe for readiness
func (h *HealthHandler) AddCheck(name string, check func(r *http.Request) error) {
	h.checks = append(h.checks, dependencyCheck{name: name, check: check})
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status       string            `json:"status"`
	Timestamp    time.Time         `json:"timestamp"`
	Version      string            `json:"version"`
	Service      string            `json:"service"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

// Check handles GET /health
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	h.log.Debug("Health check requested")

	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   h.version,
		Service:   h.service,
	}
	writeJSON(w, http.StatusOK, response, h.log)
}

// Ready handles GET /health/ready, probing every registered dependency
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:       "ready",
		Timestamp:    time.Now().UTC(),
		Version:      h.version,
		Service:      h.service,
		Dependencies: make(map[string]string, len(h.checks)),
	}

	status := http.StatusOK
	for _, dep := range h.checks {
		if err := dep.check(r); err != nil {
			h.log.WithError(err).WithField("dependency", dep.name).Warn("Dependency probe failed")
			response.Dependencies[dep.name] = err.Error()
			response.Status = "degraded"
			status = http.StatusServiceUnavailable
			continue
		}
		response.Dependencies[dep.name] = "ok"
	}

	writeJSON(w, status, response, h.log)
}
