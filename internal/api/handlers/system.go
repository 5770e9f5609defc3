package handlers

import (
	"net/http"

	"github.com/ndewijer/portfolio-ledger/internal/api/response"
	"github.com/ndewijer/portfolio-ledger/internal/service"
)

// SystemHandler handles system-related HTTP requests
type SystemHandler struct {
	systemService *service.SystemService
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(systemService *service.SystemService) *SystemHandler {
	return &SystemHandler{
		systemService: systemService,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status string `json:"status"`
	service.Health
	Error string `json:"error,omitempty"`
}

// Health reports cache database connectivity and whether a ledger is loaded.
//
// Endpoint: GET /api/system/health
// Response: 200 OK with HealthResponse
// Error: 503 Service Unavailable if the database is down or no ledger is loaded
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	health, err := h.systemService.CheckHealth(r.Context())
	if err != nil {
		response.RespondJSON(w, r, http.StatusServiceUnavailable, HealthResponse{
			Status: "unhealthy",
			Health: health,
			Error:  err.Error(),
		})
		return
	}

	response.RespondJSON(w, r, http.StatusOK, HealthResponse{
		Status: "healthy",
		Health: health,
	})
}

// VersionResponse represents the version response
type VersionResponse struct {
	AppVersion string `json:"app_version"`
}

// Version returns the application version.
//
// Endpoint: GET /api/system/version
func (h *SystemHandler) Version(w http.ResponseWriter, r *http.Request) {
	response.RespondJSON(w, r, http.StatusOK, VersionResponse{AppVersion: h.systemService.CheckVersion()})
}
