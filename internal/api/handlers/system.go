package handlers

import (
	"database/sql"
	"net/http"

	"github.com/ivolkov/portfolio-graphs/internal/database"
)

// Version is the application version, overridable at build time.
var Version = "dev"

// SystemHandler handles system-related HTTP requests
type SystemHandler struct {
	db *sql.DB
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db *sql.DB) *SystemHandler {
	return &SystemHandler{db: db}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Error    string `json:"error,omitempty"`
}

// Health checks the health of the system and database connectivity
func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := database.HealthCheck(h.db); err != nil {
		response := HealthResponse{
			Status:   "unhealthy",
			Database: "disconnected",
			Error:    err.Error(),
		}
		respondJSON(w, http.StatusServiceUnavailable, response)
		return
	}

	response := HealthResponse{
		Status:   "healthy",
		Database: "connected",
	}
	respondJSON(w, http.StatusOK, response)
}

// VersionResponse represents the version check response
type VersionResponse struct {
	AppVersion string `json:"app_version"`
}

// Version returns the application version.
//
// Endpoint: GET /api/system/version
func (h *SystemHandler) Version(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, VersionResponse{AppVersion: Version})
}
