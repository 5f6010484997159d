package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ivolkov/portfolio-graphs/internal/apperrors"
	"github.com/ivolkov/portfolio-graphs/internal/service"
)

// DeveloperHandler handles developer/maintenance HTTP requests
type DeveloperHandler struct {
	settingService *service.SettingService
}

// NewDeveloperHandler creates a new DeveloperHandler
func NewDeveloperHandler(settingService *service.SettingService) *DeveloperHandler {
	return &DeveloperHandler{
		settingService: settingService,
	}
}

// SetAPIKeyRequest represents the FX API key update payload
type SetAPIKeyRequest struct {
	APIKey string `json:"api_key"`
}

// SetAPIKey stores the FX provider API key, encrypted at rest.
// The raw key is never returned by any endpoint.
func (h *DeveloperHandler) SetAPIKey(w http.ResponseWriter, r *http.Request) {
	var req SetAPIKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	err := h.settingService.SetFXAPIKey(req.APIKey)
	if errors.Is(err, apperrors.ErrMissingRequiredField) {
		respondError(w, http.StatusBadRequest, "API key is required", err)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to store API key", err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// APIKeyStatusResponse reports whether a key is stored, without revealing it
type APIKeyStatusResponse struct {
	Configured bool `json:"configured"`
}

// APIKeyStatus reports whether an FX API key has been stored through the API.
func (h *DeveloperHandler) APIKeyStatus(w http.ResponseWriter, r *http.Request) {
	stored, err := h.settingService.HasStoredFXAPIKey()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to check API key status", err)
		return
	}

	respondJSON(w, http.StatusOK, APIKeyStatusResponse{Configured: stored})
}
