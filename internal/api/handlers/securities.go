package handlers

import (
	"net/http"

	"github.com/ivolkov/portfolio-graphs/internal/service"
)

// SecurityHandler handles security-related HTTP requests
type SecurityHandler struct {
	securityService *service.SecurityService
}

// NewSecurityHandler creates a new SecurityHandler
func NewSecurityHandler(securityService *service.SecurityService) *SecurityHandler {
	return &SecurityHandler{
		securityService: securityService,
	}
}

// SecurityResponse represents one security in the catalogue listing
type SecurityResponse struct {
	ID       string  `json:"id"`
	Ticker   string  `json:"ticker"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
	Sector   string  `json:"sector,omitempty"`
	Country  string  `json:"country,omitempty"`
}

// Securities lists the security catalogue
func (h *SecurityHandler) Securities(w http.ResponseWriter, r *http.Request) {
	securities, err := h.securityService.GetAllSecurities()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to retrieve securities", err)
		return
	}

	response := make([]SecurityResponse, len(securities))
	for i, s := range securities {
		response[i] = SecurityResponse{
			ID:       s.ID,
			Ticker:   s.Ticker,
			Name:     s.Name,
			Price:    s.Price.InexactFloat64(),
			Currency: string(s.Currency),
			Sector:   string(s.Sector),
			Country:  s.Country,
		}
	}

	respondJSON(w, http.StatusOK, response)
}
