package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ivolkov/portfolio-graphs/internal/apperrors"
	"github.com/ivolkov/portfolio-graphs/internal/model"
	"github.com/ivolkov/portfolio-graphs/internal/service"
)

// graphArtifactExt is the image format the rendering collaborator produces.
const graphArtifactExt = "png"

// GraphHandler handles graph dataset HTTP requests
type GraphHandler struct {
	graphService    *service.GraphService
	snapshotService *service.SnapshotService
	mediaRoot       string
}

// NewGraphHandler creates a new GraphHandler
func NewGraphHandler(graphService *service.GraphService, snapshotService *service.SnapshotService, mediaRoot string) *GraphHandler {
	return &GraphHandler{
		graphService:    graphService,
		snapshotService: snapshotService,
		mediaRoot:       mediaRoot,
	}
}

// GraphSliceResponse represents one bucket of a graph dataset.
// Costs are rounded to two decimal places for display only; the engine
// keeps full precision internally.
type GraphSliceResponse struct {
	Label string  `json:"label"`
	Cost  float64 `json:"cost"`
}

// GraphDataSetResponse represents one variant's dataset. ArtifactPath is the
// media-root-relative location where the rendering collaborator writes the
// pie chart for this dataset.
type GraphDataSetResponse struct {
	PortfolioID  string               `json:"portfolio_id"`
	Variant      string               `json:"variant"`
	ArtifactPath string               `json:"artifact_path"`
	Slices       []GraphSliceResponse `json:"slices"`
}

// Dataset computes one variant's dataset for a portfolio.
//
// Endpoint: GET /api/portfolio/{portfolioId}/graphs/{variant}
// Error: 400 for an unknown variant, 502 when the FX provider call fails
func (h *GraphHandler) Dataset(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "portfolioId")
	variant := model.GraphVariant(chi.URLParam(r, "variant"))

	dataset, err := h.graphService.Dataset(r.Context(), portfolioID, variant)
	switch {
	case errors.Is(err, apperrors.ErrInvalidGraphVariant):
		respondError(w, http.StatusBadRequest, "Unknown graph variant", err)
		return
	case errors.Is(err, apperrors.ErrRateFetch):
		respondError(w, http.StatusBadGateway, "Exchange rate provider unavailable", err)
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, "Failed to compute graph dataset", err)
		return
	}

	respondJSON(w, http.StatusOK, h.toDataSetResponse(dataset))
}

// Datasets computes all five variants for a portfolio.
//
// Endpoint: GET /api/portfolio/{portfolioId}/graphs
func (h *GraphHandler) Datasets(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "portfolioId")

	datasets, err := h.graphService.Datasets(r.Context(), portfolioID)
	switch {
	case errors.Is(err, apperrors.ErrRateFetch):
		respondError(w, http.StatusBadGateway, "Exchange rate provider unavailable", err)
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, "Failed to compute graph datasets", err)
		return
	}

	response := make([]GraphDataSetResponse, len(datasets))
	for i, dataset := range datasets {
		response[i] = h.toDataSetResponse(dataset)
	}

	respondJSON(w, http.StatusOK, response)
}

// Materialized serves the stored dataset written by the daily snapshot job.
//
// Endpoint: GET /api/portfolio/{portfolioId}/graphs/{variant}/materialized
// Error: 404 when the snapshot job has not covered this combination yet
func (h *GraphHandler) Materialized(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "portfolioId")
	variant := model.GraphVariant(chi.URLParam(r, "variant"))

	if !variant.Valid() {
		respondError(w, http.StatusBadRequest, "Unknown graph variant", apperrors.ErrInvalidGraphVariant)
		return
	}

	dataset, err := h.snapshotService.GetMaterialized(portfolioID, variant)
	if errors.Is(err, apperrors.ErrGraphDataNotFound) {
		respondError(w, http.StatusNotFound, "No materialized data for this portfolio and variant", err)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to retrieve materialized dataset", err)
		return
	}

	respondJSON(w, http.StatusOK, h.toDataSetResponse(dataset))
}

func (h *GraphHandler) toDataSetResponse(dataset model.GraphDataSet) GraphDataSetResponse {
	slices := make([]GraphSliceResponse, len(dataset.Slices))
	for i, s := range dataset.Slices {
		slices[i] = GraphSliceResponse{
			Label: s.Label,
			Cost:  s.Cost.Round(2).InexactFloat64(),
		}
	}

	// Variant is validated before any dataset is computed, so path
	// construction cannot fail here.
	var artifactPath string
	if p, err := service.NewGraphPath(h.mediaRoot, dataset.PortfolioID, dataset.Variant, graphArtifactExt); err == nil {
		artifactPath = p.RelPath()
	}

	return GraphDataSetResponse{
		PortfolioID:  dataset.PortfolioID,
		Variant:      string(dataset.Variant),
		ArtifactPath: artifactPath,
		Slices:       slices,
	}
}
