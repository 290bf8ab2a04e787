package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ikehiro79/RakutenROOM/internal/fetcher"
	"github.com/ikehiro79/RakutenROOM/internal/models"
)

// Previewer generates a review preview for a product URL.
type Previewer interface {
	Preview(ctx context.Context, url string) (*models.PreviewResult, error)
}

type Handlers struct {
	previewer Previewer
	logger    *slog.Logger
}

func NewHandlers(previewer Previewer, logger *slog.Logger) *Handlers {
	return &Handlers{
		previewer: previewer,
		logger:    logger,
	}
}

// PreviewRequest asks for the review that would be posted for a product URL.
type PreviewRequest struct {
	URL string `json:"url"`
}

// PreviewResponse carries the extracted product and the generated review.
type PreviewResponse struct {
	Product      *models.ProductInfo `json:"product,omitempty"`
	Review       string              `json:"review,omitempty"`
	ReviewLength int                 `json:"review_length,omitempty"`
	Error        string              `json:"error,omitempty"`
}

// GetPreview handles review preview requests.
func (h *Handlers) GetPreview(w http.ResponseWriter, r *http.Request) {
	var req PreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.URL == "" {
		h.respondError(w, http.StatusBadRequest, "url is required")
		return
	}

	result, err := h.previewer.Preview(r.Context(), req.URL)
	if err != nil {
		h.logger.Error("failed to build preview", "url", req.URL, "error", err)
		status := http.StatusInternalServerError
		if errors.Is(err, fetcher.ErrFetchFailed) {
			status = http.StatusBadGateway
		}
		h.respondJSON(w, status, PreviewResponse{Error: err.Error()})
		return
	}

	h.respondJSON(w, http.StatusOK, PreviewResponse{
		Product:      result.Product,
		Review:       result.Review,
		ReviewLength: len([]rune(result.Review)),
	})
}

// Health reports service liveness.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handlers) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
