package handler

import (
	"log/slog"
	"net/http"

	"github.com/mediconnect/mediconnect/internal/service"
)

// SearchHandler serves provider search.
type SearchHandler struct {
	svc    *service.SearchService
	logger *slog.Logger
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(svc *service.SearchService, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{svc: svc, logger: logger}
}

// Search handles GET /api/search?q=keyword. A missing or blank q yields [].
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	matches, err := h.svc.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Debug("providers_searched", "results", len(matches))

	writeJSON(w, http.StatusOK, matches)
}
