package search

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/FACorreiaa/go-city-info-engine/internal/api"
)

type Handler struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// TopCities returns the most-searched cities for the profile page widget.
func (h *Handler) TopCities(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "TopCities"))

	n := 0
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			api.ErrorResponse(w, r, http.StatusBadRequest, "n must be a positive integer")
			return
		}
		n = parsed
	}

	top, err := h.service.TopCities(ctx, n)
	if err != nil {
		l.ErrorContext(ctx, "Failed to query top cities", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to query top cities")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]any{"cities": top})
}
