package comments

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	appMiddleware "github.com/FACorreiaa/go-city-info-engine/app/middleware"
	"github.com/FACorreiaa/go-city-info-engine/internal/api"
	"github.com/FACorreiaa/go-city-info-engine/internal/types"
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

type appendRequest struct {
	City    string `json:"city"`
	Country string `json:"country"`
	Comment string `json:"comment"`
}

// AppendComment stores one comment for the authenticated user. An exact
// duplicate is acknowledged as a no-op rather than failing the request.
func (h *Handler) AppendComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "AppendComment"))

	userIDStr, ok := appMiddleware.GetUserIDFromContext(ctx)
	if !ok || userIDStr == "" {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}
	authorID, err := uuid.Parse(userIDStr)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	var req appendRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	err = h.service.Append(ctx, req.City, req.Country, authorID, req.Comment)
	switch {
	case err == nil:
		api.WriteJSONResponse(w, r, http.StatusCreated, map[string]any{"success": true})
	case errors.Is(err, types.ErrDuplicateKey):
		l.InfoContext(ctx, "Duplicate comment ignored", slog.String("city", req.City))
		api.WriteJSONResponse(w, r, http.StatusOK, map[string]any{"success": true, "duplicate": true})
	case errors.Is(err, types.ErrInvalidIdentity):
		api.ErrorResponse(w, r, http.StatusBadRequest, "City, country, and comment are required")
	default:
		l.ErrorContext(ctx, "Failed to append comment", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to save comment")
	}
}

// ListComments returns a city's comments in creation order.
func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "ListComments"))

	city := r.URL.Query().Get("city")
	country := r.URL.Query().Get("country")
	if city == "" || country == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "City and country are required")
		return
	}

	comments, err := h.service.ListForCity(ctx, city, country)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list comments", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list comments")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]any{"comments": comments})
}
