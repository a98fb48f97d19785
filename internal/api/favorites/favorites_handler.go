package favorites

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

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

// ToggleFavorite flips the favorite state for the authenticated user.
// The response mirrors the classic widget contract: "added", "removed",
// or null when the identity was empty.
func (h *Handler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("FavoritesHandler").Start(r.Context(), "ToggleFavorite", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/favorites/toggle"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "ToggleFavorite"))

	userIDStr, ok := appMiddleware.GetUserIDFromContext(ctx)
	if !ok || userIDStr == "" {
		l.ErrorContext(ctx, "User ID not found in context")
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		l.ErrorContext(ctx, "Invalid user ID format", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	city := r.URL.Query().Get("city")
	country := r.URL.Query().Get("country")

	outcome, err := h.service.Toggle(ctx, userID, city, country)
	if err != nil {
		l.ErrorContext(ctx, "Failed to toggle favorite", slog.Any("error", err))
		span.RecordError(err)
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to toggle favorite")
		return
	}

	var data any
	if outcome != types.ToggleNoop {
		data = string(outcome)
	}
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]any{"data": data})
}

// ListFavorites returns the authenticated user's favorite cities.
func (h *Handler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "ListFavorites"))

	userIDStr, ok := appMiddleware.GetUserIDFromContext(ctx)
	if !ok || userIDStr == "" {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	favorites, err := h.service.ListForUser(ctx, userID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list favorites", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to list favorites")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, map[string]any{"favorites": favorites})
}
