package itinerary

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

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

type generateRequest struct {
	Days json.Number `json:"days"`
}

// GenerateItinerary builds a day-by-day plan for the city in the URL.
// Day-count validation happens before any backend call is attempted.
func (h *Handler) GenerateItinerary(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("ItineraryHandler").Start(r.Context(), "GenerateItinerary", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/city/{city}/itinerary"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "GenerateItinerary"))

	city := chi.URLParam(r, "city")
	if city == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "City is required")
		return
	}
	l = l.With(slog.String("city", city))

	var req generateRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Invalid request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if req.Days == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Day count is required")
		return
	}
	days, err := req.Days.Int64()
	if err != nil || days <= 0 {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Day count must be a positive integer")
		return
	}

	plan, err := h.service.Generate(ctx, types.ItineraryRequest{City: city, Days: int(days)})
	if err != nil {
		span.RecordError(err)
		switch {
		case errors.Is(err, types.ErrInvalidItineraryRequest):
			api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid itinerary request")
		case errors.Is(err, types.ErrBackendNotConfigured):
			l.ErrorContext(ctx, "Generative backend not configured", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Itinerary backend is not configured")
		case errors.Is(err, types.ErrEmptyResponse):
			l.ErrorContext(ctx, "Generative backend returned nothing usable")
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Itinerary backend returned no content")
		default:
			l.ErrorContext(ctx, "Itinerary generation failed", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to generate itinerary")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, plan)
}
