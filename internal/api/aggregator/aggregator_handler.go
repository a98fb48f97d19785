package aggregator

import (
	"context"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-city-info-engine/internal/api"
	"github.com/FACorreiaa/go-city-info-engine/internal/types"
)

// SearchRecorder is the slice of the search service the info page needs:
// every valid city-info request counts as one search observation.
type SearchRecorder interface {
	RecordSearch(ctx context.Context, city, country string) error
}

type Handler struct {
	service  Service
	recorder SearchRecorder
	logger   *slog.Logger
}

func NewHandler(service Service, recorder SearchRecorder, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		recorder: recorder,
		logger:   logger,
	}
}

// GetCityInfo serves the aggregate for one city. Provider failures never turn
// into a 5xx here: the page renders whatever subset of sections succeeded.
func (h *Handler) GetCityInfo(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AggregatorHandler").Start(r.Context(), "GetCityInfo", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/city/info"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "GetCityInfo"))

	id := types.CityIdentity{
		City:    r.URL.Query().Get("city"),
		Country: r.URL.Query().Get("country"),
	}

	if id.Valid() {
		// Fire-and-forget: a recording failure must not degrade the page.
		if err := h.recorder.RecordSearch(ctx, id.City, id.Country); err != nil {
			l.WarnContext(ctx, "Failed to record search event", slog.Any("error", err))
		}
	}

	info := h.service.Aggregate(ctx, id)
	api.WriteJSONResponse(w, r, http.StatusOK, info)
}

// ClearCache flushes every provider cache entry (ops tooling).
func (h *Handler) ClearCache(w http.ResponseWriter, r *http.Request) {
	l := h.logger.With(slog.String("handler", "ClearCache"))
	l.InfoContext(r.Context(), "Flushing provider cache")

	h.service.ClearCache()
	api.WriteJSONResponse(w, r, http.StatusOK, map[string]any{"success": true})
}
