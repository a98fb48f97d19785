package itinerary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-city-info-engine/app/observability/metrics"
	"github.com/FACorreiaa/go-city-info-engine/internal/types"
)

// Backend is the generative-text collaborator: one prompt in, free text out.
type Backend interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// BackendFactory initializes a Backend for one request. Initialization
// happens per call so a missing credential surfaces as a configuration error
// on the request that needs it, never as partial output.
type BackendFactory func(ctx context.Context) (Backend, error)

var _ Service = (*ServiceImpl)(nil)

// Service turns an itinerary request into a day-indexed plan. Results are
// intentionally never cached: content is meant to vary and the day count is
// part of the input.
type Service interface {
	Generate(ctx context.Context, req types.ItineraryRequest) (*types.ItineraryPlan, error)
}

type ServiceImpl struct {
	logger     *slog.Logger
	newBackend BackendFactory
}

func NewServiceImpl(newBackend BackendFactory, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:     logger,
		newBackend: newBackend,
	}
}

// Generate validates the request, renders the prompt, makes a single backend
// round trip, and parses the response into day entries.
func (s *ServiceImpl) Generate(ctx context.Context, req types.ItineraryRequest) (*types.ItineraryPlan, error) {
	ctx, span := otel.Tracer("ItineraryService").Start(ctx, "Generate", trace.WithAttributes(
		attribute.String("city.name", req.City),
		attribute.Int("itinerary.days", req.Days),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Generate"), slog.String("city", req.City))

	if strings.TrimSpace(req.City) == "" || req.Days <= 0 {
		return nil, fmt.Errorf("%w: city and a positive day count are required", types.ErrInvalidItineraryRequest)
	}

	backend, err := s.newBackend(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to initialize generative backend", slog.Any("error", err))
		span.RecordError(err)
		metrics.Get().RecordItineraryRequest(ctx, "config_error")
		if errors.Is(err, types.ErrBackendNotConfigured) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", types.ErrBackendNotConfigured, err)
	}

	prompt := generateItineraryPrompt(strings.TrimSpace(req.City), req.Days)

	text, err := backend.Complete(ctx, prompt)
	if err != nil {
		l.ErrorContext(ctx, "Generative backend call failed", slog.Any("error", err))
		span.RecordError(err)
		metrics.Get().RecordItineraryRequest(ctx, "backend_error")
		return nil, fmt.Errorf("%w: %v", types.ErrBackendUnavailable, err)
	}

	if strings.TrimSpace(text) == "" {
		l.ErrorContext(ctx, "Generative backend returned empty response")
		span.SetStatus(codes.Error, "empty response")
		metrics.Get().RecordItineraryRequest(ctx, "empty_response")
		return nil, types.ErrEmptyResponse
	}

	entries := parsePlanEntries(text)
	span.SetAttributes(attribute.Int("itinerary.entries", len(entries)))
	span.SetStatus(codes.Ok, "Itinerary generated")
	metrics.Get().RecordItineraryRequest(ctx, "ok")

	return &types.ItineraryPlan{
		City:    req.City,
		Days:    req.Days,
		Entries: entries,
	}, nil
}
