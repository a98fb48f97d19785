package favorites

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-city-info-engine/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// Service implements the presence-based favorite toggle.
type Service interface {
	Toggle(ctx context.Context, userID uuid.UUID, city, country string) (types.ToggleOutcome, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]types.FavoriteCity, error)
}

type ServiceImpl struct {
	logger     *slog.Logger
	repository Repository
}

func NewServiceImpl(repository Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:     logger,
		repository: repository,
	}
}

// Toggle flips the favorite state for (userID, city, country): absent inserts
// and returns added, present deletes and returns removed. An empty city or
// country is a noop that never touches storage. A duplicate-insert race is
// treated as the entry already being present, not a failure.
func (s *ServiceImpl) Toggle(ctx context.Context, userID uuid.UUID, city, country string) (types.ToggleOutcome, error) {
	ctx, span := otel.Tracer("FavoritesService").Start(ctx, "Toggle", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
		attribute.String("city.name", city),
	))
	defer span.End()

	if strings.TrimSpace(city) == "" || strings.TrimSpace(country) == "" {
		return types.ToggleNoop, nil
	}

	exists, err := s.repository.Exists(ctx, userID, city, country)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to check favorite existence", slog.Any("error", err))
		span.RecordError(err)
		return types.ToggleNoop, fmt.Errorf("failed to toggle favorite: %w", err)
	}

	if exists {
		if err := s.repository.Delete(ctx, userID, city, country); err != nil {
			s.logger.ErrorContext(ctx, "Failed to delete favorite", slog.Any("error", err))
			span.RecordError(err)
			return types.ToggleNoop, fmt.Errorf("failed to toggle favorite: %w", err)
		}
		span.SetStatus(codes.Ok, "Favorite removed")
		return types.ToggleRemoved, nil
	}

	if err := s.repository.Insert(ctx, userID, city, country); err != nil {
		if errors.Is(err, types.ErrDuplicateKey) {
			// A concurrent toggle inserted it between our existence check and
			// insert. The entry is present, which is what "added" means.
			span.AddEvent("Duplicate insert treated as added")
			return types.ToggleAdded, nil
		}
		s.logger.ErrorContext(ctx, "Failed to insert favorite", slog.Any("error", err))
		span.RecordError(err)
		return types.ToggleNoop, fmt.Errorf("failed to toggle favorite: %w", err)
	}

	span.SetStatus(codes.Ok, "Favorite added")
	return types.ToggleAdded, nil
}

func (s *ServiceImpl) ListForUser(ctx context.Context, userID uuid.UUID) ([]types.FavoriteCity, error) {
	favorites, err := s.repository.ListForUser(ctx, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list favorites", slog.Any("error", err))
		return nil, err
	}
	return favorites, nil
}
