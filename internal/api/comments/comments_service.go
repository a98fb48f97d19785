package comments

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/FACorreiaa/go-city-info-engine/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	Append(ctx context.Context, city, country string, authorID uuid.UUID, body string) error
	ListForCity(ctx context.Context, city, country string) ([]types.Comment, error)
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

// Append stores one comment. A duplicate tuple surfaces as
// types.ErrDuplicateKey for the caller to ignore.
func (s *ServiceImpl) Append(ctx context.Context, city, country string, authorID uuid.UUID, body string) error {
	if strings.TrimSpace(city) == "" || strings.TrimSpace(country) == "" {
		return fmt.Errorf("%w: city and country are required", types.ErrInvalidIdentity)
	}
	if strings.TrimSpace(body) == "" {
		return fmt.Errorf("%w: comment body is required", types.ErrInvalidIdentity)
	}

	if err := s.repository.Append(ctx, city, country, authorID, body); err != nil {
		return err
	}
	return nil
}

func (s *ServiceImpl) ListForCity(ctx context.Context, city, country string) ([]types.Comment, error) {
	comments, err := s.repository.ListForCity(ctx, city, country)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list comments", slog.Any("error", err))
		return nil, err
	}
	return comments, nil
}
