package search

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/FACorreiaa/go-city-info-engine/internal/types"
)

const defaultTopN = 10

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	RecordSearch(ctx context.Context, city, country string) error
	TopCities(ctx context.Context, n int) ([]types.CityCount, error)
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

// RecordSearch appends one (city, country) observation. Callers treat this as
// fire-and-forget; nothing beyond the acknowledgement is consumed.
func (s *ServiceImpl) RecordSearch(ctx context.Context, city, country string) error {
	if strings.TrimSpace(city) == "" || strings.TrimSpace(country) == "" {
		return fmt.Errorf("%w: city and country are required", types.ErrInvalidIdentity)
	}
	if err := s.repository.Record(ctx, city, country); err != nil {
		s.logger.ErrorContext(ctx, "Failed to record search event", slog.Any("error", err))
		return err
	}
	return nil
}

func (s *ServiceImpl) TopCities(ctx context.Context, n int) ([]types.CityCount, error) {
	if n <= 0 {
		n = defaultTopN
	}
	top, err := s.repository.TopCities(ctx, n)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to query top cities", slog.Any("error", err))
		return nil, err
	}
	return top, nil
}
