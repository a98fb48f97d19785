package favorites

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-city-info-engine/internal/types"
)

type MockRepository struct{ mock.Mock }

func (m *MockRepository) Exists(ctx context.Context, userID uuid.UUID, city, country string) (bool, error) {
	args := m.Called(ctx, userID, city, country)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) Insert(ctx context.Context, userID uuid.UUID, city, country string) error {
	args := m.Called(ctx, userID, city, country)
	return args.Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, userID uuid.UUID, city, country string) error {
	args := m.Called(ctx, userID, city, country)
	return args.Error(0)
}

func (m *MockRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]types.FavoriteCity, error) {
	args := m.Called(ctx, userID)
	var favs []types.FavoriteCity
	if v := args.Get(0); v != nil {
		favs = v.([]types.FavoriteCity)
	}
	return favs, args.Error(1)
}

func TestToggle_AddsWhenAbsent(t *testing.T) {
	userID := uuid.New()
	repo := new(MockRepository)
	repo.On("Exists", mock.Anything, userID, "Lisbon", "Portugal").Return(false, nil)
	repo.On("Insert", mock.Anything, userID, "Lisbon", "Portugal").Return(nil)

	service := NewServiceImpl(repo, slog.Default())

	outcome, err := service.Toggle(context.Background(), userID, "Lisbon", "Portugal")
	require.NoError(t, err)
	assert.Equal(t, types.ToggleAdded, outcome)
	repo.AssertExpectations(t)
}

func TestToggle_RemovesWhenPresent(t *testing.T) {
	userID := uuid.New()
	repo := new(MockRepository)
	repo.On("Exists", mock.Anything, userID, "Lisbon", "Portugal").Return(true, nil)
	repo.On("Delete", mock.Anything, userID, "Lisbon", "Portugal").Return(nil)

	service := NewServiceImpl(repo, slog.Default())

	outcome, err := service.Toggle(context.Background(), userID, "Lisbon", "Portugal")
	require.NoError(t, err)
	assert.Equal(t, types.ToggleRemoved, outcome)
	repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestToggle_EmptyIdentityIsNoop(t *testing.T) {
	tests := []struct {
		name    string
		city    string
		country string
	}{
		{"empty city", "", "Portugal"},
		{"empty country", "Lisbon", ""},
		{"whitespace only", "  ", "\t"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			service := NewServiceImpl(repo, slog.Default())

			outcome, err := service.Toggle(context.Background(), uuid.New(), tt.city, tt.country)
			require.NoError(t, err)
			assert.Equal(t, types.ToggleNoop, outcome)

			// A noop never reaches storage.
			repo.AssertNotCalled(t, "Exists", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestToggle_DuplicateInsertRaceCountsAsAdded(t *testing.T) {
	userID := uuid.New()
	repo := new(MockRepository)
	repo.On("Exists", mock.Anything, userID, "Lisbon", "Portugal").Return(false, nil)
	repo.On("Insert", mock.Anything, userID, "Lisbon", "Portugal").Return(types.ErrDuplicateKey)

	service := NewServiceImpl(repo, slog.Default())

	outcome, err := service.Toggle(context.Background(), userID, "Lisbon", "Portugal")
	require.NoError(t, err)
	assert.Equal(t, types.ToggleAdded, outcome)
}

func TestToggle_RepositoryErrors(t *testing.T) {
	userID := uuid.New()

	t.Run("exists fails", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("Exists", mock.Anything, userID, "Lisbon", "Portugal").Return(false, errors.New("db down"))

		service := NewServiceImpl(repo, slog.Default())

		outcome, err := service.Toggle(context.Background(), userID, "Lisbon", "Portugal")
		require.Error(t, err)
		assert.Equal(t, types.ToggleNoop, outcome)
	})

	t.Run("delete fails", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("Exists", mock.Anything, userID, "Lisbon", "Portugal").Return(true, nil)
		repo.On("Delete", mock.Anything, userID, "Lisbon", "Portugal").Return(errors.New("db down"))

		service := NewServiceImpl(repo, slog.Default())

		outcome, err := service.Toggle(context.Background(), userID, "Lisbon", "Portugal")
		require.Error(t, err)
		assert.Equal(t, types.ToggleNoop, outcome)
	})

	t.Run("insert fails with non-duplicate error", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("Exists", mock.Anything, userID, "Lisbon", "Portugal").Return(false, nil)
		repo.On("Insert", mock.Anything, userID, "Lisbon", "Portugal").Return(errors.New("db down"))

		service := NewServiceImpl(repo, slog.Default())

		outcome, err := service.Toggle(context.Background(), userID, "Lisbon", "Portugal")
		require.Error(t, err)
		assert.Equal(t, types.ToggleNoop, outcome)
	})
}

func TestToggle_RoundTripRestoresState(t *testing.T) {
	userID := uuid.New()
	repo := new(MockRepository)
	repo.On("Exists", mock.Anything, userID, "Lisbon", "Portugal").Return(false, nil).Once()
	repo.On("Insert", mock.Anything, userID, "Lisbon", "Portugal").Return(nil).Once()
	repo.On("Exists", mock.Anything, userID, "Lisbon", "Portugal").Return(true, nil).Once()
	repo.On("Delete", mock.Anything, userID, "Lisbon", "Portugal").Return(nil).Once()

	service := NewServiceImpl(repo, slog.Default())

	first, err := service.Toggle(context.Background(), userID, "Lisbon", "Portugal")
	require.NoError(t, err)
	second, err := service.Toggle(context.Background(), userID, "Lisbon", "Portugal")
	require.NoError(t, err)

	assert.Equal(t, types.ToggleAdded, first)
	assert.Equal(t, types.ToggleRemoved, second)
	repo.AssertExpectations(t)
}

func TestListForUser(t *testing.T) {
	userID := uuid.New()
	repo := new(MockRepository)
	repo.On("ListForUser", mock.Anything, userID).Return([]types.FavoriteCity{
		{City: "Lisbon", Country: "Portugal"},
		{City: "Porto", Country: "Portugal"},
	}, nil)

	service := NewServiceImpl(repo, slog.Default())

	favs, err := service.ListForUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, favs, 2)
}
