package itinerary

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-city-info-engine/internal/types"
)

type MockBackend struct{ mock.Mock }

func (m *MockBackend) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func fixedFactory(b Backend, err error) BackendFactory {
	return func(ctx context.Context) (Backend, error) {
		return b, err
	}
}

func TestGenerate_HappyPath(t *testing.T) {
	backend := new(MockBackend)
	backend.On("Complete", mock.Anything, mock.MatchedBy(func(prompt string) bool {
		return len(prompt) > 0
	})).Return("Day 1: Visit Central Park\nDay 2: Explore Times Square", nil)

	service := NewServiceImpl(fixedFactory(backend, nil), slog.Default())

	plan, err := service.Generate(context.Background(), types.ItineraryRequest{City: "New York", Days: 2})
	require.NoError(t, err)

	assert.Equal(t, "New York", plan.City)
	assert.Equal(t, 2, plan.Days)
	require.Len(t, plan.Entries, 2)
	assert.Equal(t, 1, plan.Entries[0].DayIndex)
	assert.Equal(t, "Day 1: Visit Central Park", plan.Entries[0].Text)
	assert.Equal(t, 2, plan.Entries[1].DayIndex)
	backend.AssertExpectations(t)
}

func TestGenerate_PromptMentionsCityAndDays(t *testing.T) {
	backend := new(MockBackend)
	var gotPrompt string
	backend.On("Complete", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { gotPrompt = args.String(1) }).
		Return("Day 1: arrival", nil)

	service := NewServiceImpl(fixedFactory(backend, nil), slog.Default())

	_, err := service.Generate(context.Background(), types.ItineraryRequest{City: "Lisbon", Days: 3})
	require.NoError(t, err)

	assert.Contains(t, gotPrompt, "Lisbon")
	assert.Contains(t, gotPrompt, "3")
}

func TestGenerate_UnstructuredResponseBecomesSingleEntry(t *testing.T) {
	backend := new(MockBackend)
	backend.On("Complete", mock.Anything, mock.Anything).
		Return("Just wander around the old town and eat pastries.", nil)

	service := NewServiceImpl(fixedFactory(backend, nil), slog.Default())

	plan, err := service.Generate(context.Background(), types.ItineraryRequest{City: "Lisbon", Days: 2})
	require.NoError(t, err)

	require.Len(t, plan.Entries, 1)
	assert.Equal(t, 1, plan.Entries[0].DayIndex)
}

func TestGenerate_ValidationBeforeBackend(t *testing.T) {
	tests := []struct {
		name string
		req  types.ItineraryRequest
	}{
		{"empty city", types.ItineraryRequest{City: "", Days: 3}},
		{"whitespace city", types.ItineraryRequest{City: "   ", Days: 3}},
		{"zero days", types.ItineraryRequest{City: "Lisbon", Days: 0}},
		{"negative days", types.ItineraryRequest{City: "Lisbon", Days: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factoryCalled := false
			factory := func(ctx context.Context) (Backend, error) {
				factoryCalled = true
				return nil, errors.New("should not be reached")
			}
			service := NewServiceImpl(factory, slog.Default())

			_, err := service.Generate(context.Background(), tt.req)

			require.ErrorIs(t, err, types.ErrInvalidItineraryRequest)
			assert.False(t, factoryCalled, "validation must happen before backend init")
		})
	}
}

func TestGenerate_FactoryErrorIsConfigError(t *testing.T) {
	t.Run("wrapped sentinel passes through", func(t *testing.T) {
		factoryErr := types.ErrBackendNotConfigured
		service := NewServiceImpl(fixedFactory(nil, factoryErr), slog.Default())

		_, err := service.Generate(context.Background(), types.ItineraryRequest{City: "Lisbon", Days: 2})

		require.ErrorIs(t, err, types.ErrBackendNotConfigured)
	})

	t.Run("arbitrary factory error is wrapped", func(t *testing.T) {
		service := NewServiceImpl(fixedFactory(nil, errors.New("no credentials")), slog.Default())

		_, err := service.Generate(context.Background(), types.ItineraryRequest{City: "Lisbon", Days: 2})

		require.ErrorIs(t, err, types.ErrBackendNotConfigured)
	})
}

func TestGenerate_BackendErrorIsUnavailable(t *testing.T) {
	backend := new(MockBackend)
	backend.On("Complete", mock.Anything, mock.Anything).Return("", errors.New("rpc failed"))

	service := NewServiceImpl(fixedFactory(backend, nil), slog.Default())

	_, err := service.Generate(context.Background(), types.ItineraryRequest{City: "Lisbon", Days: 2})

	require.ErrorIs(t, err, types.ErrBackendUnavailable)
}

func TestGenerate_EmptyResponse(t *testing.T) {
	for _, text := range []string{"", "   \n\t  "} {
		backend := new(MockBackend)
		backend.On("Complete", mock.Anything, mock.Anything).Return(text, nil)

		service := NewServiceImpl(fixedFactory(backend, nil), slog.Default())

		_, err := service.Generate(context.Background(), types.ItineraryRequest{City: "Lisbon", Days: 2})

		require.ErrorIs(t, err, types.ErrEmptyResponse)
	}
}
