package aggregator

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-city-info-engine/internal/api/cache"
	"github.com/FACorreiaa/go-city-info-engine/internal/api/providers"
	"github.com/FACorreiaa/go-city-info-engine/internal/types"
)

var lisbon = types.CityIdentity{City: "Lisbon", Country: "Portugal"}

// --- Provider mocks ---

type MockWeatherProvider struct{ mock.Mock }

func (m *MockWeatherProvider) FetchWeather(ctx context.Context, id types.CityIdentity) (types.WeatherSnapshot, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(types.WeatherSnapshot), args.Error(1)
}

type MockNewsProvider struct{ mock.Mock }

func (m *MockNewsProvider) FetchNews(ctx context.Context, id types.CityIdentity) ([]types.NewsArticle, error) {
	args := m.Called(ctx, id)
	var articles []types.NewsArticle
	if v := args.Get(0); v != nil {
		articles = v.([]types.NewsArticle)
	}
	return articles, args.Error(1)
}

type MockPlacesProvider struct{ mock.Mock }

func (m *MockPlacesProvider) FetchPlaces(ctx context.Context, id types.CityIdentity) ([]types.PlaceEntry, error) {
	args := m.Called(ctx, id)
	var places []types.PlaceEntry
	if v := args.Get(0); v != nil {
		places = v.([]types.PlaceEntry)
	}
	return places, args.Error(1)
}

type MockPhotoProvider struct{ mock.Mock }

func (m *MockPhotoProvider) FetchPhoto(ctx context.Context, id types.CityIdentity) (types.PhotoRef, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(types.PhotoRef), args.Error(1)
}

type fixture struct {
	weather *MockWeatherProvider
	news    *MockNewsProvider
	places  *MockPlacesProvider
	photo   *MockPhotoProvider
	store   cache.Store
	service *ServiceImpl
}

func newFixture(cfg Config) *fixture {
	f := &fixture{
		weather: new(MockWeatherProvider),
		news:    new(MockNewsProvider),
		places:  new(MockPlacesProvider),
		photo:   new(MockPhotoProvider),
		store:   cache.NewMemoryStore(),
	}
	f.service = NewServiceImpl(f.store, f.weather, f.news, f.places, f.photo, cfg, slog.Default())
	return f
}

func (f *fixture) expectAllSucceed() {
	f.weather.On("FetchWeather", mock.Anything, lisbon).Return(types.WeatherSnapshot{Temp: 21.5}, nil)
	f.news.On("FetchNews", mock.Anything, lisbon).Return([]types.NewsArticle{{Title: "headline", URL: "https://example.com"}}, nil)
	f.places.On("FetchPlaces", mock.Anything, lisbon).Return([]types.PlaceEntry{{Name: "Castelo"}}, nil)
	f.photo.On("FetchPhoto", mock.Anything, lisbon).Return(types.PhotoRef{URL: "https://example.com/p.jpg"}, nil)
}

func (f *fixture) assertExpectations(t *testing.T) {
	f.weather.AssertExpectations(t)
	f.news.AssertExpectations(t)
	f.places.AssertExpectations(t)
	f.photo.AssertExpectations(t)
}

func TestAggregate_AllProvidersSucceed(t *testing.T) {
	f := newFixture(Config{})
	f.expectAllSucceed()

	out := f.service.Aggregate(context.Background(), lisbon)

	assert.Equal(t, lisbon, out.Identity)
	require.True(t, out.Weather.Succeeded())
	assert.Equal(t, 21.5, out.Weather.Value.Temp)
	require.True(t, out.News.Succeeded())
	assert.Len(t, out.News.Value, 1)
	require.True(t, out.Places.Succeeded())
	assert.Equal(t, "Castelo", out.Places.Value[0].Name)
	require.True(t, out.Photo.Succeeded())
	f.assertExpectations(t)
}

func TestAggregate_OneProviderFails(t *testing.T) {
	f := newFixture(Config{})
	f.weather.On("FetchWeather", mock.Anything, lisbon).Return(types.WeatherSnapshot{}, errors.New("upstream down"))
	f.news.On("FetchNews", mock.Anything, lisbon).Return([]types.NewsArticle{{Title: "headline", URL: "https://example.com"}}, nil)
	f.places.On("FetchPlaces", mock.Anything, lisbon).Return([]types.PlaceEntry{{Name: "Castelo"}}, nil)
	f.photo.On("FetchPhoto", mock.Anything, lisbon).Return(types.PhotoRef{URL: "https://example.com/p.jpg"}, nil)

	out := f.service.Aggregate(context.Background(), lisbon)

	assert.Equal(t, types.ProviderFailed, out.Weather.Status)
	assert.Equal(t, "upstream down", out.Weather.Reason)

	// The other three are untouched by the weather failure.
	assert.True(t, out.News.Succeeded())
	assert.True(t, out.Places.Succeeded())
	assert.True(t, out.Photo.Succeeded())
	f.assertExpectations(t)
}

func TestAggregate_InvalidIdentity(t *testing.T) {
	tests := []struct {
		name string
		id   types.CityIdentity
	}{
		{"empty city", types.CityIdentity{City: "", Country: "Portugal"}},
		{"empty country", types.CityIdentity{City: "Lisbon", Country: ""}},
		{"whitespace only", types.CityIdentity{City: "   ", Country: "\t"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(Config{})

			out := f.service.Aggregate(context.Background(), tt.id)

			for _, status := range []types.ProviderStatus{
				out.Weather.Status, out.News.Status, out.Places.Status, out.Photo.Status,
			} {
				assert.Equal(t, types.ProviderFailed, status)
			}
			assert.Equal(t, "invalid identity", out.Weather.Reason)

			// No provider or cache I/O for an invalid identity.
			f.weather.AssertNotCalled(t, "FetchWeather", mock.Anything, mock.Anything)
			f.news.AssertNotCalled(t, "FetchNews", mock.Anything, mock.Anything)
			f.places.AssertNotCalled(t, "FetchPlaces", mock.Anything, mock.Anything)
			f.photo.AssertNotCalled(t, "FetchPhoto", mock.Anything, mock.Anything)
		})
	}
}

func TestAggregate_SecondCallServedFromCache(t *testing.T) {
	f := newFixture(Config{WeatherTTL: time.Hour, NewsTTL: time.Hour, PlacesTTL: time.Hour, PhotoTTL: time.Hour})
	f.weather.On("FetchWeather", mock.Anything, lisbon).Return(types.WeatherSnapshot{Temp: 21.5}, nil).Once()
	f.news.On("FetchNews", mock.Anything, lisbon).Return([]types.NewsArticle{{Title: "headline", URL: "https://example.com"}}, nil).Once()
	f.places.On("FetchPlaces", mock.Anything, lisbon).Return([]types.PlaceEntry{{Name: "Castelo"}}, nil).Once()
	f.photo.On("FetchPhoto", mock.Anything, lisbon).Return(types.PhotoRef{URL: "https://example.com/p.jpg"}, nil).Once()

	first := f.service.Aggregate(context.Background(), lisbon)
	second := f.service.Aggregate(context.Background(), lisbon)

	assert.Equal(t, first.Weather.Value, second.Weather.Value)
	assert.True(t, second.Weather.Succeeded())
	assert.True(t, second.News.Succeeded())
	f.assertExpectations(t)
}

func TestAggregate_CacheKeyIsCaseInsensitive(t *testing.T) {
	f := newFixture(Config{WeatherTTL: time.Hour, NewsTTL: time.Hour, PlacesTTL: time.Hour, PhotoTTL: time.Hour})
	f.weather.On("FetchWeather", mock.Anything, mock.Anything).Return(types.WeatherSnapshot{Temp: 21.5}, nil).Once()
	f.news.On("FetchNews", mock.Anything, mock.Anything).Return([]types.NewsArticle(nil), nil).Once()
	f.places.On("FetchPlaces", mock.Anything, mock.Anything).Return([]types.PlaceEntry(nil), nil).Once()
	f.photo.On("FetchPhoto", mock.Anything, mock.Anything).Return(types.PhotoRef{URL: "https://example.com/p.jpg"}, nil).Once()

	f.service.Aggregate(context.Background(), types.CityIdentity{City: "LISBON", Country: "Portugal"})
	out := f.service.Aggregate(context.Background(), types.CityIdentity{City: "lisbon", Country: "portugal"})

	assert.True(t, out.Weather.Succeeded())
	f.assertExpectations(t)
}

func TestAggregate_FailureIsNotCached(t *testing.T) {
	f := newFixture(Config{WeatherTTL: time.Hour, NewsTTL: time.Hour, PlacesTTL: time.Hour, PhotoTTL: time.Hour})
	f.weather.On("FetchWeather", mock.Anything, lisbon).Return(types.WeatherSnapshot{}, errors.New("upstream down")).Twice()
	f.news.On("FetchNews", mock.Anything, lisbon).Return([]types.NewsArticle(nil), nil).Once()
	f.places.On("FetchPlaces", mock.Anything, lisbon).Return([]types.PlaceEntry(nil), nil).Once()
	f.photo.On("FetchPhoto", mock.Anything, lisbon).Return(types.PhotoRef{URL: "x"}, nil).Once()

	f.service.Aggregate(context.Background(), lisbon)
	out := f.service.Aggregate(context.Background(), lisbon)

	assert.Equal(t, types.ProviderFailed, out.Weather.Status)
	f.assertExpectations(t)
}

func TestAggregate_ClearCacheForcesRefetch(t *testing.T) {
	f := newFixture(Config{WeatherTTL: time.Hour, NewsTTL: time.Hour, PlacesTTL: time.Hour, PhotoTTL: time.Hour})
	f.weather.On("FetchWeather", mock.Anything, lisbon).Return(types.WeatherSnapshot{Temp: 21.5}, nil).Twice()
	f.news.On("FetchNews", mock.Anything, lisbon).Return([]types.NewsArticle(nil), nil).Twice()
	f.places.On("FetchPlaces", mock.Anything, lisbon).Return([]types.PlaceEntry(nil), nil).Twice()
	f.photo.On("FetchPhoto", mock.Anything, lisbon).Return(types.PhotoRef{URL: "x"}, nil).Twice()

	f.service.Aggregate(context.Background(), lisbon)
	f.service.ClearCache()
	f.service.Aggregate(context.Background(), lisbon)

	f.assertExpectations(t)
}

func TestAggregate_SlowProviderTimesOut(t *testing.T) {
	f := newFixture(Config{ProviderTimeout: 30 * time.Millisecond})
	f.weather.On("FetchWeather", mock.Anything, lisbon).
		Run(func(args mock.Arguments) {
			ctx := args.Get(0).(context.Context)
			<-ctx.Done()
		}).
		Return(types.WeatherSnapshot{}, context.DeadlineExceeded)
	f.news.On("FetchNews", mock.Anything, lisbon).Return([]types.NewsArticle{{Title: "headline", URL: "https://example.com"}}, nil)
	f.places.On("FetchPlaces", mock.Anything, lisbon).Return([]types.PlaceEntry{{Name: "Castelo"}}, nil)
	f.photo.On("FetchPhoto", mock.Anything, lisbon).Return(types.PhotoRef{URL: "x"}, nil)

	out := f.service.Aggregate(context.Background(), lisbon)

	assert.Equal(t, types.ProviderFailed, out.Weather.Status)
	assert.Equal(t, "timeout", out.Weather.Reason)

	// The slow provider never delays the others.
	assert.True(t, out.News.Succeeded())
	assert.True(t, out.Places.Succeeded())
	assert.True(t, out.Photo.Succeeded())
}

func TestAggregate_DecodesSerializedCacheEntries(t *testing.T) {
	f := newFixture(Config{WeatherTTL: time.Hour, NewsTTL: time.Hour, PlacesTTL: time.Hour, PhotoTTL: time.Hour})

	// Externalized stores hand back raw JSON instead of typed values.
	snap := types.WeatherSnapshot{Temp: 17.3, Sunrise: "06:44"}
	raw, err := json.Marshal(snap)
	require.NoError(t, err)
	f.store.Set(cache.Key(providers.ProviderWeather, lisbon), raw, time.Hour)

	f.news.On("FetchNews", mock.Anything, lisbon).Return([]types.NewsArticle(nil), nil)
	f.places.On("FetchPlaces", mock.Anything, lisbon).Return([]types.PlaceEntry(nil), nil)
	f.photo.On("FetchPhoto", mock.Anything, lisbon).Return(types.PhotoRef{URL: "x"}, nil)

	out := f.service.Aggregate(context.Background(), lisbon)

	require.True(t, out.Weather.Succeeded())
	assert.Equal(t, snap, out.Weather.Value)
	f.weather.AssertNotCalled(t, "FetchWeather", mock.Anything, mock.Anything)
}
