package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/FACorreiaa/go-city-info-engine/internal/types"
)

// Provider names, used for cache keys and metrics labels.
const (
	ProviderWeather = "weather"
	ProviderNews    = "news"
	ProviderPlaces  = "places"
	ProviderPhoto   = "photo"
)

// One adapter per external source. Adapters are stateless beyond their HTTP
// client and safe for concurrent use. Transport and parse failures come back
// as plain errors; the aggregator is the layer that turns them into Failed
// provider results.
type (
	WeatherProvider interface {
		FetchWeather(ctx context.Context, id types.CityIdentity) (types.WeatherSnapshot, error)
	}
	NewsProvider interface {
		FetchNews(ctx context.Context, id types.CityIdentity) ([]types.NewsArticle, error)
	}
	PlacesProvider interface {
		FetchPlaces(ctx context.Context, id types.CityIdentity) ([]types.PlaceEntry, error)
	}
	PhotoProvider interface {
		FetchPhoto(ctx context.Context, id types.CityIdentity) (types.PhotoRef, error)
	}
)

const httpTimeout = 10 * time.Second

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// newBreaker builds the per-provider circuit breaker. There are no retries
// anywhere in the fetch path: a single failed attempt is final for that
// request, the breaker only sheds load once a provider keeps failing.
func newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
}

// doGetJSON performs one GET through the circuit breaker and decodes the JSON
// body into dst. Non-2xx statuses and malformed payloads are errors.
func doGetJSON(ctx context.Context, client *http.Client, cb *gobreaker.CircuitBreaker, req *http.Request, dst any) error {
	req = req.WithContext(ctx)

	result, err := cb.Execute(func() (any, error) {
		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			resp.Body.Close()
			return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, req.URL.Host)
		}
		return resp, nil
	})
	if err != nil {
		return err
	}

	resp := result.(*http.Response)
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", req.URL.Host, err)
	}
	return nil
}
