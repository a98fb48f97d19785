package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sony/gobreaker"

	"github.com/FACorreiaa/go-city-info-engine/internal/types"
)

const unsplashDefaultURL = "https://api.unsplash.com/search/photos"

var _ PhotoProvider = (*UnsplashClient)(nil)

// UnsplashClient fetches one representative city photo from Unsplash.
type UnsplashClient struct {
	accessKey string
	baseURL   string
	client    *http.Client
	breaker   *gobreaker.CircuitBreaker
}

func NewUnsplashClient(accessKey string) *UnsplashClient {
	return NewUnsplashClientWithURL(unsplashDefaultURL, accessKey)
}

// NewUnsplashClientWithURL points the client at a custom base URL (tests).
func NewUnsplashClientWithURL(baseURL, accessKey string) *UnsplashClient {
	return &UnsplashClient{
		accessKey: accessKey,
		baseURL:   baseURL,
		client:    newHTTPClient(),
		breaker:   newBreaker("unsplash"),
	}
}

type unsplashResponse struct {
	Results []struct {
		URLs struct {
			Regular string `json:"regular"`
		} `json:"urls"`
		User struct {
			Name string `json:"name"`
		} `json:"user"`
	} `json:"results"`
}

func (c *UnsplashClient) FetchPhoto(ctx context.Context, id types.CityIdentity) (types.PhotoRef, error) {
	values := url.Values{}
	values.Set("query", id.City)
	values.Set("per_page", "1")
	values.Set("client_id", c.accessKey)

	req, err := http.NewRequest(http.MethodGet, c.baseURL+"?"+values.Encode(), nil)
	if err != nil {
		return types.PhotoRef{}, fmt.Errorf("failed to build unsplash request: %w", err)
	}

	var raw unsplashResponse
	if err := doGetJSON(ctx, c.client, c.breaker, req, &raw); err != nil {
		return types.PhotoRef{}, fmt.Errorf("unsplash fetch for %s: %w", id.City, err)
	}
	if len(raw.Results) == 0 || raw.Results[0].URLs.Regular == "" {
		return types.PhotoRef{}, fmt.Errorf("unsplash returned no photo for %s", id.City)
	}

	return types.PhotoRef{
		URL:    raw.Results[0].URLs.Regular,
		Credit: raw.Results[0].User.Name,
	}, nil
}
