package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sony/gobreaker"

	"github.com/FACorreiaa/go-city-info-engine/internal/types"
)

const (
	foursquareDefaultURL = "https://api.foursquare.com/v3/places/search"
	placesLimit          = 10
)

var _ PlacesProvider = (*FoursquareClient)(nil)

// FoursquareClient fetches points of interest from the Foursquare Places API.
type FoursquareClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

func NewFoursquareClient(apiKey string) *FoursquareClient {
	return NewFoursquareClientWithURL(foursquareDefaultURL, apiKey)
}

// NewFoursquareClientWithURL points the client at a custom base URL (tests).
func NewFoursquareClientWithURL(baseURL, apiKey string) *FoursquareClient {
	return &FoursquareClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  newHTTPClient(),
		breaker: newBreaker("foursquare"),
	}
}

type foursquareResponse struct {
	Results []struct {
		FsqID    string `json:"fsq_id"`
		Name     string `json:"name"`
		Location struct {
			FormattedAddress string `json:"formatted_address"`
		} `json:"location"`
		Categories []struct {
			Name string `json:"name"`
		} `json:"categories"`
	} `json:"results"`
}

func (c *FoursquareClient) FetchPlaces(ctx context.Context, id types.CityIdentity) ([]types.PlaceEntry, error) {
	values := url.Values{}
	values.Set("near", fmt.Sprintf("%s,%s", id.City, id.Country))
	values.Set("limit", fmt.Sprint(placesLimit))
	values.Set("sort", "RATING")

	req, err := http.NewRequest(http.MethodGet, c.baseURL+"?"+values.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build foursquare request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Accept", "application/json")

	var raw foursquareResponse
	if err := doGetJSON(ctx, c.client, c.breaker, req, &raw); err != nil {
		return nil, fmt.Errorf("foursquare fetch for %s: %w", id.City, err)
	}

	places := make([]types.PlaceEntry, 0, len(raw.Results))
	for _, res := range raw.Results {
		if res.Name == "" {
			continue
		}
		category := ""
		if len(res.Categories) > 0 {
			category = res.Categories[0].Name
		}
		places = append(places, types.PlaceEntry{
			Name:             res.Name,
			ExternalID:       res.FsqID,
			FormattedAddress: res.Location.FormattedAddress,
			Category:         category,
		})
	}
	return places, nil
}
