package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sony/gobreaker"

	"github.com/FACorreiaa/go-city-info-engine/internal/types"
)

const weatherbitDefaultURL = "https://api.weatherbit.io/v2.0/current"

var _ WeatherProvider = (*WeatherbitClient)(nil)

// WeatherbitClient fetches current conditions from Weatherbit.
type WeatherbitClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

func NewWeatherbitClient(apiKey string) *WeatherbitClient {
	return NewWeatherbitClientWithURL(weatherbitDefaultURL, apiKey)
}

// NewWeatherbitClientWithURL points the client at a custom base URL (tests).
func NewWeatherbitClientWithURL(baseURL, apiKey string) *WeatherbitClient {
	return &WeatherbitClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  newHTTPClient(),
		breaker: newBreaker("weatherbit"),
	}
}

type weatherbitResponse struct {
	Data []struct {
		Temp    float64 `json:"temp"`
		AppTemp float64 `json:"app_temp"`
		Pres    float64 `json:"pres"`
		WindSpd float64 `json:"wind_spd"`
		WindDir float64 `json:"wind_dir"`
		Clouds  float64 `json:"clouds"`
		Precip  float64 `json:"precip"`
		UV      float64 `json:"uv"`
		Sunrise string  `json:"sunrise"`
		Sunset  string  `json:"sunset"`
	} `json:"data"`
}

func (c *WeatherbitClient) FetchWeather(ctx context.Context, id types.CityIdentity) (types.WeatherSnapshot, error) {
	values := url.Values{}
	values.Set("city", fmt.Sprintf("%s,%s", id.City, id.Country))
	values.Set("key", c.apiKey)

	req, err := http.NewRequest(http.MethodGet, c.baseURL+"?"+values.Encode(), nil)
	if err != nil {
		return types.WeatherSnapshot{}, fmt.Errorf("failed to build weatherbit request: %w", err)
	}

	var raw weatherbitResponse
	if err := doGetJSON(ctx, c.client, c.breaker, req, &raw); err != nil {
		return types.WeatherSnapshot{}, fmt.Errorf("weatherbit fetch for %s: %w", id.City, err)
	}
	if len(raw.Data) == 0 {
		return types.WeatherSnapshot{}, fmt.Errorf("weatherbit returned no observations for %s", id.City)
	}

	obs := raw.Data[0]
	return types.WeatherSnapshot{
		Temp:          obs.Temp,
		FeelsLike:     obs.AppTemp,
		Pressure:      obs.Pres,
		WindSpeed:     obs.WindSpd,
		WindDir:       obs.WindDir,
		CloudCover:    obs.Clouds,
		Precipitation: obs.Precip,
		UVIndex:       obs.UV,
		Sunrise:       obs.Sunrise,
		Sunset:        obs.Sunset,
	}, nil
}
