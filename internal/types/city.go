package types

import "strings"

// CityIdentity identifies a city as the user typed it. The display form keeps
// the original casing; NormalizedCity/NormalizedCountry are for cache keys only.
type CityIdentity struct {
	City    string `json:"city"`
	Country string `json:"country"`
}

// Valid reports whether both fields are non-empty after trimming.
// An invalid identity must never reach a provider or persistence call.
func (c CityIdentity) Valid() bool {
	return strings.TrimSpace(c.City) != "" && strings.TrimSpace(c.Country) != ""
}

func (c CityIdentity) NormalizedCity() string {
	return strings.ToLower(strings.TrimSpace(c.City))
}

func (c CityIdentity) NormalizedCountry() string {
	return strings.ToLower(strings.TrimSpace(c.Country))
}

// WeatherSnapshot is the typed form of one current-conditions reading.
// Sunrise/sunset stay as timezone-local "HH:MM" strings, the way the feed
// delivers them.
type WeatherSnapshot struct {
	Temp          float64 `json:"temp"`
	FeelsLike     float64 `json:"feels_like"`
	Pressure      float64 `json:"pressure"`
	WindSpeed     float64 `json:"wind_speed"`
	WindDir       float64 `json:"wind_dir"`
	CloudCover    float64 `json:"cloud_cover"`
	Precipitation float64 `json:"precipitation"`
	UVIndex       float64 `json:"uv_index"`
	Sunrise       string  `json:"sunrise"`
	Sunset        string  `json:"sunset"`
}

type NewsArticle struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	SourceName  string `json:"source_name"`
	PublishedAt string `json:"published_at"`
	Description string `json:"description"`
}

type PlaceEntry struct {
	Name             string `json:"name"`
	ExternalID       string `json:"external_id"`
	FormattedAddress string `json:"formatted_address"`
	Category         string `json:"category"`
}

type PhotoRef struct {
	URL    string `json:"url"`
	Credit string `json:"credit,omitempty"`
}

// ProviderStatus tags one provider outcome inside an aggregate.
type ProviderStatus string

const (
	ProviderOk     ProviderStatus = "ok"
	ProviderFailed ProviderStatus = "failed"
)

// ProviderResult is the tagged Ok/Failed variant produced per provider.
// A Failed result carries a reason and a zero Value.
type ProviderResult[T any] struct {
	Status ProviderStatus `json:"status"`
	Value  T              `json:"value,omitempty"`
	Reason string         `json:"reason,omitempty"`
}

func Ok[T any](v T) ProviderResult[T] {
	return ProviderResult[T]{Status: ProviderOk, Value: v}
}

func Failed[T any](reason string) ProviderResult[T] {
	return ProviderResult[T]{Status: ProviderFailed, Reason: reason}
}

func (r ProviderResult[T]) Succeeded() bool {
	return r.Status == ProviderOk
}

// AggregateCityInfo is the merged result of one city-info request. The four
// provider fields are independent: failure in one never nulls another.
type AggregateCityInfo struct {
	Identity CityIdentity                  `json:"identity"`
	Weather  ProviderResult[WeatherSnapshot] `json:"weather"`
	News     ProviderResult[[]NewsArticle]   `json:"news"`
	Places   ProviderResult[[]PlaceEntry]    `json:"places"`
	Photo    ProviderResult[PhotoRef]        `json:"photo"`
}

// CityCount is one row of the popularity ranking.
type CityCount struct {
	City    string `json:"city"`
	Country string `json:"country"`
	Count   int    `json:"count"`
}
