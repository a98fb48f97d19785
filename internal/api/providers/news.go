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
	newsapiDefaultURL = "https://newsapi.org/v2/everything"
	newsPageSize      = 10
)

var _ NewsProvider = (*NewsAPIClient)(nil)

// NewsAPIClient fetches recent headlines mentioning the city from NewsAPI.
type NewsAPIClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

func NewNewsAPIClient(apiKey string) *NewsAPIClient {
	return NewNewsAPIClientWithURL(newsapiDefaultURL, apiKey)
}

// NewNewsAPIClientWithURL points the client at a custom base URL (tests).
func NewNewsAPIClientWithURL(baseURL, apiKey string) *NewsAPIClient {
	return &NewsAPIClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  newHTTPClient(),
		breaker: newBreaker("newsapi"),
	}
}

type newsapiResponse struct {
	Articles []struct {
		Title  string `json:"title"`
		URL    string `json:"url"`
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		PublishedAt string `json:"publishedAt"`
		Description string `json:"description"`
	} `json:"articles"`
}

func (c *NewsAPIClient) FetchNews(ctx context.Context, id types.CityIdentity) ([]types.NewsArticle, error) {
	values := url.Values{}
	values.Set("q", id.City)
	values.Set("pageSize", fmt.Sprint(newsPageSize))
	values.Set("sortBy", "publishedAt")
	values.Set("apiKey", c.apiKey)

	req, err := http.NewRequest(http.MethodGet, c.baseURL+"?"+values.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build newsapi request: %w", err)
	}

	var raw newsapiResponse
	if err := doGetJSON(ctx, c.client, c.breaker, req, &raw); err != nil {
		return nil, fmt.Errorf("newsapi fetch for %s: %w", id.City, err)
	}

	articles := make([]types.NewsArticle, 0, len(raw.Articles))
	for _, a := range raw.Articles {
		if a.Title == "" || a.URL == "" {
			continue
		}
		// Missing description or source name is fine; the section renders
		// with what it has.
		articles = append(articles, types.NewsArticle{
			Title:       a.Title,
			URL:         a.URL,
			SourceName:  a.Source.Name,
			PublishedAt: a.PublishedAt,
			Description: a.Description,
		})
	}
	return articles, nil
}
