package metrics

import (
	"context"
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	ProviderFetchesTotal   metric.Int64Counter
	ItineraryRequestsTotal metric.Int64Counter
	CacheClearsTotal       metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metrics instruments ONLY ONCE.
// It gets the Meter from the globally configured MeterProvider, so it must
// run after the provider is installed to record anything useful.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("CityInfoEngine")
		var err error
		m := &AppMetrics{}

		m.ProviderFetchesTotal, err = meter.Int64Counter(
			"provider_fetches_total",
			metric.WithDescription("Total number of upstream provider fetches by provider and status"),
			metric.WithUnit("{fetch}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create provider_fetches_total: %v", err)
		}

		m.ItineraryRequestsTotal, err = meter.Int64Counter(
			"itinerary_requests_total",
			metric.WithDescription("Total number of itinerary generations by outcome"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create itinerary_requests_total: %v", err)
		}

		m.CacheClearsTotal, err = meter.Int64Counter(
			"cache_clears_total",
			metric.WithDescription("Total number of cache flushes"),
			metric.WithUnit("{flush}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create cache_clears_total: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the globally initialized AppMetrics instance, initializing it
// against the current global MeterProvider on first use.
func Get() *AppMetrics {
	InitAppMetrics()
	return appMetrics
}

func (m *AppMetrics) RecordProviderFetch(ctx context.Context, provider, status string) {
	m.ProviderFetchesTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("status", status),
	))
}

func (m *AppMetrics) RecordItineraryRequest(ctx context.Context, outcome string) {
	m.ItineraryRequestsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}

func (m *AppMetrics) RecordCacheClear(ctx context.Context) {
	m.CacheClearsTotal.Add(ctx, 1)
}
