package aggregator

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/go-city-info-engine/app/observability/metrics"
	"github.com/FACorreiaa/go-city-info-engine/internal/api/cache"
	"github.com/FACorreiaa/go-city-info-engine/internal/api/providers"
	"github.com/FACorreiaa/go-city-info-engine/internal/types"
)

const (
	defaultProviderTimeout = 8 * time.Second

	reasonInvalidIdentity = "invalid identity"
	reasonTimeout         = "timeout"
)

var _ Service = (*ServiceImpl)(nil)

// Service merges the four provider results for one city into a single
// aggregate. Aggregate never fails: the worst case is four Failed fields.
type Service interface {
	Aggregate(ctx context.Context, id types.CityIdentity) types.AggregateCityInfo
	ClearCache()
}

// Config carries the per-provider freshness policy. A zero TTL means
// cache.NoExpiration: one fetch per process lifetime, refreshed only by
// clearing the store.
type Config struct {
	ProviderTimeout time.Duration
	WeatherTTL      time.Duration
	NewsTTL         time.Duration
	PlacesTTL       time.Duration
	PhotoTTL        time.Duration
}

func (c *Config) providerTimeout() time.Duration {
	if c.ProviderTimeout <= 0 {
		return defaultProviderTimeout
	}
	return c.ProviderTimeout
}

func ttlOrNoExpiration(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return cache.NoExpiration
	}
	return ttl
}

type ServiceImpl struct {
	logger  *slog.Logger
	store   cache.Store
	weather providers.WeatherProvider
	news    providers.NewsProvider
	places  providers.PlacesProvider
	photo   providers.PhotoProvider
	cfg     Config
}

func NewServiceImpl(
	store cache.Store,
	weather providers.WeatherProvider,
	news providers.NewsProvider,
	places providers.PlacesProvider,
	photo providers.PhotoProvider,
	cfg Config,
	logger *slog.Logger,
) *ServiceImpl {
	return &ServiceImpl{
		logger:  logger,
		store:   store,
		weather: weather,
		news:    news,
		places:  places,
		photo:   photo,
		cfg:     cfg,
	}
}

// Aggregate fans out to all four providers concurrently, with the cache store
// in front of each. The four outcomes are independent: a slow or failing
// provider never delays or nulls another, and only successes get cached.
func (s *ServiceImpl) Aggregate(ctx context.Context, id types.CityIdentity) types.AggregateCityInfo {
	ctx, span := otel.Tracer("AggregatorService").Start(ctx, "Aggregate", trace.WithAttributes(
		attribute.String("city.name", id.City),
		attribute.String("city.country", id.Country),
	))
	defer span.End()

	out := types.AggregateCityInfo{Identity: id}

	if !id.Valid() {
		s.logger.WarnContext(ctx, "Aggregate called with invalid identity",
			slog.String("city", id.City), slog.String("country", id.Country))
		span.SetStatus(codes.Error, "invalid identity")
		out.Weather = types.Failed[types.WeatherSnapshot](reasonInvalidIdentity)
		out.News = types.Failed[[]types.NewsArticle](reasonInvalidIdentity)
		out.Places = types.Failed[[]types.PlaceEntry](reasonInvalidIdentity)
		out.Photo = types.Failed[types.PhotoRef](reasonInvalidIdentity)
		return out
	}

	timeout := s.cfg.providerTimeout()

	// errgroup.WithContext gives each fetch the request context; goroutines
	// always return nil so one provider's failure cannot cancel the others.
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		out.Weather = cachedFetch(gCtx, s.store, cache.Key(providers.ProviderWeather, id),
			ttlOrNoExpiration(s.cfg.WeatherTTL), timeout, id, s.weather.FetchWeather)
		s.observe(gCtx, providers.ProviderWeather, out.Weather.Status)
		return nil
	})
	g.Go(func() error {
		out.News = cachedFetch(gCtx, s.store, cache.Key(providers.ProviderNews, id),
			ttlOrNoExpiration(s.cfg.NewsTTL), timeout, id, s.news.FetchNews)
		s.observe(gCtx, providers.ProviderNews, out.News.Status)
		return nil
	})
	g.Go(func() error {
		out.Places = cachedFetch(gCtx, s.store, cache.Key(providers.ProviderPlaces, id),
			ttlOrNoExpiration(s.cfg.PlacesTTL), timeout, id, s.places.FetchPlaces)
		s.observe(gCtx, providers.ProviderPlaces, out.Places.Status)
		return nil
	})
	g.Go(func() error {
		out.Photo = cachedFetch(gCtx, s.store, cache.Key(providers.ProviderPhoto, id),
			ttlOrNoExpiration(s.cfg.PhotoTTL), timeout, id, s.photo.FetchPhoto)
		s.observe(gCtx, providers.ProviderPhoto, out.Photo.Status)
		return nil
	})

	_ = g.Wait()

	span.SetStatus(codes.Ok, "Aggregate merged")
	return out
}

// ClearCache flushes every cached provider result; the next Aggregate call
// re-invokes every adapter. Exposed for ops tooling and the scheduled flush.
func (s *ServiceImpl) ClearCache() {
	s.store.Clear()
}

func (s *ServiceImpl) observe(ctx context.Context, provider string, status types.ProviderStatus) {
	if status != types.ProviderOk {
		s.logger.WarnContext(ctx, "provider fetch failed", slog.String("provider", provider))
	}
	metrics.Get().RecordProviderFetch(ctx, provider, string(status))
}

// cachedFetch applies the cache in front of one adapter call. A hit wraps the
// cached value as Ok without touching the network; a miss fetches once under
// the per-provider timeout and caches only on success. There is no retry: a
// failed attempt is final for this request, the next request gets a fresh one.
func cachedFetch[T any](
	ctx context.Context,
	store cache.Store,
	key string,
	ttl time.Duration,
	timeout time.Duration,
	id types.CityIdentity,
	fetch func(context.Context, types.CityIdentity) (T, error),
) types.ProviderResult[T] {
	if v, found := store.Get(key); found {
		switch cached := v.(type) {
		case T:
			return types.Ok(cached)
		case []byte:
			// Externalized stores hand back serialized JSON.
			var t T
			if err := json.Unmarshal(cached, &t); err == nil {
				return types.Ok(t)
			}
			// Undecodable entry: fall through to a fresh fetch.
		}
	}

	fetchCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	v, err := fetch(fetchCtx, id)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(fetchCtx.Err(), context.DeadlineExceeded) {
			return types.Failed[T](reasonTimeout)
		}
		return types.Failed[T](err.Error())
	}

	store.Set(key, v, ttl)
	return types.Ok(v)
}
