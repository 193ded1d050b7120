package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	redisv9 "github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"

	"github.com/fakhrymubarak/weather-widget/internal/config"
	"github.com/fakhrymubarak/weather-widget/internal/model"
)

// Custom error types
var (
	ErrLocationNotFound   = errors.New("location not found")
	ErrAPIKeyMissing      = errors.New("API key missing")
	ErrExternalAPI        = errors.New("external API error")
	ErrServiceUnavailable = errors.New("weather service unavailable")
)

// APIError is a non-200 reply from OpenWeatherMap.
type APIError struct {
	StatusCode int
	// Message is the upstream "message" field, empty if the body had none.
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("openweathermap: status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("openweathermap: status %d", e.StatusCode)
}

func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return ErrLocationNotFound
	}
	return ErrExternalAPI
}

func newAPIError(status int, body []byte) *APIError {
	var upstream model.UpstreamError
	_ = json.Unmarshal(body, &upstream)
	return &APIError{StatusCode: status, Message: upstream.Message}
}

// WeatherRepository defines the interface for weather data access
type WeatherRepository interface {
	CurrentByCity(ctx context.Context, city string) (*model.CurrentWeather, error)
	CurrentByCoordinates(ctx context.Context, coord model.Coordinates) (*model.CurrentWeather, error)
	Forecast(ctx context.Context, coord model.Coordinates) (*model.Forecast, error)
}

// Cache is the subset of the go-redis client used for response caching.
type Cache interface {
	Get(ctx context.Context, key string) *redisv9.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redisv9.StatusCmd
}

// weatherRepository implements WeatherRepository
type weatherRepository struct {
	httpClient *http.Client
	cache      Cache
	cacheTTL   time.Duration
	breaker    *gobreaker.CircuitBreaker
	baseURL    string
	units      string
	apiKey     func() string
}

// Option customizes a repository built by NewWeatherRepository.
type Option func(*weatherRepository)

func WithHTTPClient(c *http.Client) Option {
	return func(r *weatherRepository) {
		if c != nil {
			r.httpClient = c
		}
	}
}

// WithCache enables response caching for ttl. A nil cache disables caching.
func WithCache(c Cache, ttl time.Duration) Option {
	return func(r *weatherRepository) {
		r.cache = c
		r.cacheTTL = ttl
	}
}

// WithBaseURL overrides the OpenWeatherMap base URL (without /weather or /forecast).
func WithBaseURL(u string) Option {
	return func(r *weatherRepository) {
		r.baseURL = strings.TrimRight(u, "/")
	}
}

func WithAPIKey(key string) Option {
	return func(r *weatherRepository) {
		r.apiKey = func() string { return key }
	}
}

func WithBreaker(cb *gobreaker.CircuitBreaker) Option {
	return func(r *weatherRepository) {
		r.breaker = cb
	}
}

// NewBreaker builds the upstream circuit breaker from config.
func NewBreaker() *gobreaker.CircuitBreaker {
	maxRequests, interval, timeout, threshold := config.GetBreakerConfig()
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openweathermap",
		MaxRequests: maxRequests,
		Interval:    interval,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			config.GetLogger().Warnw("Circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})
}

// NewWeatherRepository creates a new weather repository instance
func NewWeatherRepository(opts ...Option) WeatherRepository {
	r := &weatherRepository{
		httpClient: &http.Client{Timeout: config.GetHTTPTimeout()},
		baseURL:    strings.TrimRight(config.GetOpenWeatherApiUrl(), "/"),
		units:      config.GetOpenWeatherUnits(),
		apiKey:     config.GetOpenWeatherMapAPIKey,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.breaker == nil {
		r.breaker = NewBreaker()
	}
	return r
}

// CurrentByCity retrieves current conditions by city name, checking cache first, then external API
func (r *weatherRepository) CurrentByCity(ctx context.Context, city string) (*model.CurrentWeather, error) {
	q := url.Values{}
	q.Set("q", city)

	var out model.CurrentWeather
	if err := r.get(ctx, "weather:city:"+strings.ToLower(city), "/weather", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *weatherRepository) CurrentByCoordinates(ctx context.Context, coord model.Coordinates) (*model.CurrentWeather, error) {
	var out model.CurrentWeather
	if err := r.get(ctx, "weather:coord:"+coord.String(), "/weather", coordQuery(coord), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *weatherRepository) Forecast(ctx context.Context, coord model.Coordinates) (*model.Forecast, error) {
	var out model.Forecast
	if err := r.get(ctx, "forecast:"+coord.String(), "/forecast", coordQuery(coord), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func coordQuery(c model.Coordinates) url.Values {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(c.Lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(c.Lon, 'f', -1, 64))
	return q
}

// get decodes the payload of endpoint into dst, serving it from the cache when possible.
func (r *weatherRepository) get(ctx context.Context, cacheKey, endpoint string, q url.Values, dst interface{}) error {
	if body, err := r.getFromCache(ctx, cacheKey); err == nil {
		if err := json.Unmarshal(body, dst); err == nil {
			config.GetLogger().Debugw("Serving cached weather data", "key", cacheKey)
			return nil
		}
	}

	body, err := r.fetchFromExternalAPI(ctx, endpoint, q)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("%w: decoding %s: %v", ErrExternalAPI, endpoint, err)
	}

	r.cacheBody(ctx, cacheKey, body)
	return nil
}

// getFromCache retrieves a raw payload from Redis cache
func (r *weatherRepository) getFromCache(ctx context.Context, key string) ([]byte, error) {
	if r.cache == nil {
		return nil, redisv9.Nil
	}
	return r.cache.Get(ctx, key).Bytes()
}

// cacheBody stores a raw payload in Redis cache
func (r *weatherRepository) cacheBody(ctx context.Context, key string, body []byte) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Set(ctx, key, body, r.cacheTTL).Err(); err != nil {
		config.GetLogger().Warnw("Caching weather data failed", "key", key, "error", err)
	}
}

// fetchFromExternalAPI performs one request to OpenWeatherMap through the circuit breaker.
// Only transport failures and 5xx replies count against the breaker.
func (r *weatherRepository) fetchFromExternalAPI(ctx context.Context, endpoint string, q url.Values) ([]byte, error) {
	apiKey := r.apiKey()
	if apiKey == "" {
		return nil, ErrAPIKeyMissing
	}
	q.Set("units", r.units)
	q.Set("appid", apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	result, err := r.breaker.Execute(func() (interface{}, error) {
		resp, err := r.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrExternalAPI, err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("%w: reading body: %v", ErrExternalAPI, err)
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return nil, newAPIError(resp.StatusCode, body)
		}
		return &reply{status: resp.StatusCode, body: body}, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
		}
		return nil, err
	}

	rep := result.(*reply)
	if rep.status != http.StatusOK {
		return nil, newAPIError(rep.status, rep.body)
	}
	return rep.body, nil
}

type reply struct {
	status int
	body   []byte
}
