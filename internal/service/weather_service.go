package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/fakhrymubarak/weather-widget/internal/geolocation"
	"github.com/fakhrymubarak/weather-widget/internal/model"
	"github.com/fakhrymubarak/weather-widget/internal/recent"
	"github.com/fakhrymubarak/weather-widget/internal/repository"
)

var (
	ErrEmptyCity              = errors.New("empty city name")
	ErrInvalidCoordinates     = errors.New("invalid coordinates")
	ErrGeolocationUnsupported = errors.New("geolocation not supported")
	// ErrSuperseded is returned by a lookup that finished after a newer one started.
	ErrSuperseded = errors.New("lookup superseded")
)

var validate = validator.New()

// Renderer is the display surface a Session draws on.
type Renderer interface {
	ShowLoading()
	HideLoading()
	ShowError(message string)
	HideError()
	RenderCurrent(view model.CurrentView)
	RenderForecast(days []model.DailyView)
	RenderRecent(cities []string)
}

// WeatherService holds the collaborators shared by every Session.
type WeatherService struct {
	WeatherRepo repository.WeatherRepository
	Recent      *recent.Store
	// Locator may be nil when geolocation is not available.
	Locator geolocation.Locator

	now func() time.Time
}

func NewWeatherService(repo repository.WeatherRepository, store *recent.Store, locator geolocation.Locator) *WeatherService {
	return &WeatherService{
		WeatherRepo: repo,
		Recent:      store,
		Locator:     locator,
		now:         time.Now,
	}
}

// NewSession binds the service to one rendering surface.
func (s *WeatherService) NewSession(r Renderer) *Session {
	return &Session{svc: s, r: r}
}

// RecentCities returns the recent-searches list, most recent first.
func (s *WeatherService) RecentCities(ctx context.Context) []string {
	return s.Recent.List(ctx)
}

// ValidateCoordinates checks latitude and longitude ranges.
func ValidateCoordinates(c model.Coordinates) error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCoordinates, err)
	}
	return nil
}

const (
	cityFallback     = "City not found or API error. Status: %d"
	coordFallback    = "Weather data not available. Status: %d"
	forecastFallback = "Forecast data not available. Status: %d"
)

// UserMessage turns a lookup error into the single message shown to the user.
// fallback is a format with one %d verb used when the upstream sent no message.
func UserMessage(err error, fallback string) string {
	var apiErr *repository.APIError
	switch {
	case errors.Is(err, ErrEmptyCity):
		return "Please enter a city name"
	case errors.Is(err, ErrInvalidCoordinates):
		return "Please enter a valid latitude and longitude"
	case errors.Is(err, ErrGeolocationUnsupported):
		return "Geolocation is not supported"
	case errors.Is(err, geolocation.ErrUnavailable):
		return "Unable to retrieve your location. " + geolocation.Reason(err)
	case errors.Is(err, repository.ErrAPIKeyMissing):
		return "Weather service API key is not configured"
	case errors.Is(err, repository.ErrServiceUnavailable):
		return "Weather service is temporarily unavailable"
	case errors.As(err, &apiErr):
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return fmt.Sprintf(fallback, apiErr.StatusCode)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "The weather request timed out"
	}
	return "Unable to reach the weather service"
}
