package service

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fakhrymubarak/weather-widget/internal/config"
	"github.com/fakhrymubarak/weather-widget/internal/forecast"
	"github.com/fakhrymubarak/weather-widget/internal/model"
)

// Session runs lookups against one Renderer. Only the newest lookup of a
// session may draw; older ones finish with ErrSuperseded.
type Session struct {
	svc    *WeatherService
	r      Renderer
	latest atomic.Uint64
	// inFlight counts lookups that showed loading and have not returned yet.
	inFlight atomic.Int32
}

// target is what a lookup fetches: a city name or coordinates.
type target struct {
	city  string
	coord *model.Coordinates
}

// ShowRecent draws the current recent-searches list.
func (s *Session) ShowRecent(ctx context.Context) []string {
	cities := s.svc.RecentCities(ctx)
	s.r.RenderRecent(cities)
	return cities
}

// SearchCity looks up a city by name. Blank terms are rejected without a request.
func (s *Session) SearchCity(ctx context.Context, term string) error {
	city := strings.TrimSpace(term)
	if city == "" {
		return s.reject(ErrEmptyCity)
	}
	return s.lookup(ctx, cityFallback, func(context.Context) (target, error) {
		return target{city: city}, nil
	})
}

// SearchCoordinates looks up a latitude/longitude pair.
func (s *Session) SearchCoordinates(ctx context.Context, coord model.Coordinates) error {
	if err := ValidateCoordinates(coord); err != nil {
		return s.reject(err)
	}
	return s.lookup(ctx, coordFallback, func(context.Context) (target, error) {
		return target{coord: &coord}, nil
	})
}

// SearchCurrentLocation asks the Locator for a position and looks it up.
func (s *Session) SearchCurrentLocation(ctx context.Context) error {
	if s.svc.Locator == nil {
		return s.reject(ErrGeolocationUnsupported)
	}
	return s.lookup(ctx, coordFallback, func(ctx context.Context) (target, error) {
		coord, err := s.svc.Locator.Locate(ctx)
		if err != nil {
			return target{}, err
		}
		if err := ValidateCoordinates(coord); err != nil {
			return target{}, err
		}
		return target{coord: &coord}, nil
	})
}

// reject shows an input error without a request. It supersedes any lookup
// still in flight, so that lookup can no longer draw over the message.
func (s *Session) reject(err error) error {
	s.latest.Add(1)
	if s.inFlight.Load() > 0 {
		s.r.HideLoading()
	}
	s.r.ShowError(UserMessage(err, ""))
	return err
}

func (s *Session) isLatest(id uint64) bool {
	return s.latest.Load() == id
}

// lookup fetches current conditions, then the forecast for the same place.
// The current-weather request must succeed before the forecast is requested.
func (s *Session) lookup(ctx context.Context, fallback string, resolve func(context.Context) (target, error)) error {
	id := s.latest.Add(1)
	log := config.GetLogger().With("lookup", uuid.NewString())

	s.inFlight.Add(1)
	s.r.ShowLoading()
	defer func() {
		s.inFlight.Add(-1)
		if s.isLatest(id) {
			s.r.HideLoading()
		}
	}()

	t, err := resolve(ctx)
	if err != nil {
		return s.fail(log, id, "Resolving location failed", err, fallback)
	}

	var cw *model.CurrentWeather
	if t.coord != nil {
		log.Infow("Fetching current weather", "coord", t.coord.String())
		cw, err = s.svc.WeatherRepo.CurrentByCoordinates(ctx, *t.coord)
	} else {
		log.Infow("Fetching current weather", "city", t.city)
		cw, err = s.svc.WeatherRepo.CurrentByCity(ctx, t.city)
	}
	if err != nil {
		return s.fail(log, id, "Fetching current weather failed", err, fallback)
	}
	if !s.isLatest(id) {
		log.Infow("Dropping superseded lookup")
		return ErrSuperseded
	}

	s.r.HideError()
	s.r.RenderCurrent(NewCurrentView(cw, s.svc.now()))
	s.remember(ctx, log, cw.Name, t.city)

	coord := cw.Coord
	if t.coord != nil {
		coord = *t.coord
	}
	fc, err := s.svc.WeatherRepo.Forecast(ctx, coord)
	if err != nil {
		return s.fail(log, id, "Fetching forecast failed", err, forecastFallback)
	}
	if !s.isLatest(id) {
		log.Infow("Dropping superseded forecast")
		return ErrSuperseded
	}

	days := forecast.Daily(fc.List)
	s.r.RenderForecast(NewDailyViews(days))
	log.Infow("Lookup complete", "name", cw.Name, "days", len(days))
	return nil
}

// remember pushes the API-returned name into the recent list, or the search
// term when the API returned none.
func (s *Session) remember(ctx context.Context, log *zap.SugaredLogger, name, term string) {
	if name == "" {
		name = term
	}
	if name == "" {
		return
	}
	cities, err := s.svc.Recent.Add(ctx, name)
	if err != nil {
		log.Warnw("Saving recent city failed", "city", name, "error", err)
		return
	}
	s.r.RenderRecent(cities)
}

func (s *Session) fail(log *zap.SugaredLogger, id uint64, what string, err error, fallback string) error {
	log.Warnw(what, "error", err)
	if !s.isLatest(id) {
		return ErrSuperseded
	}
	s.r.ShowError(UserMessage(err, fallback))
	return err
}
