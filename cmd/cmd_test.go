package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fakhrymubarak/weather-widget/internal/app"
	"github.com/fakhrymubarak/weather-widget/internal/geolocation"
	"github.com/fakhrymubarak/weather-widget/internal/model"
	"github.com/fakhrymubarak/weather-widget/internal/repository"
)

type stubRepository struct {
	lastCoord model.Coordinates
}

func (s *stubRepository) CurrentByCity(_ context.Context, city string) (*model.CurrentWeather, error) {
	if city == "Atlantis" {
		return nil, &repository.APIError{StatusCode: 404, Message: "city not found"}
	}
	cw := &model.CurrentWeather{Name: city, Coord: model.Coordinates{Lat: 59.91, Lon: 10.75}}
	cw.Main.Temp = 7.6
	cw.Weather = []model.Condition{{ID: 500, Description: "light rain"}}
	return cw, nil
}

func (s *stubRepository) CurrentByCoordinates(_ context.Context, coord model.Coordinates) (*model.CurrentWeather, error) {
	s.lastCoord = coord
	return &model.CurrentWeather{Name: "Null Island", Coord: coord}, nil
}

func (s *stubRepository) Forecast(context.Context, model.Coordinates) (*model.Forecast, error) {
	return &model.Forecast{List: []model.ForecastSample{{Dt: 1714521600, DtTxt: "2024-05-01 00:00:00"}}}, nil
}

// useApp points every command at one App built on repo for the test's duration.
func useApp(t *testing.T, repo repository.WeatherRepository, locator geolocation.Locator) {
	t.Helper()
	a, err := app.New(app.Options{Repository: repo, Locator: locator})
	require.NoError(t, err)

	prev := newApp
	newApp = func() (*app.App, error) { return a, nil }
	t.Cleanup(func() { newApp = prev })
}

func run(args ...string) (stdout, stderr string, err error) {
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err = root.Execute()
	return out.String(), errOut.String(), err
}

func TestSearch_PrintsWeatherAndRemembersCity(t *testing.T) {
	useApp(t, &stubRepository{}, nil)

	out, _, err := run("search", "New", "York")
	require.NoError(t, err)
	assert.Contains(t, out, "New York")
	assert.Contains(t, out, "Temperature: 8°C")
	assert.Contains(t, out, "light rain")
	assert.Contains(t, out, "1-Day Forecast")

	out, _, err = run("recent")
	require.NoError(t, err)
	assert.Contains(t, out, "1. New York")
}

func TestSearch_EmptyTerm(t *testing.T) {
	useApp(t, &stubRepository{}, nil)

	_, errOut, err := run("search", "   ")
	assert.Error(t, err)
	assert.Contains(t, errOut, "Please enter a city name")
}

func TestSearch_NotFound(t *testing.T) {
	useApp(t, &stubRepository{}, nil)

	_, errOut, err := run("search", "Atlantis")
	assert.ErrorIs(t, err, repository.ErrLocationNotFound)
	assert.Contains(t, errOut, "city not found")

	out, _, err := run("recent")
	require.NoError(t, err)
	assert.Contains(t, out, "No recently searched cities")
}

func TestLocate_WithFlags(t *testing.T) {
	repo := &stubRepository{}
	useApp(t, repo, nil)

	out, _, err := run("locate", "--lat", "12.5", "--lon=-3.25")
	require.NoError(t, err)
	assert.Equal(t, model.Coordinates{Lat: 12.5, Lon: -3.25}, repo.lastCoord)
	assert.Contains(t, out, "Null Island")
}

func TestLocate_RequiresBothFlags(t *testing.T) {
	useApp(t, &stubRepository{}, nil)

	_, _, err := run("locate", "--lat", "12.5")
	assert.EqualError(t, err, "--lat and --lon must be given together")
}

func TestLocate_UsesLocator(t *testing.T) {
	repo := &stubRepository{}
	useApp(t, repo, geolocation.Static{Coordinates: model.Coordinates{Lat: 1.5, Lon: 2.5}})

	_, _, err := run("locate")
	require.NoError(t, err)
	assert.Equal(t, model.Coordinates{Lat: 1.5, Lon: 2.5}, repo.lastCoord)
}

func TestLocate_InvalidCoordinates(t *testing.T) {
	useApp(t, &stubRepository{}, nil)

	_, errOut, err := run("locate", "--lat", "91", "--lon", "0")
	assert.Error(t, err)
	assert.Contains(t, errOut, "Please enter a valid latitude and longitude")
}

func TestRootCommands(t *testing.T) {
	root := newRootCmd()
	names := make([]string, 0, len(root.Commands()))
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"search", "locate", "recent", "serve"}, names)
}
