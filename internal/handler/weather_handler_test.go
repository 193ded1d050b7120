package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fakhrymubarak/weather-widget/internal/model"
	"github.com/fakhrymubarak/weather-widget/internal/recent"
	"github.com/fakhrymubarak/weather-widget/internal/repository"
	"github.com/fakhrymubarak/weather-widget/internal/service"
	"github.com/fakhrymubarak/weather-widget/internal/storage"
)

const currentBody = `{"coord":{"lon":2.3488,"lat":48.8534},"weather":[{"id":800,"description":"clear sky"}],
"main":{"temp":21.5,"feels_like":21.1,"humidity":40},"wind":{"speed":2.57},"name":"Paris"}`

func forecastBody() string {
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	items := make([]string, 0, 48)
	for i := 0; i < 48; i++ {
		at := start.Add(time.Duration(i*3) * time.Hour)
		items = append(items, fmt.Sprintf(`{"dt":%d,"dt_txt":%q,"main":{"temp":%d,"humidity":50},"wind":{"speed":1.5},"weather":[{"id":801}]}`,
			at.Unix(), at.Format(time.DateTime), i))
	}
	return `{"city":{"name":"Paris"},"list":[` + strings.Join(items, ",") + `]}`
}

// owmStub serves /weather and /forecast; cities listed in missing get a 404.
func owmStub(t *testing.T, forecastStatus int) *httptest.Server {
	t.Helper()
	fc := forecastBody()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.URL.Path == "/weather" && r.URL.Query().Get("q") == "Atlantis":
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"cod":"404","message":"city not found"}`))
		case r.URL.Path == "/weather":
			w.Write([]byte(currentBody))
		case r.URL.Path == "/forecast" && forecastStatus != http.StatusOK:
			w.WriteHeader(forecastStatus)
			w.Write([]byte(`{}`))
		case r.URL.Path == "/forecast":
			w.Write([]byte(fc))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestHandler(t *testing.T, forecastStatus int) *WeatherHandler {
	srv := owmStub(t, forecastStatus)
	repo := repository.NewWeatherRepository(repository.WithBaseURL(srv.URL), repository.WithAPIKey("test_api_key"))
	svc := service.NewWeatherService(repo, recent.NewStore(storage.NewMemory(), ""), nil)
	return NewWeatherHandler(svc)
}

type lookupResponse struct {
	Data    model.LookupResult `json:"data"`
	Error   *string            `json:"error"`
	Message string             `json:"message"`
}

func get(t *testing.T, h http.HandlerFunc, target string) (*httptest.ResponseRecorder, lookupResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rr := httptest.NewRecorder()
	h(rr, req)
	var resp lookupResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	return rr, resp
}

func TestNewWeatherHandler(t *testing.T) {
	handler := newTestHandler(t, http.StatusOK)
	if handler == nil {
		t.Error("Expected handler to be created")
	}
	if handler.WeatherService == nil {
		t.Error("Expected weather service to be initialized")
	}
}

func TestHandleWeather_StatusCodes(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		expectedStatus int
		expectedError  string
	}{
		{"Missing parameters", "/weather", http.StatusBadRequest, "Missing 'city' or 'lat'/'lon' query parameters"},
		{"Empty city", "/weather?city=%20", http.StatusBadRequest, "Please enter a city name"},
		{"Bad latitude", "/weather?lat=north&lon=2", http.StatusBadRequest, "Query parameters 'lat' and 'lon' must be numbers"},
		{"Latitude out of range", "/weather?lat=95&lon=2", http.StatusBadRequest, "Please enter a valid latitude and longitude"},
		{"City not found", "/weather?city=Atlantis", http.StatusNotFound, "city not found"},
		{"Success by city", "/weather?city=Paris", http.StatusOK, ""},
		{"Success by coordinates", "/weather?lat=48.8534&lon=2.3488", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t, http.StatusOK)

			rr, resp := get(t, h.HandleWeather, tt.target)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			if tt.expectedError == "" {
				assert.Nil(t, resp.Error)
				assert.Equal(t, "Success", resp.Message)
				return
			}
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.expectedError, *resp.Error)
			assert.Nil(t, resp.Data.Current)
		})
	}
}

func TestHandleWeather_Success(t *testing.T) {
	h := newTestHandler(t, http.StatusOK)

	_, resp := get(t, h.HandleWeather, "/weather?city=paris")

	require.NotNil(t, resp.Data.Current)
	assert.Equal(t, "Paris", resp.Data.Current.Name)
	assert.Equal(t, 22, resp.Data.Current.Temperature)
	assert.Equal(t, model.CategoryClear, resp.Data.Current.Category)
	require.Len(t, resp.Data.Forecast, 5)
	assert.Equal(t, "2024-05-01", resp.Data.Forecast[0].Date)
	assert.Equal(t, 8, resp.Data.Forecast[1].Temperature)
	assert.Equal(t, model.CategoryClouds, resp.Data.Forecast[1].Category)
	assert.Equal(t, []string{"Paris"}, resp.Data.Recent)
}

func TestHandleWeather_ForecastFailureIsPartial(t *testing.T) {
	h := newTestHandler(t, http.StatusServiceUnavailable)

	rr, resp := get(t, h.HandleWeather, "/weather?city=Paris")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Partial", resp.Message)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "Forecast data not available. Status: 503", *resp.Error)
	require.NotNil(t, resp.Data.Current)
	assert.Empty(t, resp.Data.Forecast)
}

func TestHandleWeather_MethodNotAllowed(t *testing.T) {
	h := newTestHandler(t, http.StatusOK)
	req := httptest.NewRequest(http.MethodPost, "/weather?city=Paris", nil)
	rr := httptest.NewRecorder()

	h.HandleWeather(rr, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, http.MethodGet, rr.Header().Get("Allow"))
}

func TestHandleRecent(t *testing.T) {
	h := newTestHandler(t, http.StatusOK)
	get(t, h.HandleWeather, "/weather?city=Paris")
	get(t, h.HandleWeather, "/weather?city=Atlantis")

	req := httptest.NewRequest(http.MethodGet, "/recent", nil)
	rr := httptest.NewRecorder()
	h.HandleRecent(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp struct {
		Data []string `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Equal(t, []string{"Paris"}, resp.Data, "failed lookups are not remembered")
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, statusFor(repository.ErrAPIKeyMissing))
	assert.Equal(t, http.StatusServiceUnavailable, statusFor(fmt.Errorf("%w: open", repository.ErrServiceUnavailable)))
	assert.Equal(t, http.StatusBadGateway, statusFor(&repository.APIError{StatusCode: 500}))
}

func BenchmarkWeatherHandler_HandleWeather(b *testing.B) {
	handler := NewWeatherHandler(service.NewWeatherService(nil, recent.NewStore(storage.NewMemory(), ""), nil))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req, _ := http.NewRequest("GET", "/weather", nil)
		rr := httptest.NewRecorder()
		handler.HandleWeather(rr, req)
	}
}
