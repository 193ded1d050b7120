package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/fakhrymubarak/weather-widget/internal/config"
	"github.com/fakhrymubarak/weather-widget/internal/model"
	"github.com/fakhrymubarak/weather-widget/internal/repository"
	"github.com/fakhrymubarak/weather-widget/internal/service"
)

type WeatherHandler struct {
	WeatherService *service.WeatherService
}

func NewWeatherHandler(svc *service.WeatherService) *WeatherHandler {
	return &WeatherHandler{
		WeatherService: svc,
	}
}

// Routes registers the handler endpoints on mux.
func (h *WeatherHandler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/weather", h.HandleWeather)
	mux.HandleFunc("/recent", h.HandleRecent)
}

func (h *WeatherHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		config.GetLogger().Errorw("could not encode json", "error", err)
	}
}

func (h *WeatherHandler) writeError(w http.ResponseWriter, statusCode int, errMsg string) {
	h.writeJSONResponse(w, statusCode, model.Response{
		Error:   &errMsg,
		Message: "Error",
	})
}

func (h *WeatherHandler) allowGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet {
		return true
	}
	w.Header().Set("Allow", http.MethodGet)
	h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	return false
}

// HandleWeather looks up ?city=<name> or ?lat=<lat>&lon=<lon>.
func (h *WeatherHandler) HandleWeather(w http.ResponseWriter, r *http.Request) {
	if !h.allowGet(w, r) {
		return
	}

	q := r.URL.Query()
	rend := &jsonRenderer{}
	sess := h.WeatherService.NewSession(rend)

	var err error
	switch {
	case q.Has("city"):
		err = sess.SearchCity(r.Context(), q.Get("city"))
	case q.Has("lat") || q.Has("lon"):
		lat, latErr := strconv.ParseFloat(q.Get("lat"), 64)
		lon, lonErr := strconv.ParseFloat(q.Get("lon"), 64)
		if latErr != nil || lonErr != nil {
			h.writeError(w, http.StatusBadRequest, "Query parameters 'lat' and 'lon' must be numbers")
			return
		}
		err = sess.SearchCoordinates(r.Context(), model.Coordinates{Lat: lat, Lon: lon})
	default:
		h.writeError(w, http.StatusBadRequest, "Missing 'city' or 'lat'/'lon' query parameters")
		return
	}

	if err == nil {
		h.writeJSONResponse(w, http.StatusOK, model.Response{
			Data:    rend.result(),
			Message: "Success",
		})
		return
	}

	if rend.current != nil {
		// current conditions made it, only the forecast failed
		h.writeJSONResponse(w, http.StatusOK, model.Response{
			Data:    rend.result(),
			Error:   &rend.errMsg,
			Message: "Partial",
		})
		return
	}
	h.writeError(w, statusFor(err), rend.errMsg)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrEmptyCity), errors.Is(err, service.ErrInvalidCoordinates):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrLocationNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrAPIKeyMissing):
		return http.StatusInternalServerError
	case errors.Is(err, repository.ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusBadGateway
}

// HandleRecent returns the recent-searches list.
func (h *WeatherHandler) HandleRecent(w http.ResponseWriter, r *http.Request) {
	if !h.allowGet(w, r) {
		return
	}
	h.writeJSONResponse(w, http.StatusOK, model.Response{
		Data:    h.WeatherService.RecentCities(r.Context()),
		Message: "Success",
	})
}
