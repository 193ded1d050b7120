// Package geolocation resolves "where am I" into coordinates.
package geolocation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fakhrymubarak/weather-widget/internal/config"
	"github.com/fakhrymubarak/weather-widget/internal/model"
)

// ErrUnavailable is returned when no position can be determined.
var ErrUnavailable = errors.New("position unavailable")

// UnavailableError carries why no position could be determined. It matches ErrUnavailable.
type UnavailableError struct {
	Reason string
}

func (e *UnavailableError) Error() string {
	return ErrUnavailable.Error() + ": " + e.Reason
}

func (e *UnavailableError) Unwrap() error {
	return ErrUnavailable
}

func unavailable(format string, args ...interface{}) error {
	return &UnavailableError{Reason: fmt.Sprintf(format, args...)}
}

// Reason returns the cause of a failed Locate without the ErrUnavailable prefix.
func Reason(err error) string {
	var ue *UnavailableError
	if errors.As(err, &ue) {
		return ue.Reason
	}
	return strings.TrimPrefix(err.Error(), ErrUnavailable.Error()+": ")
}

// Locator is a one-shot position request.
type Locator interface {
	Locate(ctx context.Context) (model.Coordinates, error)
}

// Static always reports the same coordinates.
type Static struct {
	Coordinates model.Coordinates
}

func (s Static) Locate(context.Context) (model.Coordinates, error) {
	return s.Coordinates, nil
}

// IPLocator resolves the caller's public IP to coordinates using an
// ip-api.com compatible JSON endpoint.
type IPLocator struct {
	URL    string
	Client *http.Client
}

type ipAPIResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

func NewIPLocator(url string) *IPLocator {
	return &IPLocator{URL: url, Client: &http.Client{Timeout: 5 * time.Second}}
}

func (l *IPLocator) Locate(ctx context.Context) (model.Coordinates, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.URL, nil)
	if err != nil {
		return model.Coordinates{}, err
	}
	resp, err := l.Client.Do(req)
	if err != nil {
		return model.Coordinates{}, unavailable("%v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.Coordinates{}, unavailable("status %d", resp.StatusCode)
	}

	var data ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return model.Coordinates{}, unavailable("%v", err)
	}
	if data.Status != "success" {
		msg := data.Message
		if msg == "" {
			msg = "lookup failed"
		}
		return model.Coordinates{}, unavailable("%s", msg)
	}
	return model.Coordinates{Lat: data.Lat, Lon: data.Lon}, nil
}

// FromConfig builds the configured Locator. It returns nil when geolocation is
// disabled or a static provider has no coordinates.
func FromConfig() Locator {
	switch config.GetGeolocationProvider() {
	case "static":
		lat, lon, ok := config.GetStaticCoordinates()
		if !ok {
			config.GetLogger().Warnw("Static geolocation configured without coordinates")
			return nil
		}
		return Static{Coordinates: model.Coordinates{Lat: lat, Lon: lon}}
	case "ip":
		return NewIPLocator(config.GetGeolocationIPApiUrl())
	}
	return nil
}
