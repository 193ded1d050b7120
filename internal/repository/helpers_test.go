package repository

import (
	"io"
	"net/http"
	"strings"
)

// RoundTripperFunc allows us to easily mock http.Client responses in tests.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

const londonCurrent = `{"coord":{"lon":-0.1257,"lat":51.5085},"weather":[{"id":800,"main":"Clear","description":"clear sky","icon":"01d"}],
"main":{"temp":17.4,"feels_like":16.8,"humidity":55},"wind":{"speed":3.6},"name":"London"}`

const londonForecast = `{"city":{"name":"London","coord":{"lat":51.5085,"lon":-0.1257}},"list":[
{"dt":1714521600,"dt_txt":"2024-05-01 00:00:00","main":{"temp":11.2,"humidity":80},"wind":{"speed":2.1},"weather":[{"id":500,"description":"light rain"}]},
{"dt":1714532400,"dt_txt":"2024-05-01 03:00:00","main":{"temp":10.4,"humidity":84},"wind":{"speed":1.9},"weather":[{"id":501,"description":"moderate rain"}]}]}`
