package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryFor(t *testing.T) {
	tests := []struct {
		code int
		want Category
	}{
		{200, CategoryThunderstorm},
		{232, CategoryThunderstorm},
		{300, CategoryDrizzle},
		{499, CategoryDrizzle},
		{500, CategoryRain},
		{622, CategorySnow},
		{741, CategoryFog},
		{800, CategoryClear},
		{804, CategoryClouds},
		{0, CategoryClear},
		{1000, CategoryClouds},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CategoryFor(tt.code), "code %d", tt.code)
	}
}

func TestCurrentWeather_Decode(t *testing.T) {
	body := `{"coord":{"lon":-0.1257,"lat":51.5085},"weather":[{"id":803,"main":"Clouds","description":"broken clouds","icon":"04d"}],
	"main":{"temp":14.6,"feels_like":13.9,"humidity":72},"wind":{"speed":4.12},"name":"London"}`

	var cw CurrentWeather
	require.NoError(t, json.Unmarshal([]byte(body), &cw))
	assert.Equal(t, "London", cw.Name)
	assert.InDelta(t, 51.5085, cw.Coord.Lat, 1e-9)
	assert.Equal(t, 72, cw.Main.Humidity)
	assert.Equal(t, 803, cw.PrimaryCondition().ID)
	assert.Equal(t, "broken clouds", cw.PrimaryCondition().Description)
}

func TestPrimaryCondition_Empty(t *testing.T) {
	assert.Equal(t, Condition{}, CurrentWeather{}.PrimaryCondition())
	assert.Equal(t, Condition{}, ForecastSample{}.PrimaryCondition())
}

func TestCoordinates_String(t *testing.T) {
	assert.Equal(t, "51.5074,-0.1278", Coordinates{Lat: 51.50741, Lon: -0.12781}.String())
}
