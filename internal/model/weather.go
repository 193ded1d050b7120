package model

import "fmt"

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat" validate:"latitude"`
	Lon float64 `json:"lon" validate:"longitude"`
}

func (c Coordinates) String() string {
	return fmt.Sprintf("%.4f,%.4f", c.Lat, c.Lon)
}

// CurrentView is the display-ready current conditions for a location.
type CurrentView struct {
	Name        string   `json:"name"`
	Date        string   `json:"date"`
	Temperature int      `json:"temperature"`
	FeelsLike   int      `json:"feelsLike"`
	WindSpeed   float64  `json:"windSpeed"`
	Humidity    int      `json:"humidity"`
	Category    Category `json:"category"`
	Description string   `json:"description"`
}

// DailyView is one display-ready day of the forecast.
type DailyView struct {
	Date        string   `json:"date"`
	Temperature int      `json:"temperature"`
	WindSpeed   float64  `json:"windSpeed"`
	Humidity    int      `json:"humidity"`
	Category    Category `json:"category"`
}
