package model

// Condition is one entry of the "weather" array of an OpenWeatherMap payload.
type Condition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// CurrentWeather is the payload of the OpenWeatherMap /weather endpoint.
type CurrentWeather struct {
	Name  string      `json:"name"`
	Coord Coordinates `json:"coord"`
	Main  struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		TempMin   float64 `json:"temp_min"`
		TempMax   float64 `json:"temp_max"`
		Pressure  int     `json:"pressure"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
		Deg   int     `json:"deg"`
	} `json:"wind"`
	Weather []Condition `json:"weather"`
	Dt      int64       `json:"dt"`
}

// PrimaryCondition returns the first reported condition, or the zero value if none.
func (c CurrentWeather) PrimaryCondition() Condition {
	if len(c.Weather) == 0 {
		return Condition{}
	}
	return c.Weather[0]
}

// ForecastSample is one 3-hour entry of the /forecast "list".
type ForecastSample struct {
	Dt    int64  `json:"dt"`
	DtTxt string `json:"dt_txt"`
	Main  struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Weather []Condition `json:"weather"`
}

func (s ForecastSample) PrimaryCondition() Condition {
	if len(s.Weather) == 0 {
		return Condition{}
	}
	return s.Weather[0]
}

// Forecast is the payload of the OpenWeatherMap /forecast endpoint.
type Forecast struct {
	City struct {
		Name  string      `json:"name"`
		Coord Coordinates `json:"coord"`
	} `json:"city"`
	List []ForecastSample `json:"list"`
}

// UpstreamError is the body OpenWeatherMap sends with non-200 responses.
// "cod" is a string on some endpoints and a number on others, so it is not decoded.
type UpstreamError struct {
	Message string `json:"message"`
}
