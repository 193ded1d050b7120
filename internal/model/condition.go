package model

// Category is a normalized condition group used to pick an icon.
type Category string

const (
	CategoryThunderstorm Category = "thunderstorm"
	CategoryDrizzle      Category = "drizzle"
	CategoryRain         Category = "rain"
	CategorySnow         Category = "snow"
	CategoryFog          Category = "fog"
	CategoryClear        Category = "clear"
	CategoryClouds       Category = "clouds"
)

// CategoryFor maps an OpenWeatherMap condition code to its Category.
// Unknown codes fall back to CategoryClear.
func CategoryFor(code int) Category {
	switch {
	case code >= 200 && code < 300:
		return CategoryThunderstorm
	case code >= 300 && code < 500:
		return CategoryDrizzle
	case code >= 500 && code < 600:
		return CategoryRain
	case code >= 600 && code < 700:
		return CategorySnow
	case code >= 700 && code < 800:
		return CategoryFog
	case code == 800:
		return CategoryClear
	case code > 800:
		return CategoryClouds
	}
	return CategoryClear
}
