package service

import (
	"math"
	"time"

	"github.com/fakhrymubarak/weather-widget/internal/model"
)

// Round rounds half up, so -2.5 becomes -2 and 2.5 becomes 3.
func Round(x float64) int {
	return int(math.Floor(x + 0.5))
}

// NewCurrentView formats current conditions observed at now.
func NewCurrentView(cw *model.CurrentWeather, now time.Time) model.CurrentView {
	cond := cw.PrimaryCondition()
	return model.CurrentView{
		Name:        cw.Name,
		Date:        now.UTC().Format(time.DateOnly),
		Temperature: Round(cw.Main.Temp),
		FeelsLike:   Round(cw.Main.FeelsLike),
		WindSpeed:   cw.Wind.Speed,
		Humidity:    cw.Main.Humidity,
		Category:    model.CategoryFor(cond.ID),
		Description: cond.Description,
	}
}

// NewDailyViews formats the per-day samples picked by forecast.Daily.
func NewDailyViews(days []model.ForecastSample) []model.DailyView {
	views := make([]model.DailyView, 0, len(days))
	for _, d := range days {
		views = append(views, model.DailyView{
			Date:        time.Unix(d.Dt, 0).UTC().Format(time.DateOnly),
			Temperature: Round(d.Main.Temp),
			WindSpeed:   d.Wind.Speed,
			Humidity:    d.Main.Humidity,
			Category:    model.CategoryFor(d.PrimaryCondition().ID),
		})
	}
	return views
}
