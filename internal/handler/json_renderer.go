package handler

import "github.com/fakhrymubarak/weather-widget/internal/model"

// jsonRenderer collects what a lookup drew so it can be sent as one response.
type jsonRenderer struct {
	current  *model.CurrentView
	forecast []model.DailyView
	recent   []string
	errMsg   string
}

func (j *jsonRenderer) ShowLoading()                          {}
func (j *jsonRenderer) HideLoading()                          {}
func (j *jsonRenderer) ShowError(message string)              { j.errMsg = message }
func (j *jsonRenderer) HideError()                            { j.errMsg = "" }
func (j *jsonRenderer) RenderCurrent(view model.CurrentView)  { j.current = &view }
func (j *jsonRenderer) RenderForecast(days []model.DailyView) { j.forecast = days }
func (j *jsonRenderer) RenderRecent(cities []string)          { j.recent = cities }

func (j *jsonRenderer) result() model.LookupResult {
	return model.LookupResult{Current: j.current, Forecast: j.forecast, Recent: j.recent}
}
