package forecast

import (
	"strings"
	"time"

	"github.com/fakhrymubarak/weather-widget/internal/model"
)

// MaxDays is the number of days kept by Daily.
const MaxDays = 5

// Daily reduces 3-hour samples to one sample per calendar day.
// The first sample seen for a date wins; dates keep their first-seen order
// and the result is truncated to MaxDays.
func Daily(samples []model.ForecastSample) []model.ForecastSample {
	days := make([]model.ForecastSample, 0, MaxDays)
	seen := make(map[string]struct{}, MaxDays)

	for _, s := range samples {
		key := DateKey(s)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		days = append(days, s)
		if len(days) == MaxDays {
			break
		}
	}
	return days
}

// DateKey is the date portion of a sample's dt_txt ("2024-05-01 03:00:00" -> "2024-05-01").
// Samples without dt_txt use the UTC date of dt.
func DateKey(s model.ForecastSample) string {
	if s.DtTxt == "" {
		return time.Unix(s.Dt, 0).UTC().Format(time.DateOnly)
	}
	date, _, _ := strings.Cut(s.DtTxt, " ")
	return date
}
