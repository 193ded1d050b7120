// Package render draws lookup results on a terminal.
package render

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/fakhrymubarak/weather-widget/internal/model"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	errorStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	cardStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	headerStyle = lipgloss.NewStyle().Bold(true)
)

var symbols = map[model.Category]string{
	model.CategoryThunderstorm: "⛈",
	model.CategoryDrizzle:      "🌦",
	model.CategoryRain:         "🌧",
	model.CategorySnow:         "❄",
	model.CategoryFog:          "🌫",
	model.CategoryClear:        "☀",
	model.CategoryClouds:       "☁",
}

// Symbol returns the glyph shown for a condition category.
func Symbol(c model.Category) string {
	if s, ok := symbols[c]; ok {
		return s
	}
	return symbols[model.CategoryClear]
}

// Terminal writes results to Out and status (loading, errors) to Err.
type Terminal struct {
	mu  sync.Mutex
	Out io.Writer
	Err io.Writer
	// ShowRecentList controls whether RenderRecent prints.
	ShowRecentList bool
}

func NewTerminal(out, errOut io.Writer) *Terminal {
	return &Terminal{Out: out, Err: errOut}
}

func (t *Terminal) ShowLoading() {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.Err, mutedStyle.Render("Loading..."))
}

func (t *Terminal) HideLoading() {}

func (t *Terminal) ShowError(message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(t.Err, errorStyle.Render("Error: "+message))
}

func (t *Terminal) HideError() {}

func (t *Terminal) RenderCurrent(v model.CurrentView) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", titleStyle.Render(fmt.Sprintf("%s (%s)", v.Name, v.Date)))
	fmt.Fprintf(&b, "%s  %s\n", Symbol(v.Category), v.Description)
	fmt.Fprintf(&b, "Temperature: %d°C\n", v.Temperature)
	fmt.Fprintf(&b, "Feels like:  %d°C\n", v.FeelsLike)
	fmt.Fprintf(&b, "Wind:        %g M/S\n", v.WindSpeed)
	fmt.Fprintf(&b, "Humidity:    %d%%", v.Humidity)
	fmt.Fprintln(t.Out, cardStyle.Render(b.String()))
}

func (t *Terminal) RenderForecast(days []model.DailyView) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(days) == 0 {
		fmt.Fprintln(t.Out, mutedStyle.Render("No forecast available"))
		return
	}
	cards := make([]string, 0, len(days))
	for _, d := range days {
		cards = append(cards, cardStyle.Render(fmt.Sprintf("[%s]\n%s\nTemp: %d°C\nWind: %g M/S\nHumidity: %d%%",
			d.Date, Symbol(d.Category), d.Temperature, d.WindSpeed, d.Humidity)))
	}
	fmt.Fprintln(t.Out, headerStyle.Render(fmt.Sprintf("%d-Day Forecast", len(days))))
	fmt.Fprintln(t.Out, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
}

func (t *Terminal) RenderRecent(cities []string) {
	if !t.ShowRecentList {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	PrintRecent(t.Out, cities)
}

// PrintRecent writes the recent-searches list, one city per line.
func PrintRecent(w io.Writer, cities []string) {
	if len(cities) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No recently searched cities"))
		return
	}
	fmt.Fprintln(w, headerStyle.Render("Recently searched cities"))
	for i, c := range cities {
		fmt.Fprintf(w, "%d. %s\n", i+1, c)
	}
}
