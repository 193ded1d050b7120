package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/fakhrymubarak/weather-widget/internal/app"
	"github.com/fakhrymubarak/weather-widget/internal/render"
)

const appName = "weather"

// newApp builds the application for a command run. Tests replace it.
var newApp = func() (*app.App, error) {
	return app.New(app.Options{})
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Current weather and a 5-day forecast from OpenWeatherMap",
		Long: `weather looks up current conditions and a daily forecast for a city or
a position, and remembers the last five cities you searched.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newSearchCmd(), newLocateCmd(), newRecentCmd(), newServeCmd())
	return root
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// withApp runs fn against a freshly built App and closes it afterwards.
func withApp(fn func(a *app.App) error) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

func terminalFor(cmd *cobra.Command) *render.Terminal {
	t := render.NewTerminal(cmd.OutOrStdout(), cmd.ErrOrStderr())
	t.ShowRecentList = true
	return t
}
