package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/fakhrymubarak/weather-widget/internal/app"
)

func newSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "search <city>",
		Short:   "Show the weather for a city",
		Example: "  weather search London\n  weather search New York",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app.App) error {
				sess := a.Service.NewSession(terminalFor(cmd))
				return sess.SearchCity(cmd.Context(), strings.Join(args, " "))
			})
		},
	}
}
