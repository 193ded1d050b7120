package cmd

import (
	"github.com/spf13/cobra"

	"github.com/fakhrymubarak/weather-widget/internal/app"
	"github.com/fakhrymubarak/weather-widget/internal/render"
)

func newRecentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recent",
		Short: "List recently searched cities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app.App) error {
				render.PrintRecent(cmd.OutOrStdout(), a.Service.RecentCities(cmd.Context()))
				return nil
			})
		},
	}
}
