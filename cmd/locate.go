package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fakhrymubarak/weather-widget/internal/app"
	"github.com/fakhrymubarak/weather-widget/internal/model"
)

func newLocateCmd() *cobra.Command {
	var lat, lon float64

	cmd := &cobra.Command{
		Use:   "locate",
		Short: "Show the weather for coordinates or the current location",
		Long: `Without flags the position comes from the configured geolocation provider.
Pass --lat and --lon together to look up a specific position.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			latSet, lonSet := cmd.Flags().Changed("lat"), cmd.Flags().Changed("lon")
			if latSet != lonSet {
				return fmt.Errorf("--lat and --lon must be given together")
			}
			return withApp(func(a *app.App) error {
				sess := a.Service.NewSession(terminalFor(cmd))
				if latSet {
					return sess.SearchCoordinates(cmd.Context(), model.Coordinates{Lat: lat, Lon: lon})
				}
				return sess.SearchCurrentLocation(cmd.Context())
			})
		},
	}
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude in decimal degrees")
	cmd.Flags().Float64Var(&lon, "lon", 0, "longitude in decimal degrees")
	return cmd
}
