package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fakhrymubarak/weather-widget/internal/app"
	"github.com/fakhrymubarak/weather-widget/internal/config"
)

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the weather lookup as JSON over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if port == "" {
				port = config.GetServerPort()
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return withApp(func(a *app.App) error {
				return a.Serve(ctx, ":"+port)
			})
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (default from config)")
	return cmd
}
