package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/chrisdamba/foodcart/internal/api"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the storefront API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if cfg.LogLevel == "debug" || cfg.LogLevel == "trace" {
			gin.SetMode(gin.DebugMode)
		} else {
			gin.SetMode(gin.ReleaseMode)
		}

		a, err := newApp(ctx, appOptions{catalog: true, orders: true, seedDemo: true})
		if err != nil {
			return err
		}
		defer a.Close()

		server := api.NewServer(a.restaurants, a.menuItems, a.store, a.checkout, log.WithField("component", "api"))
		return server.Run(ctx, cfg.HTTPAddr)
	},
}

func init() {
	serveCmd.Flags().String("http-addr", ":8080", "Address to listen on")
	viper.BindPFlag("http_addr", serveCmd.Flags().Lookup("http-addr"))
	rootCmd.AddCommand(serveCmd)
}
