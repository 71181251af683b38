package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/chrisdamba/foodcart/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	cfg     *models.Config
	log     = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "foodcart",
	Short: "Shopping cart and ordering for a food delivery storefront",
	Long: `foodcart keeps a single-restaurant shopping cart for a food delivery storefront,
places orders from it and serves the storefront API. The cart survives restarts in
the configured storage backend and is shared by every foodcart process using it.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = models.LoadConfig(viper.GetViper(), cfgFile)
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}
		return configureLogger(cfg.LogLevel)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./.foodcart.yaml or $HOME/.foodcart.yaml)")

	rootCmd.PersistentFlags().String("log-level", "info", "Log level (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().String("cart-key", "foodcart-cart", "Storage key of the cart document")
	rootCmd.PersistentFlags().String("storage-driver", models.StorageDriverFile, "Cart storage backend (memory, file, postgres, s3)")
	rootCmd.PersistentFlags().String("storage-dir", "", "Directory of the file storage backend")
	rootCmd.PersistentFlags().String("database-url", "", "PostgreSQL connection string")
	rootCmd.PersistentFlags().String("catalog-driver", models.StorageDriverMemory, "Catalog and order backend (memory, postgres)")
	rootCmd.PersistentFlags().String("publisher", models.PublisherNone, "Order event publisher (none, kafka, rabbitmq)")
	rootCmd.PersistentFlags().Int("seed", 42, "Random seed for the demo catalog")

	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		if f.Name == "config" {
			return
		}
		viper.BindPFlag(flagKey(f.Name), f)
	})
}

// flagKey maps a flag name to its config key.
func flagKey(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

func configureLogger(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableLevelTruncation: true, FullTimestamp: true})
	log.SetLevel(lvl)
	return nil
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
