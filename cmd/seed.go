package cmd

import (
	"fmt"

	"github.com/chrisdamba/foodcart/internal/factories"
	"github.com/chrisdamba/foodcart/internal/models"
	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the catalog database with generated restaurants and menus",
	Long: `Generate a demo catalog of restaurants and menu items and store it in the
PostgreSQL catalog. The in-memory catalog is generated from the same seed by
every command, so seeding only applies to --catalog-driver=postgres.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.CatalogDriver != models.StorageDriverPostgres {
			return fmt.Errorf("seed needs the postgres catalog driver, got %q", cfg.CatalogDriver)
		}
		ctx := cmd.Context()
		a, err := newApp(ctx, appOptions{catalog: true})
		if err != nil {
			return err
		}
		defer a.Close()

		if reset, _ := cmd.Flags().GetBool("reset"); reset {
			if err := a.menuItems.DeleteAll(ctx); err != nil {
				return err
			}
			if err := a.restaurants.DeleteAll(ctx); err != nil {
				return err
			}
			log.Info("existing catalog removed")
		}

		bar := progressbar.Default(int64(cfg.InitialRestaurants), "generating restaurants")
		generated := factories.GenerateCatalog(cfg, false, func() { bar.Add(1) })
		bar.Finish()

		if err := a.restaurants.BulkCreate(ctx, generated.Restaurants); err != nil {
			return fmt.Errorf("storing restaurants: %w", err)
		}
		if err := a.menuItems.BulkCreate(ctx, generated.MenuItems); err != nil {
			return fmt.Errorf("storing menu items: %w", err)
		}

		restaurants, _ := a.restaurants.Count(ctx)
		items, _ := a.menuItems.Count(ctx)
		log.WithFields(logrus.Fields{
			"restaurants": restaurants,
			"menu_items":  items,
		}).Info("catalog seeded")
		return nil
	},
}

func init() {
	seedCmd.Flags().Bool("reset", false, "Delete the existing catalog first")
	seedCmd.Flags().Int("initial-restaurants", 10, "Number of restaurants to generate")
	seedCmd.Flags().Int("menu-items-per-restaurant", 8, "Number of menu items per restaurant")
	viper.BindPFlag("initial_restaurants", seedCmd.Flags().Lookup("initial-restaurants"))
	viper.BindPFlag("menu_items_per_restaurant", seedCmd.Flags().Lookup("menu-items-per-restaurant"))
	rootCmd.AddCommand(seedCmd)
}
