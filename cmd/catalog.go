package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/chrisdamba/foodcart/internal/models"
	"github.com/spf13/cobra"
)

var restaurantsCmd = &cobra.Command{
	Use:   "restaurants",
	Short: "List restaurants",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, appOptions{catalog: true, seedDemo: true})
		if err != nil {
			return err
		}
		defer a.Close()

		var restaurants []*models.Restaurant
		if cuisine, _ := cmd.Flags().GetString("cuisine"); cuisine != "" {
			restaurants, err = a.restaurants.GetByCuisine(ctx, cuisine)
		} else {
			restaurants, err = a.restaurants.GetAll(ctx)
		}
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tCUISINE\tRATING\tDELIVERY")
		for _, r := range restaurants {
			fmt.Fprintf(w, "%s\t%s\t%s\t%.1f\t%.2f (%s)\n", r.ID, r.Name, r.Cuisine, r.Rating, r.DeliveryFee, r.DeliveryTime)
		}
		return w.Flush()
	},
}

var menuCmd = &cobra.Command{
	Use:   "menu <restaurant-id-or-slug>",
	Short: "List the menu of a restaurant",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, appOptions{catalog: true, seedDemo: true})
		if err != nil {
			return err
		}
		defer a.Close()

		restaurant, err := a.restaurants.GetByID(ctx, args[0])
		if err != nil {
			return fmt.Errorf("restaurant %s: %w", args[0], err)
		}
		items, err := a.menuItems.GetByRestaurantID(ctx, restaurant.ID)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", restaurant.Name, restaurant.Cuisine)
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tCATEGORY\tNAME\tPRICE\t")
		for _, item := range items {
			soldOut := ""
			if !item.Available {
				soldOut = "sold out"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%s\n", item.ID, item.Category, item.Name, item.Price, soldOut)
		}
		return w.Flush()
	},
}

func init() {
	restaurantsCmd.Flags().String("cuisine", "", "Only list restaurants of this cuisine")
	rootCmd.AddCommand(restaurantsCmd, menuCmd)
}
