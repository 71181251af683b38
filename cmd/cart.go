package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"text/tabwriter"

	"github.com/chrisdamba/foodcart/internal/models"
	"github.com/chrisdamba/foodcart/internal/repositories"
	"github.com/spf13/cobra"
)

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Inspect and change the shopping cart",
}

var cartShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the cart",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()
		printCart(cmd.OutOrStdout(), a.store.Cart(cmd.Context()))
		return nil
	},
}

var cartAddCmd = &cobra.Command{
	Use:   "add <menu-item-id>",
	Short: "Add a menu item to the cart",
	Long: `Add a menu item from the catalog to the cart. Adding an item that is already in
the cart increases its quantity. Adding an item from another restaurant empties
the cart first.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		quantity, _ := cmd.Flags().GetInt("quantity")
		notes, _ := cmd.Flags().GetString("notes")
		if quantity < 1 {
			quantity = 1
		}

		ctx := cmd.Context()
		a, err := newApp(ctx, appOptions{catalog: true, seedDemo: true})
		if err != nil {
			return err
		}
		defer a.Close()

		item, err := a.menuItems.GetByID(ctx, args[0])
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("menu item %s not found", args[0])
		}
		if err != nil {
			return err
		}
		if !item.Available {
			return fmt.Errorf("%s is not available", item.Name)
		}
		printCart(cmd.OutOrStdout(), a.store.AddToCart(ctx, *item, quantity, notes))
		return nil
	},
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove <line-id>",
	Short: "Remove a line from the cart",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()
		printCart(cmd.OutOrStdout(), a.store.RemoveFromCart(cmd.Context(), args[0]))
		return nil
	},
}

var cartUpdateCmd = &cobra.Command{
	Use:   "update <line-id> <quantity>",
	Short: "Set the quantity of a cart line; zero removes it",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		quantity, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("quantity must be a whole number: %w", err)
		}
		a, err := newApp(cmd.Context(), appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()
		printCart(cmd.OutOrStdout(), a.store.UpdateItemQuantity(cmd.Context(), args[0], quantity))
		return nil
	},
}

var cartClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the cart",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()
		a.store.ClearCart(cmd.Context())
		fmt.Fprintln(cmd.OutOrStdout(), "Cart cleared")
		return nil
	},
}

var cartCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Print the number of items in the cart",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()
		fmt.Fprintln(cmd.OutOrStdout(), a.store.ItemCount(cmd.Context()))
		return nil
	},
}

var cartWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print the cart whenever it changes, including changes from other processes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		a, err := newApp(ctx, appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		changes := a.store.Subscribe(ctx)
		printCart(cmd.OutOrStdout(), a.store.Cart(ctx))
		for range changes {
			fmt.Fprintln(cmd.OutOrStdout())
			printCart(cmd.OutOrStdout(), a.store.Cart(ctx))
		}
		return nil
	},
}

func init() {
	cartAddCmd.Flags().IntP("quantity", "q", 1, "Quantity to add")
	cartAddCmd.Flags().String("notes", "", "Special instructions for the kitchen")

	cartCmd.AddCommand(cartShowCmd, cartAddCmd, cartRemoveCmd, cartUpdateCmd, cartClearCmd, cartCountCmd, cartWatchCmd)
	rootCmd.AddCommand(cartCmd)
}

func printCart(out io.Writer, c models.Cart) {
	if c.IsEmpty() {
		fmt.Fprintln(out, "Your cart is empty")
		return
	}
	if c.Restaurant != nil {
		fmt.Fprintf(out, "Ordering from %s\n", c.Restaurant.Name)
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "LINE\tITEM\tQTY\tPRICE\tNOTES")
	for _, line := range c.Lines {
		fmt.Fprintf(w, "%s\t%s\t%d\t%.2f\t%s\n", line.ID, line.Item.Name, line.Quantity, line.Item.Price*float64(line.Quantity), line.Notes)
	}
	w.Flush()
	fmt.Fprintf(out, "Subtotal: %.2f  Delivery: %.2f  Total: %.2f\n", c.Subtotal, c.DeliveryFee, c.Total)
}
