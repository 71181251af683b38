package cmd

import (
	"fmt"

	"github.com/chrisdamba/foodcart/internal/checkout"
	"github.com/spf13/cobra"
)

var checkoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Place an order for the current cart",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var customer checkout.Customer
		customer.Name, _ = cmd.Flags().GetString("name")
		customer.Phone, _ = cmd.Flags().GetString("phone")
		customer.DeliveryAddress, _ = cmd.Flags().GetString("address")

		ctx := cmd.Context()
		a, err := newApp(ctx, appOptions{orders: true})
		if err != nil {
			return err
		}
		defer a.Close()

		order, err := a.checkout.PlaceOrder(ctx, customer)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Order %s placed: %d items, total %.2f\n", order.OrderNumber, len(order.Items), order.TotalAmount)
		return nil
	},
}

func init() {
	checkoutCmd.Flags().String("name", "", "Customer name")
	checkoutCmd.Flags().String("phone", "", "Customer phone number")
	checkoutCmd.Flags().String("address", "", "Delivery address")
	checkoutCmd.MarkFlagRequired("name")
	checkoutCmd.MarkFlagRequired("address")
	rootCmd.AddCommand(checkoutCmd)
}
