package cmd

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/chrisdamba/foodcart/internal/models"
	"github.com/spf13/cobra"
)

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List and track orders",
}

var ordersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List orders, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, appOptions{orders: true})
		if err != nil {
			return err
		}
		defer a.Close()

		orders, err := a.checkout.Orders(ctx)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(orders) == 0 {
			fmt.Fprintln(out, "No orders yet")
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NUMBER\tDATE\tCUSTOMER\tITEMS\tTOTAL\tSTATUS")
		for _, o := range orders {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2f\t%s\n", o.OrderNumber, o.OrderDate, o.CustomerName, len(o.Items), o.TotalAmount, o.Status)
		}
		w.Flush()

		if summary, _ := cmd.Flags().GetBool("summary"); summary {
			printOrderMetrics(cmd, models.ComputeOrderMetrics(orders))
		}
		return nil
	},
}

var ordersStatusCmd = &cobra.Command{
	Use:   "status <order-number> <status>",
	Short: "Move an order to a new status",
	Long: `Move an order to a new status. The status may be given as its display value
("Out for Delivery") or its key (out-for-delivery).`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, appOptions{orders: true})
		if err != nil {
			return err
		}
		defer a.Close()

		number := args[0]
		if number != "" && number[0] != '#' {
			number = "#" + number
		}
		order, err := a.checkout.UpdateStatus(ctx, number, args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Order %s is now %s\n", order.OrderNumber, order.Status)
		return nil
	},
}

func init() {
	ordersListCmd.Flags().Bool("summary", false, "Print revenue and popular items after the list")
	ordersCmd.AddCommand(ordersListCmd, ordersStatusCmd)
	rootCmd.AddCommand(ordersCmd)
}

func printOrderMetrics(cmd *cobra.Command, m models.OrderMetrics) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nOrders: %d  Revenue: %.2f  Average: %.2f\n", m.TotalOrders, m.TotalRevenue, m.AvgOrderValue)
	for _, status := range models.OrderStatuses {
		if n := m.ByStatus[status]; n > 0 {
			fmt.Fprintf(out, "  %-18s %d\n", status, n)
		}
	}

	type popular struct {
		id    string
		count int
	}
	items := make([]popular, 0, len(m.PopularItems))
	for id, count := range m.PopularItems {
		items = append(items, popular{id, count})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].count != items[j].count {
			return items[i].count > items[j].count
		}
		return items[i].id < items[j].id
	})
	if len(items) > 5 {
		items = items[:5]
	}
	for _, item := range items {
		fmt.Fprintf(out, "  %-18s ordered %d times\n", item.id, item.count)
	}
}
