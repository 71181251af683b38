package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/chrisdamba/foodcart/internal/simulator"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Backfill an order history by simulating customers",
	Long: `Simulate customers filling carts and checking out, minute by minute, over the
last --days days, and move each order through its statuses as time passes.
Orders go to the configured order store and publisher. With the in-memory
order store the history only lives as long as the command, so combine it
with --export.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		a, err := newApp(ctx, appOptions{catalog: true, orders: true, seedDemo: true})
		if err != nil {
			return err
		}
		defer a.Close()

		end := time.Now().Truncate(time.Minute)
		start := end.AddDate(0, 0, -cfg.SimulationDays)
		hours := int64(end.Sub(start) / time.Hour)

		bar := progressbar.Default(hours, "simulating")
		sim := simulator.NewSimulator(cfg, a.restaurants, a.menuItems, a.orders, a.publisher, log.WithField("component", "simulator"))
		stats, err := sim.Run(ctx, start, end, func(time.Time) { bar.Add(1) })
		bar.Finish()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Placed %d orders (%d delivered), revenue %.2f\n", stats.OrdersPlaced, stats.OrdersDelivered, stats.Revenue)

		if doExport, _ := cmd.Flags().GetBool("export"); doExport {
			return exportOrders(cmd, a, false)
		}
		return nil
	},
}

func init() {
	simulateCmd.Flags().Int("days", 7, "Number of days to simulate, ending now")
	simulateCmd.Flags().Float64("orders-per-day", 40, "Average orders per day before time-of-day effects")
	simulateCmd.Flags().Float64("peak-hour-factor", 1.5, "Factor for increased orders during weekday lunch and dinner peaks")
	simulateCmd.Flags().Float64("weekend-factor", 1.2, "Factor for increased orders during weekends")
	simulateCmd.Flags().Bool("export", false, "Export the order history to parquet afterwards")
	viper.BindPFlag("simulation_days", simulateCmd.Flags().Lookup("days"))
	for _, name := range []string{"orders-per-day", "peak-hour-factor", "weekend-factor"} {
		viper.BindPFlag(flagKey(name), simulateCmd.Flags().Lookup(name))
	}
	rootCmd.AddCommand(simulateCmd)
}
