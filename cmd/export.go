package cmd

import (
	"fmt"

	"github.com/chrisdamba/foodcart/internal/export"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the order history as parquet files",
	Long: `Export every stored order as parquet, one file per order date, either below
--output-path or to the S3 bucket named by --s3-bucket.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, appOptions{orders: true})
		if err != nil {
			return err
		}
		defer a.Close()
		return exportOrders(cmd, a, true)
	},
}

func exportOrders(cmd *cobra.Command, a *app, listFiles bool) error {
	ctx := cmd.Context()
	orders, err := a.orders.GetAll(ctx)
	if err != nil {
		return err
	}
	exporter, err := export.New(ctx, cfg, log.WithField("component", "export"))
	if err != nil {
		return err
	}
	written, err := exporter.Export(ctx, orders)
	if err != nil {
		return err
	}
	if listFiles {
		for _, location := range written {
			fmt.Fprintln(cmd.OutOrStdout(), location)
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d orders to %d files\n", len(orders), len(written))
	return nil
}

func init() {
	exportCmd.Flags().String("output-destination", "local", "Where to write the files (local, s3)")
	exportCmd.Flags().String("output-path", "output", "Base directory for local exports")
	exportCmd.Flags().String("output-folder", "orders", "Folder (or S3 prefix) below the base")
	exportCmd.Flags().String("s3-bucket", "", "Bucket for S3 exports")
	for _, name := range []string{"output-destination", "output-path", "output-folder", "s3-bucket"} {
		viper.BindPFlag(flagKey(name), exportCmd.Flags().Lookup(name))
	}
	rootCmd.AddCommand(exportCmd)
}
