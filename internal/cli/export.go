package cli

import (
	"github.com/spf13/cobra"

	"spotscout/internal/app"
)

var (
	exportCheck   checkFlags
	exportPNGPath string
	exportCSVPath string
)

var exportCmd = &cobra.Command{
	Use:   "export [flags] <instance-type>...",
	Short: "Export ranked spot prices as CSV and/or PNG chart",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		check, err := exportCheck.options(args)
		if err != nil {
			return err
		}

		opts := app.ExportOptions{
			CheckOptions: check,
			PNGPath:      exportPNGPath,
			CSVPath:      exportCSVPath,
		}
		return getApp().Export(cmd.Context(), opts)
	},
}

func init() {
	exportCheck.register(exportCmd)
	exportCmd.Flags().StringVar(&exportPNGPath, "png", "", "Path to write PNG chart")
	exportCmd.Flags().StringVar(&exportCSVPath, "csv", "", "Path to write CSV data")
}
