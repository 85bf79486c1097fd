package cli

import (
	"errors"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"spotscout/internal/app"
)

var (
	simulatePrice string
	simulateZone  string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate-alert [flags] <instance-type>...",
	Short: "Send a test alert for a fabricated cheapest price",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		price, err := decimal.NewFromString(simulatePrice)
		if err != nil || !price.IsPositive() {
			return errors.New("--price must be a positive decimal")
		}
		if simulateZone == "" {
			return errors.New("--zone is required")
		}

		return getApp().SimulateAlert(cmd.Context(), app.SimulateOptions{
			InstanceTypes: args,
			Price:         price,
			Zone:          simulateZone,
		})
	},
}

func init() {
	simulateCmd.Flags().StringVar(&simulatePrice, "price", "", "Hourly price in USD")
	simulateCmd.Flags().StringVar(&simulateZone, "zone", "", "Availability zone")
}
