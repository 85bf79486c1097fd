package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"spotscout/internal/app"
)

var (
	watchCheck checkFlags
	watchCount int
)

var watchCmd = &cobra.Command{
	Use:   "watch [flags] <instance-type>...",
	Short: "Re-run the price check on an interval",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if watchCount < 0 {
			return fmt.Errorf("--count cannot be negative")
		}

		check, err := watchCheck.options(args)
		if err != nil {
			return err
		}

		return getApp().Watch(cmd.Context(), app.WatchOptions{CheckOptions: check, Count: watchCount})
	},
}

func init() {
	watchCheck.register(watchCmd)
	watchCmd.Flags().IntVar(&watchCount, "count", 0, "Stop after this many checks (0 runs until interrupted)")
}
