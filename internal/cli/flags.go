package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"spotscout/internal/app"
)

// checkFlags are shared by every command that runs a price check.
type checkFlags struct {
	region string
	number int
}

func (f *checkFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.region, "region", "r", "", "Limit results to a single region")
	cmd.Flags().IntVarP(&f.number, "number", "n", 0, "Show only the N cheapest results (0 shows all)")
}

func (f *checkFlags) options(args []string) (app.CheckOptions, error) {
	if f.number < 0 {
		return app.CheckOptions{}, fmt.Errorf("--number must be a positive integer, got %d", f.number)
	}
	return app.CheckOptions{
		InstanceTypes: args,
		Region:        f.region,
		Top:           f.number,
	}, nil
}
