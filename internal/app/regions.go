package app

import (
	"context"
	"fmt"
	"text/tabwriter"
)

// Regions prints the regions a check without --region would query.
func (a *App) Regions(ctx context.Context) error {
	lister, _, err := a.sources(ctx)
	if err != nil {
		return err
	}

	regions, err := lister.ListRegions(ctx)
	if err != nil {
		return err
	}
	if len(regions) == 0 {
		fmt.Fprintln(a.Out, "no regions found")
		return nil
	}

	writer := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "#\tRegion")
	for i, region := range regions {
		fmt.Fprintf(writer, "%d\t%s\n", i+1, region)
	}
	return writer.Flush()
}
