package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"spotscout/internal/report"
)

// ExportOptions hold parameters for exporting a ranked check.
type ExportOptions struct {
	CheckOptions
	CSVPath string
	PNGPath string
}

// Export runs one check and writes the ranked rows as CSV and/or PNG.
func (a *App) Export(ctx context.Context, opts ExportOptions) error {
	if opts.CSVPath == "" && opts.PNGPath == "" {
		return errors.New("at least one of --csv or --png must be provided")
	}

	req := a.request(opts.CheckOptions)
	if err := req.Validate(); err != nil {
		return err
	}

	svc, err := a.newService(ctx)
	if err != nil {
		return err
	}

	result, err := svc.Collect(ctx, req)
	if err != nil {
		return err
	}
	if result.Empty() {
		return fmt.Errorf("no spot prices found for [%s]", strings.Join(req.InstanceTypes, ", "))
	}

	rows := a.rank(req, result)
	a.Logger.Info().Int("rows", len(rows)).Msg("exporting spot prices")

	if opts.CSVPath != "" {
		if err := report.WriteCSVFile(opts.CSVPath, rows); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
	}

	if opts.PNGPath != "" {
		chartOpts := report.ChartOptions{
			Width:   a.Config.Export.ChartWidth,
			Height:  a.Config.Export.ChartHeight,
			MaxBars: a.Config.Export.MaxBars,
			Title:   "Spot prices for " + strings.Join(req.InstanceTypes, ", "),
		}
		if err := report.WritePNGFile(opts.PNGPath, rows, chartOpts); err != nil {
			return fmt.Errorf("write png: %w", err)
		}
	}

	return nil
}
