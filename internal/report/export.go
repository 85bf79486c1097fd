package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
)

// ChartOptions size the PNG bar chart.
type ChartOptions struct {
	Width   int
	Height  int
	MaxBars int
	Title   string
}

// WriteCSVFile writes rows as CSV to path, creating parent directories.
func WriteCSVFile(path string, rows []Row) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteCSV(file, rows)
}

// WriteCSV writes rows as CSV.
func WriteCSV(w io.Writer, rows []Row) error {
	writer := csv.NewWriter(w)

	header := []string{"instance_type", "zone", "hourly_price", "observed_at", "band"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, row := range rows {
		record := []string{
			row.InstanceType,
			row.Zone,
			row.Price.String(),
			row.ObservedAt.UTC().Format(time.RFC3339),
			row.Band.String(),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// WritePNGFile renders the cheapest rows as a bar chart at path.
func WritePNGFile(path string, rows []Row, opts ChartOptions) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WritePNG(file, rows, opts)
}

// WritePNG renders the cheapest rows as a bar chart.
func WritePNG(w io.Writer, rows []Row, opts ChartOptions) error {
	if len(rows) == 0 {
		return errors.New("no rows to chart")
	}
	if opts.MaxBars > 0 && len(rows) > opts.MaxBars {
		rows = rows[:opts.MaxBars]
	}
	if opts.Width <= 0 {
		opts.Width = 1280
	}
	if opts.Height <= 0 {
		opts.Height = 720
	}

	bars := make([]chart.Value, 0, len(rows))
	for _, row := range rows {
		bars = append(bars, chart.Value{
			Label: fmt.Sprintf("%s %s", row.InstanceType, row.Zone),
			Value: row.Price.InexactFloat64(),
		})
	}

	barWidth := (opts.Width - 100) / (2 * len(bars))
	if barWidth < 1 {
		barWidth = 1
	}

	priceFormatter := func(v interface{}) string {
		return chart.FloatValueFormatterWithFormat(v, "$%.4f")
	}
	graph := chart.BarChart{
		Title:      opts.Title,
		Width:      opts.Width,
		Height:     opts.Height,
		BarWidth:   barWidth,
		BarSpacing: barWidth,
		Background: chart.Style{
			Padding: chart.Box{Top: 40},
		},
		YAxis: chart.YAxis{
			Name:           "Hourly rate (USD)",
			ValueFormatter: priceFormatter,
		},
		Bars: bars,
	}

	return graph.Render(chart.PNG, w)
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
