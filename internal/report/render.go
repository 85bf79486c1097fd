package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"spotscout/internal/spot"
)

const (
	typeWidth  = 16
	zoneWidth  = 24
	priceWidth = 12

	defaultPricePlaces = 6
)

// Color modes accepted by ReporterOptions.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// ReporterOptions configure text rendering.
type ReporterOptions struct {
	Color       string
	PricePlaces int32
}

// Reporter writes price tables to a terminal or any writer.
type Reporter struct {
	out     io.Writer
	places  int32
	colored bool
	minimum lipgloss.Style
	near    lipgloss.Style
}

// NewReporter constructs a Reporter writing to out.
func NewReporter(out io.Writer, opts ReporterOptions) *Reporter {
	places := opts.PricePlaces
	if places <= 0 {
		places = defaultPricePlaces
	}

	renderer := lipgloss.NewRenderer(out)
	switch strings.ToLower(opts.Color) {
	case ColorAlways:
		renderer.SetColorProfile(termenv.ANSI)
	case ColorNever:
		renderer.SetColorProfile(termenv.Ascii)
	}

	return &Reporter{
		out:     out,
		places:  places,
		colored: !strings.EqualFold(opts.Color, ColorNever),
		minimum: renderer.NewStyle().Foreground(lipgloss.Color("2")),
		near:    renderer.NewStyle().Foreground(lipgloss.Color("3")),
	}
}

// Preamble announces what is being checked.
func (r *Reporter) Preamble(req spot.Request) {
	fmt.Fprintf(r.out, "Checking spot prices for [%s] instance type(s).\n", strings.Join(req.InstanceTypes, ", "))
	if req.Pinned() {
		fmt.Fprintf(r.out, "Limiting results to region %s\n", req.Region)
	}
}

// Render writes the ranked table followed by the summary line. An empty
// result prints only the no-data notice.
func (r *Reporter) Render(rows []Row, summary Summary) error {
	if summary.NoData {
		_, err := fmt.Fprintf(r.out, "\n%s\n", SummaryLine(summary))
		return err
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(formatLine("Instance Type", "AWS Zone", "Hourly Rate"))
	b.WriteString("\n")
	b.WriteString(formatLine(strings.Repeat("-", typeWidth), strings.Repeat("-", zoneWidth), strings.Repeat("-", priceWidth)))
	b.WriteString("\n")

	for _, row := range rows {
		line := formatLine(row.InstanceType, row.Zone, "$"+row.Price.StringFixed(r.places))
		b.WriteString(r.style(row.Band, line))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(r.style(BandMinimum, SummaryLine(summary)))
	b.WriteString("\n")

	_, err := io.WriteString(r.out, b.String())
	return err
}

// SummaryLine renders the summary sentence without styling.
func SummaryLine(s Summary) string {
	if s.NoData {
		return fmt.Sprintf("No spot prices found for [%s]", strings.Join(s.Requested, ", "))
	}
	return fmt.Sprintf("Cheapest hourly rate for [%s] is $%s in zone %s",
		strings.Join(s.Found, ", "), s.Minimum.Price.String(), s.Minimum.Zone)
}

func (r *Reporter) style(band Band, line string) string {
	if !r.colored {
		return line
	}
	switch band {
	case BandMinimum:
		return r.minimum.Render(line)
	case BandNearMinimum:
		return r.near.Render(line)
	default:
		return line
	}
}

func formatLine(itype, zone, price string) string {
	return fmt.Sprintf("%-*s %-*s %-*s", typeWidth, itype, zoneWidth, zone, priceWidth, price)
}
