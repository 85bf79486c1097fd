package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spotscout/internal/alerting"
	"spotscout/internal/config"
	"spotscout/internal/logging"
	"spotscout/internal/spot"
)

var observed = time.Date(2019, 3, 6, 0, 54, 47, 0, time.UTC)

type staticSource struct {
	regions []string
	quotes  map[string][]spot.Quote
	errs    map[string]error
}

func (s *staticSource) ListRegions(ctx context.Context) ([]string, error) {
	return s.regions, nil
}

func (s *staticSource) FetchRegion(ctx context.Context, region string, instanceTypes []string) ([]spot.Quote, error) {
	if err := s.errs[region]; err != nil {
		return nil, err
	}
	return s.quotes[region], nil
}

type recordingNotifier struct {
	mu    sync.Mutex
	notes []alerting.Notification
}

func (r *recordingNotifier) Notify(ctx context.Context, note alerting.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, note)
	return nil
}

func (r *recordingNotifier) sent() []alerting.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]alerting.Notification(nil), r.notes...)
}

func quote(itype, zone, price string) spot.Quote {
	return spot.Quote{InstanceType: itype, Zone: zone, Price: decimal.RequireFromString(price), ObservedAt: observed}
}

func testConfig() *config.Config {
	return &config.Config{
		Logging: logging.Config{Level: "error"},
		AWS: config.AWSConfig{
			DiscoveryRegion: "us-west-2",
			Lookback:        4 * time.Hour,
		},
		Report: config.ReportConfig{NearMinimumRatio: 1.1, PricePlaces: 6, Color: "never"},
		Watch:  config.WatchConfig{Interval: 10 * time.Millisecond},
		Export: config.ExportConfig{ChartWidth: 640, ChartHeight: 360, MaxBars: 10},
	}
}

func newTestApp(t *testing.T, src *staticSource) (*App, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	a := NewApp(testConfig(), zerolog.Nop())
	a.Out = &out
	a.lister = src
	a.fetcher = src
	return a, &out
}

func twoRegions() *staticSource {
	return &staticSource{
		regions: []string{"eu-north-1", "us-east-1"},
		quotes: map[string][]spot.Quote{
			"eu-north-1": {
				quote("m5.metal", "eu-north-1c", "0.9173"),
				quote("m5.metal", "eu-north-1a", "0.9173"),
			},
			"us-east-1": {
				quote("m5.metal", "us-east-1a", "1.0882"),
			},
		},
	}
}

func TestCheckPrintsRankedReport(t *testing.T) {
	a, out := newTestApp(t, twoRegions())

	require.NoError(t, a.Check(context.Background(), CheckOptions{InstanceTypes: []string{"m5.metal"}}))

	text := out.String()
	assert.True(t, strings.HasPrefix(text, "Checking spot prices for [m5.metal] instance type(s).\n"))
	assert.NotContains(t, text, "Limiting results")
	assert.Less(t, strings.Index(text, "eu-north-1a"), strings.Index(text, "us-east-1a"))
	assert.Contains(t, text, "Cheapest hourly rate for [m5.metal] is $0.9173 in zone eu-north-1c")
}

func TestCheckPinnedRegion(t *testing.T) {
	a, out := newTestApp(t, twoRegions())

	err := a.Check(context.Background(), CheckOptions{InstanceTypes: []string{"m5.metal"}, Region: "us-east-1"})
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "Limiting results to region us-east-1\n")
	assert.NotContains(t, text, "eu-north-1")
	assert.Contains(t, text, "is $1.0882 in zone us-east-1a")
}

func TestCheckTopLimitsRows(t *testing.T) {
	a, out := newTestApp(t, twoRegions())

	require.NoError(t, a.Check(context.Background(), CheckOptions{InstanceTypes: []string{"m5.metal"}, Top: 1}))
	assert.Equal(t, 1, strings.Count(out.String(), "$0.917300"))
	assert.NotContains(t, out.String(), "$1.088200")
}

func TestCheckHardFailure(t *testing.T) {
	src := twoRegions()
	src.errs = map[string]error{"us-east-1": errors.New("throttled")}
	a, out := newTestApp(t, src)

	err := a.Check(context.Background(), CheckOptions{InstanceTypes: []string{"m5.metal"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
	assert.NotContains(t, out.String(), "Cheapest")
}

func TestCheckRejectsEmptyRequest(t *testing.T) {
	a, _ := newTestApp(t, twoRegions())
	err := a.Check(context.Background(), CheckOptions{})
	assert.ErrorIs(t, err, spot.ErrNoInstanceTypes)
}

func TestCheckAlertsBelowThreshold(t *testing.T) {
	a, _ := newTestApp(t, twoRegions())
	notifier := &recordingNotifier{}
	a.notifier = notifier
	a.Config.Alerting.Enabled = true
	a.Config.Alerting.ThresholdPrice = 1

	require.NoError(t, a.Check(context.Background(), CheckOptions{InstanceTypes: []string{"m5.metal"}}))

	sent := notifier.sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "eu-north-1c", sent[0].Zone)
	assert.False(t, sent[0].Simulated)
}

func TestCheckNoAlertAboveThreshold(t *testing.T) {
	a, _ := newTestApp(t, twoRegions())
	notifier := &recordingNotifier{}
	a.notifier = notifier
	a.Config.Alerting.Enabled = true
	a.Config.Alerting.ThresholdPrice = 0.5

	require.NoError(t, a.Check(context.Background(), CheckOptions{InstanceTypes: []string{"m5.metal"}}))
	assert.Empty(t, notifier.sent())
}

func TestWatchRunsCount(t *testing.T) {
	a, out := newTestApp(t, twoRegions())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := a.Watch(ctx, WatchOptions{CheckOptions: CheckOptions{InstanceTypes: []string{"m5.metal"}}, Count: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out.String(), "Cheapest hourly rate"))
	assert.Equal(t, 2, strings.Count(out.String(), "\n== "))
}

func TestExportWritesFiles(t *testing.T) {
	a, _ := newTestApp(t, twoRegions())
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "out", "prices.csv")
	pngPath := filepath.Join(dir, "out", "prices.png")

	err := a.Export(context.Background(), ExportOptions{
		CheckOptions: CheckOptions{InstanceTypes: []string{"m5.metal"}},
		CSVPath:      csvPath,
		PNGPath:      pngPath,
	})
	require.NoError(t, err)

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "m5.metal,eu-north-1c,0.9173,2019-03-06T00:54:47Z,minimum")

	info, err := os.Stat(pngPath)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestExportRequiresTarget(t *testing.T) {
	a, _ := newTestApp(t, twoRegions())
	err := a.Export(context.Background(), ExportOptions{CheckOptions: CheckOptions{InstanceTypes: []string{"m5.metal"}}})
	assert.Error(t, err)
}

func TestExportNoData(t *testing.T) {
	a, _ := newTestApp(t, &staticSource{regions: []string{"eu-north-1"}})
	err := a.Export(context.Background(), ExportOptions{
		CheckOptions: CheckOptions{InstanceTypes: []string{"m0.fakebox"}},
		CSVPath:      filepath.Join(t.TempDir(), "prices.csv"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no spot prices found for [m0.fakebox]")
}

func TestRegionsTable(t *testing.T) {
	a, out := newTestApp(t, twoRegions())

	require.NoError(t, a.Regions(context.Background()))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "#  Region", lines[0])
	assert.Equal(t, "1  eu-north-1", lines[1])
	assert.Equal(t, "2  us-east-1", lines[2])
}

func TestSimulateAlert(t *testing.T) {
	a, _ := newTestApp(t, twoRegions())
	notifier := &recordingNotifier{}
	a.notifier = notifier

	opts := SimulateOptions{
		InstanceTypes: []string{"m5.metal"},
		Price:         decimal.RequireFromString("0.42"),
		Zone:          "us-east-1a",
	}
	require.Error(t, a.SimulateAlert(context.Background(), opts), "alerting disabled")

	a.Config.Alerting.Enabled = true
	require.NoError(t, a.SimulateAlert(context.Background(), opts))

	sent := notifier.sent()
	require.Len(t, sent, 1)
	assert.True(t, sent[0].Simulated)
	assert.Equal(t, "0.42", sent[0].Price.String())
}
