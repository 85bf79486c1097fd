package app

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"spotscout/internal/alerting"
	"spotscout/internal/config"
	"spotscout/internal/fetcher"
	"spotscout/internal/report"
	"spotscout/internal/service"
	"spotscout/internal/spot"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	// Out receives reports. Logs never go here.
	Out io.Writer

	lister   fetcher.RegionLister
	fetcher  fetcher.RegionFetcher
	notifier alerting.Notifier
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{
		Config: cfg,
		Logger: logger.With().Str("component", "app").Logger(),
		Out:    os.Stdout,
	}
}

// CheckOptions select what a single check looks at.
type CheckOptions struct {
	InstanceTypes []string
	Region        string
	// Top overrides report.top when positive.
	Top int
}

func (a *App) request(opts CheckOptions) spot.Request {
	return spot.Request{
		InstanceTypes: opts.InstanceTypes,
		Region:        opts.Region,
		Top:           a.Config.ResolveTop(opts.Top),
	}
}

// sources lazily builds the EC2 fetcher shared by lister and fetcher roles.
func (a *App) sources(ctx context.Context) (fetcher.RegionLister, fetcher.RegionFetcher, error) {
	if a.lister != nil && a.fetcher != nil {
		return a.lister, a.fetcher, nil
	}

	awsCfg := a.Config.AWS
	sdkCfg, err := fetcher.LoadAWSConfig(ctx, fetcher.SessionOptions{
		Region:      awsCfg.DiscoveryRegion,
		Profile:     awsCfg.Profile,
		EndpointURL: awsCfg.EndpointURL,
		MaxAttempts: awsCfg.MaxAttempts,
	}, a.Logger)
	if err != nil {
		return nil, nil, err
	}

	ec2 := fetcher.NewEC2(fetcher.EC2Options{
		DiscoveryRegion:     awsCfg.DiscoveryRegion,
		ProductDescriptions: awsCfg.ProductDescriptions,
		Lookback:            awsCfg.Lookback,
		Timeout:             awsCfg.RequestTimeout,
	}, fetcher.NewClientFactory(sdkCfg), a.Logger)

	a.lister, a.fetcher = ec2, ec2
	return a.lister, a.fetcher, nil
}

func (a *App) newService(ctx context.Context) (*service.Service, error) {
	lister, f, err := a.sources(ctx)
	if err != nil {
		return nil, err
	}
	return service.New(lister, f, service.Options{
		MaxConcurrency: a.Config.AWS.MaxConcurrency,
		AllowPartial:   a.Config.AWS.AllowPartial,
	}, a.Logger), nil
}

func (a *App) newReporter() *report.Reporter {
	return report.NewReporter(a.Out, report.ReporterOptions{
		Color:       a.Config.Report.Color,
		PricePlaces: a.Config.Report.PricePlaces,
	})
}

func (a *App) rank(req spot.Request, result spot.Result) []report.Row {
	return report.Rank(result.Quotes, result.Minimum, report.Options{
		Top:              req.Top,
		NearMinimumRatio: decimal.NewFromFloat(a.Config.Report.NearMinimumRatio),
	})
}

func (a *App) render(r *report.Reporter, req spot.Request, result spot.Result) error {
	return r.Render(a.rank(req, result), report.Summarize(result, req.InstanceTypes))
}

func (a *App) newNotifier() alerting.Notifier {
	if a.notifier != nil {
		return a.notifier
	}
	if a.Config.Alerting.Telegram.Enabled {
		cfg := a.Config.Alerting.Telegram
		a.notifier = alerting.NewTelegramNotifier(cfg.BotToken, cfg.ChatID, cfg.APIBase, cfg.Timeout, a.Logger)
	}
	return a.notifier
}
