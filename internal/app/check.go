package app

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"spotscout/internal/alerting"
	"spotscout/internal/spot"
)

// Check runs one collection across the requested regions and prints the
// ranked report.
func (a *App) Check(ctx context.Context, opts CheckOptions) error {
	req := a.request(opts)
	if err := req.Validate(); err != nil {
		return err
	}

	svc, err := a.newService(ctx)
	if err != nil {
		return err
	}

	reporter := a.newReporter()
	reporter.Preamble(req)

	result, err := svc.Collect(ctx, req)
	if err != nil {
		return err
	}
	if len(result.Skipped) > 0 {
		a.Logger.Warn().Strs("regions", result.Skipped).Msg("regions skipped for authorization")
	}

	if err := a.render(reporter, req, result); err != nil {
		return err
	}

	a.maybeAlert(ctx, time.Now().UTC(), req, result)
	return nil
}

// maybeAlert notifies when the run's minimum is at or below the configured
// threshold. Delivery failures are logged only.
func (a *App) maybeAlert(ctx context.Context, at time.Time, req spot.Request, result spot.Result) {
	if !a.Config.Alerting.Enabled {
		return
	}

	threshold := decimal.NewFromFloat(a.Config.Alerting.ThresholdPrice)
	note, ok := alerting.Breached(at, req.InstanceTypes, result.Minimum, threshold)
	if !ok {
		return
	}

	notifier := a.newNotifier()
	if notifier == nil {
		a.Logger.Warn().Msg("alert threshold crossed but no alert channel configured")
		return
	}
	if err := notifier.Notify(ctx, note); err != nil {
		a.Logger.Error().Err(err).Str("zone", note.Zone).Msg("send alert failed")
	}
}
