package app

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"spotscout/internal/scheduler"
	"spotscout/internal/spot"
)

// WatchOptions configure the repeated check.
type WatchOptions struct {
	CheckOptions
	// Count stops after that many runs. Zero runs until interrupted.
	Count int
}

// Watch re-runs the check on the configured interval until interrupted.
func (a *App) Watch(ctx context.Context, opts WatchOptions) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	req := a.request(opts.CheckOptions)
	if err := req.Validate(); err != nil {
		return err
	}

	svc, err := a.newService(ctx)
	if err != nil {
		return err
	}

	sched := scheduler.New(scheduler.Options{
		Interval:     a.Config.Watch.Interval,
		AlignToStart: a.Config.Watch.AlignToBucket,
		StartupDelay: a.Config.Watch.StartupDelay,
		Immediate:    true,
		MaxRuns:      opts.Count,
	}, a.Logger)

	reporter := a.newReporter()

	a.Logger.Info().Dur("interval", a.Config.Watch.Interval).Msg("starting watch")
	err = svc.Watch(ctx, sched, req, func(ctx context.Context, at time.Time, result spot.Result) error {
		fmt.Fprintf(a.Out, "\n== %s ==\n", at.UTC().Format(time.RFC3339))
		reporter.Preamble(req)
		if err := a.render(reporter, req, result); err != nil {
			return err
		}
		a.maybeAlert(ctx, at, req, result)
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		a.Logger.Error().Err(err).Msg("watch terminated with error")
		return err
	}

	a.Logger.Info().Msg("watch stopped")
	return nil
}
