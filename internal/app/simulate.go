package app

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"spotscout/internal/alerting"
	"spotscout/internal/spot"
)

// SimulateOptions describe a fabricated cheapest price.
type SimulateOptions struct {
	InstanceTypes []string
	Price         decimal.Decimal
	Zone          string
}

// SimulateAlert pushes a test alert for the given price through the
// configured channel, bypassing the threshold check.
func (a *App) SimulateAlert(ctx context.Context, opts SimulateOptions) error {
	if !a.Config.Alerting.Enabled {
		return errors.New("alerting is not enabled")
	}
	if len(opts.InstanceTypes) == 0 {
		return spot.ErrNoInstanceTypes
	}

	notifier := a.newNotifier()
	if notifier == nil {
		return errors.New("no alert channel configured")
	}

	note := alerting.Notification{
		At:            time.Now().UTC(),
		InstanceTypes: opts.InstanceTypes,
		Price:         opts.Price,
		Zone:          opts.Zone,
		Threshold:     decimal.NewFromFloat(a.Config.Alerting.ThresholdPrice),
		Simulated:     true,
	}
	return notifier.Notify(ctx, note)
}
