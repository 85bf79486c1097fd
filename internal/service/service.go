package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"spotscout/internal/fetcher"
	"spotscout/internal/scheduler"
	"spotscout/internal/spot"
)

// Options tune the fan-out.
type Options struct {
	// MaxConcurrency bounds simultaneous region fetches. Zero means one
	// goroutine per region.
	MaxConcurrency int
	// AllowPartial keeps data from healthy regions when others fail hard.
	AllowPartial bool
}

// ResultHandler consumes the outcome of one collection run.
type ResultHandler func(ctx context.Context, at time.Time, result spot.Result) error

// Service orchestrates region discovery, concurrent fetching and merging.
type Service struct {
	lister  fetcher.RegionLister
	fetcher fetcher.RegionFetcher
	opts    Options
	logger  zerolog.Logger
}

// New constructs the collection service.
func New(lister fetcher.RegionLister, f fetcher.RegionFetcher, opts Options, logger zerolog.Logger) *Service {
	return &Service{
		lister:  lister,
		fetcher: f,
		opts:    opts,
		logger:  logger.With().Str("component", "service").Logger(),
	}
}

type regionOutcome struct {
	region string
	err    error
}

// Collect queries every target region concurrently and merges the quotes.
//
// All launched fetches are awaited. Unless AllowPartial is set, a hard failure
// in any region discards every region's data and the joined errors are
// returned.
func (s *Service) Collect(ctx context.Context, req spot.Request) (spot.Result, error) {
	if err := req.Validate(); err != nil {
		return spot.Result{}, err
	}

	regions, err := s.targetRegions(ctx, req)
	if err != nil {
		return spot.Result{}, err
	}

	reducer := spot.NewReducer()
	outcomes := make([]regionOutcome, len(regions))

	// not context-bound: a failed region must not cancel its siblings
	var g errgroup.Group
	if s.opts.MaxConcurrency > 0 {
		g.SetLimit(s.opts.MaxConcurrency)
	}
	for i, region := range regions {
		i, region := i, region
		g.Go(func() error {
			quotes, err := s.fetcher.FetchRegion(ctx, region, req.InstanceTypes)
			outcomes[i] = regionOutcome{region: region, err: err}
			if err != nil {
				return err
			}
			reducer.Merge(quotes)
			return nil
		})
	}
	_ = g.Wait()

	result := spot.Result{Regions: regions}
	var failures []error
	for _, o := range outcomes {
		switch {
		case o.err == nil:
		case errors.Is(o.err, fetcher.ErrRegionSkipped):
			result.Skipped = append(result.Skipped, o.region)
		default:
			result.Failed = append(result.Failed, o.region)
			failures = append(failures, o.err)
		}
	}

	if len(failures) > 0 {
		if !s.opts.AllowPartial {
			return spot.Result{}, fmt.Errorf("collect spot prices: %w", errors.Join(failures...))
		}
		for _, ferr := range failures {
			s.logger.Warn().Err(ferr).Msg("region failed; continuing with partial data")
		}
	}

	result.Quotes = reducer.Quotes()
	result.Minimum = reducer.Minimum()

	s.logger.Info().
		Int("regions", len(regions)).
		Int("skipped", len(result.Skipped)).
		Int("failed", len(result.Failed)).
		Int("quotes", len(result.Quotes)).
		Msg("collection complete")
	return result, nil
}

func (s *Service) targetRegions(ctx context.Context, req spot.Request) ([]string, error) {
	if req.Pinned() {
		return []string{req.Region}, nil
	}
	if s.lister == nil {
		return nil, errors.New("region discovery not configured")
	}
	regions, err := s.lister.ListRegions(ctx)
	if err != nil {
		return nil, fmt.Errorf("discover regions: %w", err)
	}
	return regions, nil
}

// Watch re-runs Collect on every scheduler tick and hands each result to
// handle. A failed run is logged by the scheduler and the loop continues.
func (s *Service) Watch(ctx context.Context, sched *scheduler.Scheduler, req spot.Request, handle ResultHandler) error {
	if sched == nil {
		return fmt.Errorf("scheduler not configured")
	}
	if err := req.Validate(); err != nil {
		return err
	}
	return sched.Run(ctx, func(ctx context.Context, at time.Time) error {
		result, err := s.Collect(ctx, req)
		if err != nil {
			return err
		}
		return handle(ctx, at, result)
	})
}
