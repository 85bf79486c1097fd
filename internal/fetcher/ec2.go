package fetcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/smithy-go"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"spotscout/internal/spot"
)

const defaultLookback = 4 * time.Hour

// authErrorCodes are EC2 error codes meaning the caller may not use a region.
var authErrorCodes = map[string]struct{}{
	"AuthFailure":           {},
	"UnauthorizedOperation": {},
	"AccessDenied":          {},
	"AccessDeniedException": {},
	"OptInRequired":         {},
}

// EC2API is the subset of the EC2 client used for spot pricing.
type EC2API interface {
	DescribeRegions(ctx context.Context, params *ec2.DescribeRegionsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeRegionsOutput, error)
	DescribeSpotPriceHistory(ctx context.Context, params *ec2.DescribeSpotPriceHistoryInput, optFns ...func(*ec2.Options)) (*ec2.DescribeSpotPriceHistoryOutput, error)
}

// ClientFactory returns an EC2 client bound to region.
type ClientFactory func(region string) EC2API

// NewClientFactory builds regional EC2 clients from a shared SDK config.
func NewClientFactory(cfg aws.Config) ClientFactory {
	return func(region string) EC2API {
		return ec2.NewFromConfig(cfg, func(o *ec2.Options) {
			o.Region = region
		})
	}
}

// EC2Options parameterise the EC2 spot price fetcher.
type EC2Options struct {
	DiscoveryRegion     string
	ProductDescriptions []string
	Lookback            time.Duration
	Timeout             time.Duration
}

// EC2 fetches spot price history and region listings from EC2.
type EC2 struct {
	opts      EC2Options
	clientFor ClientFactory
	logger    zerolog.Logger
	now       func() time.Time
}

// NewEC2 constructs an EC2 fetcher.
func NewEC2(opts EC2Options, clientFor ClientFactory, logger zerolog.Logger) *EC2 {
	if opts.Lookback <= 0 {
		opts.Lookback = defaultLookback
	}
	return &EC2{
		opts:      opts,
		clientFor: clientFor,
		logger:    logger.With().Str("component", "ec2_fetcher").Logger(),
		now:       time.Now,
	}
}

// ListRegions returns the regions enabled for the account.
func (e *EC2) ListRegions(ctx context.Context) ([]string, error) {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	out, err := e.clientFor(e.opts.DiscoveryRegion).DescribeRegions(ctx, &ec2.DescribeRegionsInput{})
	if err != nil {
		return nil, fmt.Errorf("describe regions via %s: %w", e.opts.DiscoveryRegion, err)
	}

	seen := make(map[string]struct{}, len(out.Regions))
	regions := make([]string, 0, len(out.Regions))
	for _, r := range out.Regions {
		name := aws.ToString(r.RegionName)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		regions = append(regions, name)
	}

	e.logger.Debug().Int("regions", len(regions)).Msg("regions discovered")
	return regions, nil
}

// FetchRegion returns the spot quotes for the requested instance types in
// region. All instance types go out in one request; an access failure is
// logged and reported as ErrRegionSkipped.
func (e *EC2) FetchRegion(ctx context.Context, region string, instanceTypes []string) ([]spot.Quote, error) {
	if len(instanceTypes) == 0 {
		return nil, spot.ErrNoInstanceTypes
	}

	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	wanted := make(map[string]struct{}, len(instanceTypes))
	itypes := make([]types.InstanceType, 0, len(instanceTypes))
	for _, it := range instanceTypes {
		wanted[it] = struct{}{}
		itypes = append(itypes, types.InstanceType(it))
	}

	input := &ec2.DescribeSpotPriceHistoryInput{
		InstanceTypes:       itypes,
		ProductDescriptions: e.opts.ProductDescriptions,
		StartTime:           aws.Time(e.now().Add(-e.opts.Lookback).UTC()),
	}

	var quotes []spot.Quote
	paginator := ec2.NewDescribeSpotPriceHistoryPaginator(e.clientFor(region), input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			if isAuthError(err) {
				e.logger.Warn().Err(err).Str("region", region).Msg("not authorized for region; skipping")
				return nil, fmt.Errorf("%w: %s", ErrRegionSkipped, region)
			}
			return nil, fmt.Errorf("describe spot price history in %s: %w", region, err)
		}

		for _, rec := range page.SpotPriceHistory {
			q, ok := toQuote(rec)
			if !ok {
				continue
			}
			if _, ok := wanted[q.InstanceType]; !ok {
				continue
			}
			quotes = append(quotes, q)
		}
	}

	e.logger.Debug().Str("region", region).Int("quotes", len(quotes)).Msg("region fetched")
	return quotes, nil
}

func (e *EC2) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.opts.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, e.opts.Timeout)
}

// toQuote normalises a raw record; malformed records are rejected.
func toQuote(rec types.SpotPrice) (spot.Quote, bool) {
	if rec.SpotPrice == nil || rec.Timestamp == nil || aws.ToString(rec.AvailabilityZone) == "" {
		return spot.Quote{}, false
	}
	price, err := decimal.NewFromString(*rec.SpotPrice)
	if err != nil || price.IsNegative() {
		return spot.Quote{}, false
	}
	return spot.Quote{
		InstanceType: string(rec.InstanceType),
		Zone:         *rec.AvailabilityZone,
		Price:        price,
		ObservedAt:   rec.Timestamp.UTC(),
	}, true
}

func isAuthError(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	_, ok := authErrorCodes[apiErr.ErrorCode()]
	return ok
}

var (
	_ RegionFetcher = (*EC2)(nil)
	_ RegionLister  = (*EC2)(nil)
)
