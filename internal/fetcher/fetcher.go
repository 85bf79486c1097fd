package fetcher

import (
	"context"
	"errors"

	"spotscout/internal/spot"
)

// ErrRegionSkipped marks a region that refused access. Callers treat it as
// a region that contributed no quotes, never as a failure.
var ErrRegionSkipped = errors.New("region skipped")

// RegionFetcher retrieves current spot quotes for one region.
type RegionFetcher interface {
	FetchRegion(ctx context.Context, region string, instanceTypes []string) ([]spot.Quote, error)
}

// RegionLister discovers the regions available to the caller.
type RegionLister interface {
	ListRegions(ctx context.Context) ([]string, error)
}
