package spot

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrNoInstanceTypes is returned when a request names no instance type.
	ErrNoInstanceTypes = errors.New("at least one instance type is required")
	// ErrInvalidTop is returned for a negative row limit.
	ErrInvalidTop = errors.New("row limit must not be negative")
)

// Quote is a single spot price observation.
type Quote struct {
	InstanceType string
	Zone         string
	Price        decimal.Decimal
	ObservedAt   time.Time
}

// Key returns the deduplication identity of the quote.
func (q Quote) Key() QuoteKey {
	return QuoteKey{InstanceType: q.InstanceType, Zone: q.Zone}
}

// QuoteKey identifies a (instance type, availability zone) pair.
type QuoteKey struct {
	InstanceType string
	Zone         string
}

// Minimum is the cheapest observation seen during one collection run.
// Found is false when no observation was seen.
type Minimum struct {
	Price decimal.Decimal
	Zone  string
	Found bool
}

// Request describes what the caller wants priced.
type Request struct {
	InstanceTypes []string
	// Region pins the lookup to a single region. Empty means every region.
	Region string
	// Top limits the rendered rows. Zero means unlimited.
	Top int
}

// Validate checks the request invariants.
func (r Request) Validate() error {
	if len(r.InstanceTypes) == 0 {
		return ErrNoInstanceTypes
	}
	if r.Top < 0 {
		return ErrInvalidTop
	}
	return nil
}

// Pinned reports whether the request targets a single region.
func (r Request) Pinned() bool {
	return r.Region != ""
}

// Result is the merged outcome of one collection run.
type Result struct {
	Quotes  []Quote
	Minimum Minimum
	// Regions lists every region that was queried.
	Regions []string
	// Skipped lists regions that denied access and contributed nothing.
	Skipped []string
	// Failed lists regions that failed hard but were tolerated.
	Failed []string
}

// Empty reports whether no quote survived aggregation.
func (r Result) Empty() bool {
	return len(r.Quotes) == 0
}
