package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"spotscout/internal/spot"
)

// DefaultNearMinimumRatio marks rows within 10% of the cheapest price.
var DefaultNearMinimumRatio = decimal.RequireFromString("1.1")

// Band classifies a row for highlighting.
type Band int

const (
	BandPlain Band = iota
	BandNearMinimum
	BandMinimum
)

func (b Band) String() string {
	switch b {
	case BandMinimum:
		return "minimum"
	case BandNearMinimum:
		return "near-minimum"
	default:
		return "plain"
	}
}

// Row is one ranked quote with its highlight band.
type Row struct {
	spot.Quote
	Band Band
}

// Options control ranking.
type Options struct {
	// Top keeps only the cheapest rows when positive.
	Top int
	// NearMinimumRatio defaults to DefaultNearMinimumRatio when zero.
	NearMinimumRatio decimal.Decimal
}

// Rank orders quotes by ascending price, truncates to Top and classifies
// each row against the minimum. Ties are ordered by zone, then instance type.
func Rank(quotes []spot.Quote, minimum spot.Minimum, opts Options) []Row {
	ratio := opts.NearMinimumRatio
	if ratio.IsZero() {
		ratio = DefaultNearMinimumRatio
	}

	sorted := make([]spot.Quote, len(quotes))
	copy(sorted, quotes)
	sort.SliceStable(sorted, func(i, j int) bool {
		if c := sorted[i].Price.Cmp(sorted[j].Price); c != 0 {
			return c < 0
		}
		if sorted[i].Zone != sorted[j].Zone {
			return sorted[i].Zone < sorted[j].Zone
		}
		return sorted[i].InstanceType < sorted[j].InstanceType
	})

	if opts.Top > 0 && len(sorted) > opts.Top {
		sorted = sorted[:opts.Top]
	}

	rows := make([]Row, 0, len(sorted))
	for _, q := range sorted {
		rows = append(rows, Row{Quote: q, Band: Classify(q, minimum, ratio)})
	}
	return rows
}

// Classify places a quote in its highlight band.
func Classify(q spot.Quote, minimum spot.Minimum, ratio decimal.Decimal) Band {
	if !minimum.Found {
		return BandPlain
	}
	if q.Zone == minimum.Zone && q.Price.Equal(minimum.Price) {
		return BandMinimum
	}
	if minimum.Price.Mul(ratio).GreaterThanOrEqual(q.Price) {
		return BandNearMinimum
	}
	return BandPlain
}

// Summary is the closing line of a report.
type Summary struct {
	// Requested holds every instance type asked for.
	Requested []string
	// Found holds the requested instance types that produced a quote.
	Found   []string
	Minimum spot.Minimum
	NoData  bool
}

// Summarize builds the summary for a collection result.
func Summarize(result spot.Result, requested []string) Summary {
	s := Summary{Requested: requested, Minimum: result.Minimum}
	if result.Empty() {
		s.NoData = true
		return s
	}

	present := make(map[string]struct{}, len(requested))
	for _, q := range result.Quotes {
		present[q.InstanceType] = struct{}{}
	}
	seen := make(map[string]struct{}, len(requested))
	for _, it := range requested {
		if _, ok := present[it]; !ok {
			continue
		}
		if _, dup := seen[it]; dup {
			continue
		}
		seen[it] = struct{}{}
		s.Found = append(s.Found, it)
	}
	return s
}
