package spot

import "sync"

// Reducer merges raw observations into a deduplicated quote set while
// tracking the running minimum. A Reducer belongs to a single collection run;
// Merge is safe for concurrent use.
type Reducer struct {
	mu      sync.Mutex
	quotes  map[QuoteKey]Quote
	order   []QuoteKey
	minimum Minimum
}

// NewReducer returns an empty reducer.
func NewReducer() *Reducer {
	return &Reducer{quotes: make(map[QuoteKey]Quote)}
}

// Merge folds one region's observations into the reducer as a single step.
//
// A stored quote is only replaced by a strictly newer observation for the
// same key. The minimum is updated as each observation is accepted and always
// names a quote that is still held.
func (r *Reducer) Merge(observations []Quote) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, q := range observations {
		key := q.Key()
		cur, ok := r.quotes[key]
		switch {
		case !ok:
			r.quotes[key] = q
			r.order = append(r.order, key)
		case q.ObservedAt.After(cur.ObservedAt):
			r.quotes[key] = q
			if r.holdsMinimum(cur) && q.Price.GreaterThan(cur.Price) {
				// the cheapest quote went stale; fall back to a full scan
				r.rescan()
				continue
			}
		default:
			continue
		}
		r.observe(q)
	}
}

func (r *Reducer) observe(q Quote) {
	if !r.minimum.Found || q.Price.LessThan(r.minimum.Price) {
		r.minimum = Minimum{Price: q.Price, Zone: q.Zone, Found: true}
	}
}

func (r *Reducer) holdsMinimum(q Quote) bool {
	return r.minimum.Found && r.minimum.Zone == q.Zone && r.minimum.Price.Equal(q.Price)
}

func (r *Reducer) rescan() {
	r.minimum = Minimum{}
	for _, key := range r.order {
		r.observe(r.quotes[key])
	}
}

// Quotes returns the surviving quotes in first-encounter order.
func (r *Reducer) Quotes() []Quote {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Quote, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.quotes[key])
	}
	return out
}

// Minimum returns the cheapest quote merged so far.
func (r *Reducer) Minimum() Minimum {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.minimum
}

// Len returns the number of distinct keys held.
func (r *Reducer) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.order)
}
