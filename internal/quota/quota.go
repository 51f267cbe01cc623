package quota

import "time"

// Alert classifies how much of the daily budget a run has spent
type Alert int

const (
	AlertNormal   Alert = iota // below 70% of budget
	AlertWarning               // 70% to 90%
	AlertCritical              // 90% and above
)

func (a Alert) String() string {
	switch a {
	case AlertWarning:
		return "warning"
	case AlertCritical:
		return "critical"
	default:
		return "normal"
	}
}

// Entry records one accounted API call group
type Entry struct {
	Kind  string    `json:"kind"`
	Count int       `json:"count"`
	Units int       `json:"units"`
	At    time.Time `json:"at"`
}

// Tracker accounts API cost units against a daily budget.
// It lives for a single run and is summarized into the run log;
// it is not safe for concurrent use (one run, one accountant).
type Tracker struct {
	budget  int
	costs   map[string]int
	used    int
	calls   int
	entries []Entry
}

// NewTracker creates a Tracker with the given daily budget and
// per-operation cost table
func NewTracker(budget int, costs map[string]int) *Tracker {
	return &Tracker{
		budget: budget,
		costs:  costs,
	}
}

// Record accounts count calls of the given operation kind.
// Unknown kinds cost 1 unit per call.
func (t *Tracker) Record(kind string, count int) {
	if count <= 0 {
		return
	}
	cost, ok := t.costs[kind]
	if !ok {
		cost = 1
	}
	units := cost * count
	t.used += units
	t.calls += count
	t.entries = append(t.entries, Entry{
		Kind:  kind,
		Count: count,
		Units: units,
		At:    time.Now(),
	})
}

// Used returns the total cost units spent so far
func (t *Tracker) Used() int {
	return t.used
}

// Calls returns the total number of API calls recorded
func (t *Tracker) Calls() int {
	return t.calls
}

// Budget returns the daily budget the tracker accounts against
func (t *Tracker) Budget() int {
	return t.budget
}

// Entries returns the per-call ledger in recording order
func (t *Tracker) Entries() []Entry {
	return t.entries
}

// UsedFraction returns the spent share of the budget
func (t *Tracker) UsedFraction() float64 {
	if t.budget <= 0 {
		return 0
	}
	return float64(t.used) / float64(t.budget)
}

// AlertLevel maps the spent share onto an alert level. It only
// drives logging; it never blocks execution.
func (t *Tracker) AlertLevel() Alert {
	f := t.UsedFraction()
	switch {
	case f >= 0.90:
		return AlertCritical
	case f >= 0.70:
		return AlertWarning
	default:
		return AlertNormal
	}
}
