package reconcile

import "github.com/schaermu/envvar/internal/snapshot"

// Disposition is the action chosen for one snapshot entry
type Disposition int

const (
	// New creates a variable that does not exist yet
	New Disposition = iota
	// Overwrite replaces an existing value
	Overwrite
	// ListMutate adds the value to an existing delimiter-separated list
	ListMutate
	// Ignore leaves an existing variable untouched
	Ignore
)

// Dispositions lists every disposition in preview order
var Dispositions = []Disposition{New, Overwrite, ListMutate, Ignore}

func (d Disposition) String() string {
	switch d {
	case New:
		return "new"
	case Overwrite:
		return "overwrite"
	case ListMutate:
		return "list"
	case Ignore:
		return "ignore"
	default:
		return "unknown"
	}
}

// Item is a snapshot entry with its computed disposition
type Item struct {
	Entry       snapshot.Entry
	Disposition Disposition
}

// Plan holds every entry of a snapshot, classified, in snapshot order
type Plan struct {
	Items []Item
}

// Classify decides what to do with e given the current store state. The
// checks run in a fixed order, so an overwrite request wins over list
// semantics.
func Classify(e snapshot.Entry, state map[string]string) Disposition {
	if _, exists := state[e.Key]; !exists {
		return New
	}
	if e.Overwrite {
		return Overwrite
	}
	if e.IsList() {
		return ListMutate
	}
	return Ignore
}

// BuildPlan classifies every entry of s against state
func BuildPlan(s *snapshot.Snapshot, state map[string]string) *Plan {
	plan := &Plan{Items: make([]Item, 0, len(s.Entries))}
	for _, e := range s.Entries {
		plan.Items = append(plan.Items, Item{Entry: e, Disposition: Classify(e, state)})
	}
	return plan
}

// Group returns the entries with disposition d, in snapshot order
func (p *Plan) Group(d Disposition) []snapshot.Entry {
	var out []snapshot.Entry
	for _, it := range p.Items {
		if it.Disposition == d {
			out = append(out, it.Entry)
		}
	}
	return out
}

// Counts returns the number of entries per disposition
func (p *Plan) Counts() map[Disposition]int {
	counts := make(map[Disposition]int, len(Dispositions))
	for _, it := range p.Items {
		counts[it.Disposition]++
	}
	return counts
}

// Mutations returns how many entries the apply step would touch
func (p *Plan) Mutations() int {
	n := 0
	for _, it := range p.Items {
		if it.Disposition != Ignore {
			n++
		}
	}
	return n
}
