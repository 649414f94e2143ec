package timeline

import "strings"

// Filters holds the client's current search criteria.
type Filters struct {
	SearchTerm   string
	SelectedEras map[Era]bool
}

// DefaultFilters selects every era with an empty search term, so the
// initial view is the full catalog.
func DefaultFilters() Filters {
	selected := make(map[Era]bool, 5)
	for _, e := range Eras() {
		selected[e] = true
	}
	return Filters{SelectedEras: selected}
}

// Match reports whether the event passes the current criteria: the
// search term (case-insensitive substring of title, any character,
// location, or summary; empty term matches everything) AND era
// membership.
func (f Filters) Match(e Event) bool {
	if !f.SelectedEras[e.Era] {
		return false
	}
	term := strings.ToLower(f.SearchTerm)
	if term == "" {
		return true
	}
	if strings.Contains(strings.ToLower(e.Title), term) {
		return true
	}
	for _, c := range e.Characters {
		if strings.Contains(strings.ToLower(c), term) {
			return true
		}
	}
	if strings.Contains(strings.ToLower(e.Location), term) {
		return true
	}
	return strings.Contains(strings.ToLower(e.Summary), term)
}

// Apply returns a new slice of the events passing the filter,
// preserving input order. It always scans the full set; no memoization.
func (f Filters) Apply(events []Event) []Event {
	out := make([]Event, 0, len(events))
	for _, e := range events {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	return out
}
