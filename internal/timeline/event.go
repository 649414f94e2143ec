// Package timeline defines the event catalog's domain types: the Event
// record, the closed Era enum, and the polymorphic Source citation.
package timeline

import (
	"encoding/json"
	"fmt"
)

// Era is one of the five fixed narrative periods used to bucket events.
type Era string

const (
	// EraYearsOfTheTrees covers events before the first rising of the Sun.
	EraYearsOfTheTrees Era = "Years of the Trees"
	// EraFirstAge covers the wars against Morgoth.
	EraFirstAge Era = "First Age"
	// EraSecondAge covers Númenor and the forging of the Rings.
	EraSecondAge Era = "Second Age"
	// EraThirdAge covers the War of the Ring.
	EraThirdAge Era = "Third Age"
	// EraFourthAge covers the dominion of Men.
	EraFourthAge Era = "Fourth Age"
)

// Eras returns all five eras in chronological order.
func Eras() []Era {
	return []Era{EraYearsOfTheTrees, EraFirstAge, EraSecondAge, EraThirdAge, EraFourthAge}
}

// Valid reports whether e is one of the five fixed labels.
func (e Era) Valid() bool {
	switch e {
	case EraYearsOfTheTrees, EraFirstAge, EraSecondAge, EraThirdAge, EraFourthAge:
		return true
	}
	return false
}

// ParseEra converts a label to an Era. Unknown labels are a rejected
// input, not a crash.
func ParseEra(s string) (Era, error) {
	e := Era(s)
	if !e.Valid() {
		return "", fmt.Errorf("unknown era: %q", s)
	}
	return e, nil
}

// Source holds an event's citation in either its single-string or
// multi-citation form. Historical records differ in shape, so readers
// must accept both; the write API only accepts the single form.
type Source struct {
	Values []string
	// Multiple records whether the citation was an array on the wire.
	// A single citation round-trips as a bare string.
	Multiple bool
}

// SingleSource returns a single-citation Source.
func SingleSource(s string) Source {
	return Source{Values: []string{s}}
}

// MultiSource returns a multi-citation Source.
func MultiSource(ss ...string) Source {
	return Source{Values: ss, Multiple: true}
}

// MarshalJSON encodes the source in its original shape: a bare string
// for single citations, an array otherwise.
func (s Source) MarshalJSON() ([]byte, error) {
	if !s.Multiple && len(s.Values) == 1 {
		return json.Marshal(s.Values[0])
	}
	if s.Values == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s.Values)
}

// UnmarshalJSON tries the array shape first, then falls back to a
// scalar string.
func (s *Source) UnmarshalJSON(data []byte) error {
	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		s.Values = many
		s.Multiple = true
		return nil
	}
	var one string
	if err := json.Unmarshal(data, &one); err != nil {
		return fmt.Errorf("source is neither string nor string array: %w", err)
	}
	s.Values = []string{one}
	s.Multiple = false
	return nil
}

// Event is a single narrative occurrence, the sole domain entity.
type Event struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Era             Era      `json:"era"`
	Year            *int     `json:"year"`
	Characters      []string `json:"characters"`
	Location        string   `json:"location"`
	Summary         string   `json:"summary"`
	RelatedEventIDs []string `json:"relatedEventIds"`
	Source          Source   `json:"source"`
}

// Related resolves the event's related ids against the given set.
// Dangling references are skipped; a miss is a normal outcome, not an
// error.
func (e Event) Related(all []Event) []Event {
	byID := make(map[string]Event, len(all))
	for _, ev := range all {
		byID[ev.ID] = ev
	}
	var out []Event
	for _, id := range e.RelatedEventIDs {
		if ev, ok := byID[id]; ok {
			out = append(out, ev)
		}
	}
	return out
}
