package timeline

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestParseEra(t *testing.T) {
	for _, e := range Eras() {
		parsed, err := ParseEra(string(e))
		if err != nil {
			t.Errorf("ParseEra(%q) failed: %v", e, err)
		}
		if parsed != e {
			t.Errorf("ParseEra(%q) = %q", e, parsed)
		}
	}

	if _, err := ParseEra("Nonexistent Age"); err == nil {
		t.Error("expected error for unknown era")
	}
	if _, err := ParseEra(""); err == nil {
		t.Error("expected error for empty era")
	}
}

func TestErasOrder(t *testing.T) {
	want := []Era{EraYearsOfTheTrees, EraFirstAge, EraSecondAge, EraThirdAge, EraFourthAge}
	if !reflect.DeepEqual(Eras(), want) {
		t.Errorf("Eras() = %v", Eras())
	}
}

func TestSourceDecodeScalar(t *testing.T) {
	var s Source
	if err := json.Unmarshal([]byte(`"The Silmarillion"`), &s); err != nil {
		t.Fatalf("unmarshal scalar source: %v", err)
	}
	if s.Multiple {
		t.Error("scalar source decoded as multiple")
	}
	if !reflect.DeepEqual(s.Values, []string{"The Silmarillion"}) {
		t.Errorf("values = %v", s.Values)
	}

	out, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal source: %v", err)
	}
	if string(out) != `"The Silmarillion"` {
		t.Errorf("scalar source did not round-trip: %s", out)
	}
}

func TestSourceDecodeArray(t *testing.T) {
	var s Source
	if err := json.Unmarshal([]byte(`["The Silmarillion","Unfinished Tales"]`), &s); err != nil {
		t.Fatalf("unmarshal array source: %v", err)
	}
	if !s.Multiple {
		t.Error("array source decoded as scalar")
	}

	out, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal source: %v", err)
	}
	if string(out) != `["The Silmarillion","Unfinished Tales"]` {
		t.Errorf("array source did not round-trip: %s", out)
	}
}

func TestSourceDecodeInvalid(t *testing.T) {
	var s Source
	if err := json.Unmarshal([]byte(`42`), &s); err == nil {
		t.Error("expected error for numeric source")
	}
}

func TestEventJSONShape(t *testing.T) {
	e := Event{
		ID:              "1",
		Title:           "Creation of Arda",
		Era:             EraYearsOfTheTrees,
		Characters:      []string{"Eru Ilúvatar", "The Valar"},
		Location:        "The Void",
		Summary:         "The world is sung into being.",
		RelatedEventIDs: []string{"2"},
		Source:          SingleSource("The Silmarillion"),
	}

	data, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("marshal event: %v", err)
	}

	var wire map[string]any
	if err := json.Unmarshal(data, &wire); err != nil {
		t.Fatalf("unmarshal wire form: %v", err)
	}

	// Arrays go over the wire as arrays, not serialized strings.
	if _, ok := wire["characters"].([]any); !ok {
		t.Errorf("characters is not a JSON array: %T", wire["characters"])
	}
	if _, ok := wire["relatedEventIds"].([]any); !ok {
		t.Errorf("relatedEventIds is not a JSON array: %T", wire["relatedEventIds"])
	}
	// Absent year is explicit null, not omitted.
	if v, ok := wire["year"]; !ok || v != nil {
		t.Errorf("year should be present and null, got %v (present=%v)", v, ok)
	}
	if wire["era"] != "Years of the Trees" {
		t.Errorf("era label mismatch: %v", wire["era"])
	}
}

func TestRelatedResolvesAndSkipsDangling(t *testing.T) {
	all := []Event{
		{ID: "1", RelatedEventIDs: []string{"2", "missing", "3"}},
		{ID: "2", RelatedEventIDs: []string{"1"}},
		{ID: "3"},
	}

	related := all[0].Related(all)
	if len(related) != 2 {
		t.Fatalf("expected 2 resolved events, got %d", len(related))
	}
	if related[0].ID != "2" || related[1].ID != "3" {
		t.Errorf("resolution order wrong: %v", related)
	}
}
