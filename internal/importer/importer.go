// Package importer performs the one-shot bulk load of an event
// definition file into the store.
package importer

import (
	"encoding/json"
	"fmt"
	"os"

	"loreline/internal/store"
	"loreline/internal/timeline"
)

// Load reads and decodes a JSON array of event definitions. Array
// fields arrive in native sequence form; source may be a single string
// or an array of strings. Every era label is checked before anything is
// written.
func Load(path string) ([]timeline.Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read event data: %w", err)
	}

	var events []timeline.Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("parse event data: %w", err)
	}

	for i := range events {
		e := &events[i]
		if e.ID == "" {
			return nil, fmt.Errorf("event %d: missing id", i)
		}
		if _, err := timeline.ParseEra(string(e.Era)); err != nil {
			return nil, fmt.Errorf("event %s: %w", e.ID, err)
		}
	}

	return events, nil
}

// Run loads the definition file and writes the whole batch in one
// transaction. A failure anywhere leaves the store untouched. Returns
// the number of records processed.
func Run(s *store.Store, path string) (int, error) {
	events, err := Load(path)
	if err != nil {
		return 0, err
	}

	n, err := s.ImportBatch(events)
	if err != nil {
		return 0, fmt.Errorf("import batch: %w", err)
	}

	return n, nil
}
