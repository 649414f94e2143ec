// Package cache holds the client's session-scoped copy of the event
// catalog: fetched once per session, filtered locally, never written
// back.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"loreline/internal/timeline"
)

// Cache is the in-memory event set and the current filter criteria.
// The filtered view is recomputed from the full set on every change;
// nothing is memoized.
type Cache struct {
	apiBase string
	client  *http.Client

	mu      sync.RWMutex
	all     []timeline.Event
	filters timeline.Filters
	loaded  bool
}

// New creates a Cache against the given API base URL, e.g.
// "http://localhost:3000".
func New(apiBase string) *Cache {
	return &Cache{
		apiBase: apiBase,
		client:  http.DefaultClient,
		filters: timeline.DefaultFilters(),
	}
}

// Load fetches the full event set. It is called once per session; on
// failure the set stays empty and the error is reported to the caller.
// No automatic retry.
func (c *Cache) Load(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiBase+"/api/events", nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch events: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch events: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read events: %w", err)
	}

	var events []timeline.Event
	if err := json.Unmarshal(body, &events); err != nil {
		return fmt.Errorf("parse events: %w", err)
	}

	c.mu.Lock()
	c.all = events
	c.loaded = true
	c.mu.Unlock()
	return nil
}

// Loaded reports whether the initial fetch succeeded.
func (c *Cache) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// SetSearchTerm updates the search criterion.
func (c *Cache) SetSearchTerm(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters.SearchTerm = term
}

// SetEra toggles an era's membership in the selected set.
func (c *Cache) SetEra(era timeline.Era, selected bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters.SelectedEras[era] = selected
}

// EraSelected reports whether an era is currently selected.
func (c *Cache) EraSelected(era timeline.Era) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filters.SelectedEras[era]
}

// Events returns the current filtered view, recomputed over the full
// set.
func (c *Cache) Events() []timeline.Event {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.filters.Apply(c.all)
}

// Len returns the size of the full (unfiltered) set.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.all)
}

// Resolve looks an id up in the full set. A miss (dangling related-id)
// is a normal outcome, not an error.
func (c *Cache) Resolve(id string) (timeline.Event, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, e := range c.all {
		if e.ID == id {
			return e, true
		}
	}
	return timeline.Event{}, false
}
