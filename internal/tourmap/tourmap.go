// Package tourmap models the crawled inventory of anchors per route. The
// map is the authoritative answer to "does this anchor currently exist" and
// goes stale as the app evolves, so it carries its generation timestamp.
package tourmap

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"
)

// StaticScanRoute is the pseudo-route holding anchors found by scanning
// source text rather than rendered pages.
const StaticScanRoute = "_static-scan"

// RouteAnchors is the crawl result for one route.
type RouteAnchors struct {
	Path          string   `json:"path"`
	Anchors       []string `json:"anchors"`
	SkippedReason string   `json:"skippedReason,omitempty"`
}

// Map is the crawler's output and the compiler's validation input.
type Map struct {
	GeneratedAt time.Time               `json:"generatedAt"`
	Routes      map[string]RouteAnchors `json:"routes"`
	Events      []string                `json:"events"`
}

// Load reads a tour map from path.
func Load(path string) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Map
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &m, nil
}

// Save writes the map as formatted JSON.
func (m *Map) Save(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// AnchorSet flattens every route's anchors (static scan included) into one
// lookup set.
func (m *Map) AnchorSet() map[string]bool {
	set := make(map[string]bool)
	for _, route := range m.Routes {
		for _, a := range route.Anchors {
			set[a] = true
		}
	}
	return set
}

// AllAnchors returns the deduplicated, sorted union of every route's anchors.
func (m *Map) AllAnchors() []string {
	set := m.AnchorSet()
	anchors := make([]string, 0, len(set))
	for a := range set {
		anchors = append(anchors, a)
	}
	sort.Strings(anchors)
	return anchors
}
