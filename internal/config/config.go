// Package config loads the static contract vocabulary shared by the
// compiler, the map crawler, and the runtime: the set of navigable routes,
// the set of lifecycle event names, and the narration overrides.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Route is one navigable target of the host application.
type Route struct {
	Key  string `json:"routeKey"`
	Path string `json:"path"`
}

// Event is one lifecycle signal the host application may emit.
type Event struct {
	Name string `json:"name"`
}

// Narration holds the intro-narration override table. Every compiled tour
// must open with a narration step; tours without one get the override for
// their id, or Default when no override exists.
type Narration struct {
	Default string            `yaml:"default"`
	Tours   map[string]string `yaml:"tours"`
}

// LoginAnchors names the anchors the crawler drives to authenticate. Hosts
// whose login form uses other anchor tokens override them in tourkit.yaml.
type LoginAnchors struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Submit   string `yaml:"submit"`
}

// Config is the merged static configuration.
type Config struct {
	Routes    []Route
	Events    []Event
	Narration Narration

	// AuthRouteKey names the route that hosts the login form. The crawler
	// uses it both to log in and to detect silent auth redirects.
	AuthRouteKey string
	Login        LoginAnchors
}

// Contract constants shared with the host application.
const (
	// AnchorAttr is the DOM attribute carrying an element's anchor token.
	AnchorAttr = "data-tour"
	// AnchorPrefix namespaces every anchor token.
	AnchorPrefix = "tour."
	// EventPrefix namespaces lifecycle event names. Events share the anchor
	// prefix but are a distinct kind and never count as anchors.
	EventPrefix = "tour.event."
	// TourModeParam is the query flag asking the host app to suppress
	// destructive side effects during automated traversal. Enforcement is
	// the host's responsibility.
	TourModeParam = "tourMode=1"
)

const fallbackNarration = "Welcome! Let's take a quick look around."

type routesFile struct {
	Routes []Route `json:"routes"`
}

type eventsFile struct {
	Events []Event `json:"events"`
}

type settingsFile struct {
	AuthRouteKey string       `yaml:"authRouteKey"`
	Login        LoginAnchors `yaml:"loginAnchors"`
	Narration    Narration    `yaml:"narration"`
}

// Load reads routes.json and events.json from dir, plus the optional
// tourkit.yaml settings file. A missing settings file is not an error.
func Load(dir string) (*Config, error) {
	cfg := &Config{
		AuthRouteKey: "login",
		Login: LoginAnchors{
			Email:    "tour.auth.form.input.email",
			Password: "tour.auth.form.input.password",
			Submit:   "tour.auth.form.btn.submit",
		},
	}

	var rf routesFile
	if err := readJSON(filepath.Join(dir, "routes.json"), &rf); err != nil {
		return nil, err
	}
	cfg.Routes = rf.Routes

	var ef eventsFile
	if err := readJSON(filepath.Join(dir, "events.json"), &ef); err != nil {
		return nil, err
	}
	cfg.Events = ef.Events

	data, err := os.ReadFile(filepath.Join(dir, "tourkit.yaml"))
	if err == nil {
		var sf settingsFile
		if err := yaml.Unmarshal(data, &sf); err != nil {
			return nil, fmt.Errorf("parse tourkit.yaml: %w", err)
		}
		if sf.AuthRouteKey != "" {
			cfg.AuthRouteKey = sf.AuthRouteKey
		}
		if sf.Login.Email != "" {
			cfg.Login.Email = sf.Login.Email
		}
		if sf.Login.Password != "" {
			cfg.Login.Password = sf.Login.Password
		}
		if sf.Login.Submit != "" {
			cfg.Login.Submit = sf.Login.Submit
		}
		cfg.Narration = sf.Narration
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read tourkit.yaml: %w", err)
	}

	if cfg.Narration.Default == "" {
		cfg.Narration.Default = fallbackNarration
	}

	return cfg, nil
}

func readJSON(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

// RouteKeys returns all configured route keys, sorted.
func (c *Config) RouteKeys() []string {
	keys := make([]string, 0, len(c.Routes))
	for _, r := range c.Routes {
		keys = append(keys, r.Key)
	}
	sort.Strings(keys)
	return keys
}

// EventNames returns all configured event names, sorted.
func (c *Config) EventNames() []string {
	names := make([]string, 0, len(c.Events))
	for _, e := range c.Events {
		names = append(names, e.Name)
	}
	sort.Strings(names)
	return names
}

// RoutePath resolves a route key to its path.
func (c *Config) RoutePath(key string) (string, bool) {
	for _, r := range c.Routes {
		if r.Key == key {
			return r.Path, true
		}
	}
	return "", false
}

// IntroNarration returns the intro message for a tour: the per-tour
// override if one exists, the configured default otherwise.
func (c *Config) IntroNarration(tourID string) string {
	if msg, ok := c.Narration.Tours[tourID]; ok {
		return msg
	}
	return c.Narration.Default
}
