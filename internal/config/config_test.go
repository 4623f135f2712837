package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeTestConfig(t *testing.T, withSettings bool) string {
	t.Helper()
	dir := t.TempDir()

	routes := `{"routes": [
		{"routeKey": "dashboard", "path": "/dashboard"},
		{"routeKey": "auth", "path": "/auth/login"},
		{"routeKey": "editor", "path": "/editor/[id]"}
	]}`
	events := `{"events": [
		{"name": "tour.event.route.ready"},
		{"name": "tour.event.generate.completed"}
	]}`
	if err := os.WriteFile(filepath.Join(dir, "routes.json"), []byte(routes), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "events.json"), []byte(events), 0o644); err != nil {
		t.Fatal(err)
	}

	if withSettings {
		settings := `authRouteKey: auth
loginAnchors:
  email: tour.signin.input.email
  submit: tour.signin.btn.go
narration:
  default: "Hello from the tour."
  tours:
    onboarding: "Welcome aboard."
`
		if err := os.WriteFile(filepath.Join(dir, "tourkit.yaml"), []byte(settings), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeTestConfig(t, true))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	wantKeys := []string{"auth", "dashboard", "editor"}
	if diff := cmp.Diff(wantKeys, cfg.RouteKeys()); diff != "" {
		t.Errorf("RouteKeys mismatch:\n%s", diff)
	}

	wantEvents := []string{"tour.event.generate.completed", "tour.event.route.ready"}
	if diff := cmp.Diff(wantEvents, cfg.EventNames()); diff != "" {
		t.Errorf("EventNames mismatch:\n%s", diff)
	}

	if cfg.AuthRouteKey != "auth" {
		t.Errorf("AuthRouteKey = %q, want auth", cfg.AuthRouteKey)
	}

	path, ok := cfg.RoutePath("editor")
	if !ok || path != "/editor/[id]" {
		t.Errorf("RoutePath(editor) = %q, %v", path, ok)
	}
	if _, ok := cfg.RoutePath("nope"); ok {
		t.Error("RoutePath must report unknown keys")
	}

	// Overridden login anchors replace only the named fields.
	wantLogin := LoginAnchors{
		Email:    "tour.signin.input.email",
		Password: "tour.auth.form.input.password",
		Submit:   "tour.signin.btn.go",
	}
	if diff := cmp.Diff(wantLogin, cfg.Login); diff != "" {
		t.Errorf("Login mismatch:\n%s", diff)
	}
}

func TestLoad_WithoutSettingsFile(t *testing.T) {
	cfg, err := Load(writeTestConfig(t, false))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.AuthRouteKey != "login" {
		t.Errorf("AuthRouteKey = %q, want the login default", cfg.AuthRouteKey)
	}
	if cfg.Narration.Default == "" {
		t.Error("a fallback intro narration must always exist")
	}
	wantLogin := LoginAnchors{
		Email:    "tour.auth.form.input.email",
		Password: "tour.auth.form.input.password",
		Submit:   "tour.auth.form.btn.submit",
	}
	if diff := cmp.Diff(wantLogin, cfg.Login); diff != "" {
		t.Errorf("default Login mismatch:\n%s", diff)
	}
}

func TestIntroNarration(t *testing.T) {
	cfg, err := Load(writeTestConfig(t, true))
	if err != nil {
		t.Fatal(err)
	}
	if got := cfg.IntroNarration("onboarding"); got != "Welcome aboard." {
		t.Errorf("override = %q", got)
	}
	if got := cfg.IntroNarration("anything-else"); got != "Hello from the tour." {
		t.Errorf("default = %q", got)
	}
}

func TestLoad_MissingRoutes(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "events.json"), []byte(`{"events": []}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(dir); err == nil {
		t.Fatal("expected error when routes.json is missing")
	}
}
