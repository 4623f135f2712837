package crawler

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFilterAnchorTokens(t *testing.T) {
	tokens := []string{
		"tour.dashboard.header.btn.new",
		"tour.dashboard.header.btn.new", // duplicate
		"tour.event.generate.completed", // event namespace, not an anchor
		"tour.auth.form.input.email",
		"tour.justone", // too few segments
		"  tour.gallery.card.item  ",
		"",
	}
	want := []string{
		"tour.auth.form.input.email",
		"tour.dashboard.header.btn.new",
		"tour.gallery.card.item",
	}
	got := FilterAnchorTokens(tokens)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tokens mismatch:\n%s", diff)
	}
}

func TestFillPathParams(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/dashboard", "/dashboard"},
		{"/editor/:id", "/editor/demo"},
		{"/editor/[id]", "/editor/demo"},
		{"/org/[orgId]/video/[videoId]", "/org/demo/video/demo"},
	}
	for _, tt := range tests {
		if got := FillPathParams(tt.path); got != tt.want {
			t.Errorf("FillPathParams(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestTourURL(t *testing.T) {
	tests := []struct {
		base, path string
		want       string
	}{
		{"http://localhost:3000", "/dashboard", "http://localhost:3000/dashboard?tourMode=1"},
		{"http://localhost:3000/", "/dashboard", "http://localhost:3000/dashboard?tourMode=1"},
		{"http://localhost:3000", "/gallery?sort=new", "http://localhost:3000/gallery?sort=new&tourMode=1"},
	}
	for _, tt := range tests {
		if got := TourURL(tt.base, tt.path); got != tt.want {
			t.Errorf("TourURL(%q, %q) = %q, want %q", tt.base, tt.path, got, tt.want)
		}
	}
}

func TestAnchorSelector(t *testing.T) {
	got := AnchorSelector("tour.auth.form.btn.submit")
	want := `[data-tour="tour.auth.form.btn.submit"]`
	if got != want {
		t.Errorf("AnchorSelector = %q, want %q", got, want)
	}
}
