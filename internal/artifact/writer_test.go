package artifact

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 640, 360))
	for x := 0; x < 640; x++ {
		img.Set(x, 180, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestSaveScreenshot_WritesImageAndThumbnail(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	if err != nil {
		t.Fatal(err)
	}

	if err := w.SaveScreenshot("dashboard-start", testPNG(t)); err != nil {
		t.Fatal(err)
	}

	full := filepath.Join(dir, "screenshots", "dashboard-start.png")
	thumb := filepath.Join(dir, "screenshots", "thumbs", "dashboard-start.png")
	for _, path := range []string{full, thumb} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("missing %s: %v", path, err)
		}
	}

	// Thumbnail is downscaled to the fixed width.
	f, err := os.Open(thumb)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfgImg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatal(err)
	}
	if cfgImg.Width != thumbWidth {
		t.Errorf("thumbnail width = %d, want %d", cfgImg.Width, thumbWidth)
	}
}

func TestWriteTranscript(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	if err != nil {
		t.Fatal(err)
	}

	w.AddNarration("Welcome to the dashboard.")
	w.AddNarration("Here is the gallery.")
	if err := w.SaveScreenshot("gallery", testPNG(t)); err != nil {
		t.Fatal(err)
	}
	w.AddAnnotation("gallery", "circle the first card")

	if err := w.WriteTranscript("onboarding"); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "transcript.md"))
	if err != nil {
		t.Fatal(err)
	}
	md := string(data)
	for _, want := range []string{
		"# onboarding",
		"Welcome to the dashboard.",
		"Here is the gallery.",
		"screenshots/thumbs/gallery.png",
		"annotate gallery: circle the first card",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("transcript missing %q:\n%s", want, md)
		}
	}
}

func TestWriteTrace(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	if err != nil {
		t.Fatal(err)
	}
	w.AddAnnotation("", "note for later")

	trace := &Trace{
		TourID:     "onboarding",
		StartedAt:  time.Now().UTC(),
		FinishedAt: time.Now().UTC(),
		Status:     "failed",
		Steps: []StepTrace{
			{Index: 0, Type: "narration", Status: "ok", DurationMs: 1},
			{Index: 1, Type: "click", Status: "failed", FailureClass: "element-not-found", Error: "anchor tour.x.y.z: not found"},
		},
	}
	if err := w.WriteTrace(trace); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "trace.json"))
	if err != nil {
		t.Fatal(err)
	}
	var got Trace
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got.Status != "failed" || len(got.Steps) != 2 {
		t.Errorf("trace = %+v", got)
	}
	if got.Steps[1].FailureClass != "element-not-found" {
		t.Errorf("failure class = %q", got.Steps[1].FailureClass)
	}
	if len(got.Annotations) != 1 {
		t.Errorf("annotations = %v, want the writer's annotations folded in", got.Annotations)
	}
}
