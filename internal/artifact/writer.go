// Package artifact persists run outputs: screenshots, the narration
// transcript, annotation notes, and the step trace. Screenshots hit disk the
// moment they are captured so a failing run still leaves everything taken so
// far behind.
package artifact

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"time"

	"github.com/nfnt/resize"
)

const thumbWidth = 320

// Annotation is a bookkeeping instruction for a downstream process to mark
// up a prior screenshot. No browser action is involved.
type Annotation struct {
	Target       string `json:"target,omitempty"`
	Instructions string `json:"instructions"`
}

// StepTrace records one executed step's outcome.
type StepTrace struct {
	Index        int    `json:"index"`
	Type         string `json:"type"`
	Status       string `json:"status"` // "ok" or "failed"
	FailureClass string `json:"failureClass,omitempty"`
	Error        string `json:"error,omitempty"`
	DurationMs   int64  `json:"durationMs"`
}

// Trace is the full machine-readable run record.
type Trace struct {
	TourID      string       `json:"tourId"`
	StartedAt   time.Time    `json:"startedAt"`
	FinishedAt  time.Time    `json:"finishedAt"`
	Status      string       `json:"status"` // "passed" or "failed"
	Steps       []StepTrace  `json:"steps"`
	Annotations []Annotation `json:"annotations,omitempty"`
}

// Writer accumulates artifacts for one tour run under a single directory.
type Writer struct {
	dir         string
	shots       []string // screenshot names in capture order
	transcript  []string
	annotations []Annotation
}

// NewWriter creates the artifact directory tree for a run.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(filepath.Join(dir, "screenshots", "thumbs"), 0o755); err != nil {
		return nil, err
	}
	return &Writer{dir: dir}, nil
}

// Dir returns the run's artifact directory.
func (w *Writer) Dir() string {
	return w.dir
}

// SaveScreenshot writes a captured PNG immediately, plus a downscaled
// thumbnail for the transcript document.
func (w *Writer) SaveScreenshot(name string, data []byte) error {
	path := filepath.Join(w.dir, "screenshots", name+".png")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	w.shots = append(w.shots, name)

	// Thumbnail generation is cosmetic; a decode failure only costs the
	// transcript its preview image.
	if thumb, err := thumbnail(data); err == nil {
		thumbPath := filepath.Join(w.dir, "screenshots", "thumbs", name+".png")
		if err := os.WriteFile(thumbPath, thumb, 0o644); err != nil {
			return err
		}
	}
	return nil
}

// AddNarration appends a spoken line to the transcript.
func (w *Writer) AddNarration(text string) {
	w.transcript = append(w.transcript, text)
}

// AddAnnotation records a markup instruction for a named screenshot.
func (w *Writer) AddAnnotation(target, instructions string) {
	w.annotations = append(w.annotations, Annotation{Target: target, Instructions: instructions})
}

// Annotations returns everything recorded so far.
func (w *Writer) Annotations() []Annotation {
	return w.annotations
}

// WriteTranscript renders transcript.md: the narration in order, then a
// gallery of captured screenshots via their thumbnails.
func (w *Writer) WriteTranscript(tourID string) error {
	var b bytes.Buffer
	fmt.Fprintf(&b, "# %s\n\n", tourID)
	for _, line := range w.transcript {
		fmt.Fprintf(&b, "%s\n\n", line)
	}
	if len(w.shots) > 0 {
		b.WriteString("## Screenshots\n\n")
		for _, name := range w.shots {
			fmt.Fprintf(&b, "[![%s](screenshots/thumbs/%s.png)](screenshots/%s.png)\n\n", name, name, name)
		}
	}
	for _, a := range w.annotations {
		if a.Target != "" {
			fmt.Fprintf(&b, "> annotate %s: %s\n\n", a.Target, a.Instructions)
		} else {
			fmt.Fprintf(&b, "> annotate: %s\n\n", a.Instructions)
		}
	}
	return os.WriteFile(filepath.Join(w.dir, "transcript.md"), b.Bytes(), 0o644)
}

// WriteTrace persists the machine-readable run record.
func (w *Writer) WriteTrace(trace *Trace) error {
	trace.Annotations = w.annotations
	data, err := json.MarshalIndent(trace, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(w.dir, "trace.json"), append(data, '\n'), 0o644)
}

func thumbnail(pngData []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(pngData))
	if err != nil {
		return nil, err
	}
	small := resize.Resize(thumbWidth, 0, img, resize.Lanczos3)
	var out bytes.Buffer
	if err := png.Encode(&out, small); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
