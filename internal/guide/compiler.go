package guide

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Danejw/viewbait-tourkit/internal/config"
	"github.com/Danejw/viewbait-tourkit/internal/tourmap"
)

// Compiler turns guide text into a TourFile. Compilation is a pure function
// of (guide text, fragments, config, map): it writes nothing and touches no
// browser.
type Compiler struct {
	Config       *config.Config
	Map          *tourmap.Map // nil skips anchor validation with a warning
	FragmentsDir string
	Logger       *slog.Logger
}

// parsedStep pairs a step with the source line it came from, so batch
// validation can point at the author's file and line.
type parsedStep struct {
	Step Step
	Src  sourceLine
}

// CompileFile compiles the guide at path. The tour id is the guide's base
// filename without extension.
func (c *Compiler) CompileFile(path string) (*TourFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	base := filepath.Base(path)
	tourID := strings.TrimSuffix(base, filepath.Ext(base))
	return c.Compile(tourID, base, string(data))
}

// Compile parses, expands, and validates one guide. The first error stage
// that trips wins: a malformed line aborts immediately with a CompileError;
// unknown identifiers are collected across the whole guide and returned
// together as ValidationErrors.
func (c *Compiler) Compile(tourID, file, src string) (*TourFile, error) {
	lines, err := expand(file, src, c.FragmentsDir)
	if err != nil {
		return nil, err
	}

	var steps []parsedStep
	for _, sl := range lines {
		if skippable(sl.Text) {
			continue
		}
		step, err := parseLine(sl)
		if err != nil {
			return nil, err
		}
		steps = append(steps, parsedStep{Step: step, Src: sl})
	}

	steps = c.injectIntro(tourID, steps)

	if errs := c.validate(steps); len(errs) > 0 {
		return nil, errs
	}

	tour := &TourFile{TourID: tourID, Steps: make([]Step, len(steps))}
	for i, ps := range steps {
		tour.Steps[i] = ps.Step
	}
	return tour, nil
}

// injectIntro prepends a narration step when the tour does not already open
// with one. Every tour starts with spoken context.
func (c *Compiler) injectIntro(tourID string, steps []parsedStep) []parsedStep {
	if len(steps) > 0 && steps[0].Step.Kind == KindNarration {
		return steps
	}
	intro := parsedStep{Step: Step{Kind: KindNarration, Text: c.Config.IntroNarration(tourID)}}
	return append([]parsedStep{intro}, steps...)
}

// Encode serializes the tour as formatted JSON with a trailing newline.
// Output is byte-deterministic for identical inputs.
func (t *TourFile) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func (c *Compiler) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}
