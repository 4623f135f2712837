// Package guide compiles plain-text walkthrough scripts into validated,
// machine-executable tour files.
//
// A guide is line-oriented: one directive per line, blank lines and lines
// starting with # ignored. A directive may carry " |"-delimited modifier
// clauses (predelay, narration, capture, annotate) that attach cross-cutting
// metadata to the step. The delimiter has no escape form, so a literal
// " |" inside a narration or fill value cannot be expressed.
package guide

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// CompileError reports a malformed guide line. It is fatal: compilation
// aborts immediately and no tour file is written.
type CompileError struct {
	File   string
	Line   int
	Text   string
	Reason string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s:%d: %s: %q", e.File, e.Line, e.Reason, e.Text)
}

// sourceLine keeps file attribution through fragment expansion so errors
// point at the line the author actually wrote.
type sourceLine struct {
	File string
	Num  int
	Text string
}

var (
	narrationRe  = regexp.MustCompile(`^(?:Narration|Say):\s*(.+)$`)
	gotoRe       = regexp.MustCompile(`^Goto\s+routeKey:\s*(\S+)$`)
	clickRe      = regexp.MustCompile(`^Click\s+(.+?)\s*\(([^)]+)\)$`)
	fillRe       = regexp.MustCompile(`^Fill\s+(.+?)\s*\(([^)]+)\)\s+(value|env):(.+)$`)
	waitForRe    = regexp.MustCompile(`^Wait\s+for\s+(.+?)\s*\(([^)]+)\)(?:\s+timeout:(\d+))?$`)
	expectRe     = regexp.MustCompile(`^Expect\s+visible\s+(.+?)\s*\(([^)]+)\)(?:\s+timeout:(\d+))?$`)
	waitMsRe     = regexp.MustCompile(`^Wait\s+(\d+)ms$`)
	screenshotRe = regexp.MustCompile(`^(?:Screenshot|Snapshot)\s+(.+?)\s+name:(\S+)(?:\s+fullPage:(true|false))?$`)
	annotateRe   = regexp.MustCompile(`^Annotate\s+(.+?)(?:\s+target:(\S+))?\s+instructions:(.+)$`)
	includeRe    = regexp.MustCompile(`^Include\s+fragment:\s*(\S+)$`)

	predelayModRe  = regexp.MustCompile(`^predelay:(\d+)$`)
	narrationModRe = regexp.MustCompile(`^narration:"(.*)"$`)
	captureModRe   = regexp.MustCompile(`^capture:(before|after):([A-Za-z0-9._-]+)(?::fullPage=(true|false))?$`)
	annotateModRe  = regexp.MustCompile(`^annotate:"(.*)"$`)
)

// skippable reports whether a raw line carries no directive at all.
func skippable(text string) bool {
	trimmed := strings.TrimSpace(text)
	return trimmed == "" || strings.HasPrefix(trimmed, "#")
}

// includeTarget extracts the fragment name from an Include directive, if the
// line is one.
func includeTarget(text string) (string, bool) {
	m := includeRe.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return "", false
	}
	return m[1], true
}

// parseLine turns one non-skippable, non-include line into a Step. Any line
// matching none of the recognized directive forms is a CompileError.
func parseLine(sl sourceLine) (Step, error) {
	base := strings.TrimSpace(sl.Text)

	// Modifier clauses are parsed independently of the base directive.
	var mods []string
	if idx := strings.Index(base, " |"); idx >= 0 {
		for _, clause := range strings.Split(base[idx:], " |")[1:] {
			mods = append(mods, strings.TrimSpace(clause))
		}
		base = strings.TrimSpace(base[:idx])
	}

	step, err := parseDirective(base)
	if err != nil {
		return Step{}, &CompileError{File: sl.File, Line: sl.Num, Text: sl.Text, Reason: err.Error()}
	}

	for _, mod := range mods {
		if err := applyModifier(&step, mod); err != nil {
			return Step{}, &CompileError{File: sl.File, Line: sl.Num, Text: sl.Text, Reason: err.Error()}
		}
	}

	return step, nil
}

func parseDirective(base string) (Step, error) {
	switch {
	case narrationRe.MatchString(base):
		m := narrationRe.FindStringSubmatch(base)
		return Step{Kind: KindNarration, Text: strings.TrimSpace(m[1])}, nil

	case gotoRe.MatchString(base):
		m := gotoRe.FindStringSubmatch(base)
		return Step{Kind: KindGoto, RouteKey: m[1]}, nil

	case fillRe.MatchString(base):
		m := fillRe.FindStringSubmatch(base)
		step := Step{Kind: KindFill, Label: m[1], Anchor: m[2]}
		if m[3] == "env" {
			step.EnvVar = strings.TrimSpace(m[4])
		} else {
			step.Value = m[4]
		}
		return step, nil

	case clickRe.MatchString(base):
		m := clickRe.FindStringSubmatch(base)
		return Step{Kind: KindClick, Label: m[1], Anchor: m[2]}, nil

	case waitForRe.MatchString(base):
		m := waitForRe.FindStringSubmatch(base)
		step := Step{Kind: KindWaitForEvent, Label: m[1], Name: m[2], TimeoutMs: DefaultTimeoutMs}
		if m[3] != "" {
			step.TimeoutMs, _ = strconv.Atoi(m[3])
		}
		return step, nil

	case expectRe.MatchString(base):
		m := expectRe.FindStringSubmatch(base)
		step := Step{Kind: KindExpectVisible, Label: m[1], Anchor: m[2], TimeoutMs: DefaultTimeoutMs}
		if m[3] != "" {
			step.TimeoutMs, _ = strconv.Atoi(m[3])
		}
		return step, nil

	case waitMsRe.MatchString(base):
		m := waitMsRe.FindStringSubmatch(base)
		ms, _ := strconv.Atoi(m[1])
		return Step{Kind: KindWaitMs, DurationMs: ms}, nil

	case screenshotRe.MatchString(base):
		m := screenshotRe.FindStringSubmatch(base)
		return Step{Kind: KindScreenshot, Label: m[1], Name: m[2], FullPage: m[3] == "true"}, nil

	case annotateRe.MatchString(base):
		m := annotateRe.FindStringSubmatch(base)
		return Step{Kind: KindAnnotate, Label: m[1], Target: m[2], Instructions: strings.TrimSpace(m[3])}, nil

	default:
		return Step{}, fmt.Errorf("unrecognized directive")
	}
}

func applyModifier(step *Step, clause string) error {
	switch {
	case predelayModRe.MatchString(clause):
		m := predelayModRe.FindStringSubmatch(clause)
		step.PreDelayMs, _ = strconv.Atoi(m[1])
	case narrationModRe.MatchString(clause):
		m := narrationModRe.FindStringSubmatch(clause)
		step.Metadata.Narration = m[1]
	case captureModRe.MatchString(clause):
		m := captureModRe.FindStringSubmatch(clause)
		step.Capture = &Capture{When: m[1], Name: m[2], FullPage: m[3] == "true"}
	case annotateModRe.MatchString(clause):
		m := annotateModRe.FindStringSubmatch(clause)
		step.Metadata.Annotate = m[1]
	default:
		return fmt.Errorf("unrecognized modifier %q", clause)
	}
	return nil
}
