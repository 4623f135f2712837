package guide

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseLine_Directives(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Step
	}{
		{
			name: "narration",
			line: "Narration: Welcome to the dashboard",
			want: Step{Kind: KindNarration, Text: "Welcome to the dashboard"},
		},
		{
			name: "say alias",
			line: "Say: Here we go",
			want: Step{Kind: KindNarration, Text: "Here we go"},
		},
		{
			name: "goto",
			line: "Goto routeKey: dashboard",
			want: Step{Kind: KindGoto, RouteKey: "dashboard"},
		},
		{
			name: "click",
			line: "Click Submit (tour.auth.form.btn.submit)",
			want: Step{Kind: KindClick, Label: "Submit", Anchor: "tour.auth.form.btn.submit"},
		},
		{
			name: "fill with literal",
			line: "Fill Title (tour.editor.form.input.title) value:My first video",
			want: Step{Kind: KindFill, Label: "Title", Anchor: "tour.editor.form.input.title", Value: "My first video"},
		},
		{
			name: "fill from env",
			line: "Fill Email (tour.auth.form.input.email) env:TOUR_EMAIL",
			want: Step{Kind: KindFill, Label: "Email", Anchor: "tour.auth.form.input.email", EnvVar: "TOUR_EMAIL"},
		},
		{
			name: "wait for event with timeout",
			line: "Wait for generation done (tour.event.generate.completed) timeout:20000",
			want: Step{Kind: KindWaitForEvent, Label: "generation done", Name: "tour.event.generate.completed", TimeoutMs: 20000},
		},
		{
			name: "wait for event default timeout",
			line: "Wait for save (tour.event.save.completed)",
			want: Step{Kind: KindWaitForEvent, Label: "save", Name: "tour.event.save.completed", TimeoutMs: DefaultTimeoutMs},
		},
		{
			name: "expect visible",
			line: "Expect visible result card (tour.gallery.card.item) timeout:5000",
			want: Step{Kind: KindExpectVisible, Label: "result card", Anchor: "tour.gallery.card.item", TimeoutMs: 5000},
		},
		{
			name: "wait ms",
			line: "Wait 750ms",
			want: Step{Kind: KindWaitMs, DurationMs: 750},
		},
		{
			name: "screenshot",
			line: "Screenshot dashboard overview name:dashboard-start fullPage:true",
			want: Step{Kind: KindScreenshot, Label: "dashboard overview", Name: "dashboard-start", FullPage: true},
		},
		{
			name: "snapshot alias",
			line: "Snapshot gallery name:gallery",
			want: Step{Kind: KindScreenshot, Label: "gallery", Name: "gallery"},
		},
		{
			name: "annotate with target",
			line: "Annotate upload arrow target:dashboard-start instructions:circle the upload button",
			want: Step{Kind: KindAnnotate, Label: "upload arrow", Target: "dashboard-start", Instructions: "circle the upload button"},
		},
		{
			name: "annotate without target",
			line: "Annotate note instructions:highlight the nav bar",
			want: Step{Kind: KindAnnotate, Label: "note", Instructions: "highlight the nav bar"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseLine(sourceLine{File: "t.guide", Num: 1, Text: tt.line})
			if err != nil {
				t.Fatalf("parseLine(%q): %v", tt.line, err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("step mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseLine_ClickHasNoMetadata(t *testing.T) {
	got, err := parseLine(sourceLine{File: "t.guide", Num: 1, Text: "Click Submit (tour.auth.form.btn.submit)"})
	if err != nil {
		t.Fatal(err)
	}
	if got.Metadata != (Metadata{}) {
		t.Errorf("expected zero metadata, got %+v", got.Metadata)
	}
}

func TestParseLine_Modifiers(t *testing.T) {
	line := `Click Generate (tour.editor.btn.generate) | predelay:500 | narration:"Kick off a render" | capture:after:generate-clicked:fullPage=true | annotate:"point at the spinner"`
	got, err := parseLine(sourceLine{File: "t.guide", Num: 3, Text: line})
	if err != nil {
		t.Fatal(err)
	}

	want := Step{
		Kind:   KindClick,
		Label:  "Generate",
		Anchor: "tour.editor.btn.generate",
		Metadata: Metadata{
			PreDelayMs: 500,
			Narration:  "Kick off a render",
			Capture:    &Capture{When: "after", Name: "generate-clicked", FullPage: true},
			Annotate:   "point at the spinner",
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("step mismatch (-want +got):\n%s", diff)
	}
}

// The modifier delimiter has no escape form: a literal " |" inside a value
// always starts the modifier list, so the rest of the line must parse as
// modifier clauses or the line is rejected.
func TestParseLine_DelimiterInLiteral(t *testing.T) {
	line := `Narration: Pick a preset |or start from scratch`
	_, err := parseLine(sourceLine{File: "t.guide", Num: 1, Text: line})
	var ce *CompileError
	if !errors.As(err, &ce) {
		t.Fatalf("expected CompileError when prose follows the delimiter, got %v", err)
	}

	// A pipe without the leading space stays part of the value.
	got, err := parseLine(sourceLine{File: "t.guide", Num: 2, Text: `Say: Pick a preset|or start from scratch`})
	if err != nil {
		t.Fatal(err)
	}
	if got.Text != "Pick a preset|or start from scratch" {
		t.Errorf("Text = %q", got.Text)
	}
}

func TestParseLine_Malformed(t *testing.T) {
	lines := []string{
		"Clck Submit (tour.auth.form.btn.submit)",
		"Goto dashboard",
		"Wait for something",
		"Fill Name (tour.a.b.c)",
		"Screenshot no name given",
		"just some prose",
		"Click Submit (tour.a.b.c) | sparkle:yes",
	}
	for _, line := range lines {
		t.Run(line, func(t *testing.T) {
			_, err := parseLine(sourceLine{File: "bad.guide", Num: 7, Text: line})
			var ce *CompileError
			if !errors.As(err, &ce) {
				t.Fatalf("expected CompileError for %q, got %v", line, err)
			}
			if ce.Line != 7 {
				t.Errorf("Line = %d, want 7", ce.Line)
			}
		})
	}
}

func TestSkippable(t *testing.T) {
	if !skippable("") || !skippable("   ") || !skippable("# a comment") || !skippable("  # indented") {
		t.Error("blank and comment lines must be skippable")
	}
	if skippable("Narration: hi") {
		t.Error("directive lines must not be skippable")
	}
}
