package ai

import "testing"

func TestCleanGuideText_PassesPlainTextThrough(t *testing.T) {
	in := "Narration: hi\nGoto routeKey: dashboard"
	want := "Narration: hi\nGoto routeKey: dashboard\n"
	if got := cleanGuideText(in); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCleanGuideText_StripsFences(t *testing.T) {
	in := "```text\nNarration: hi\nGoto routeKey: dashboard\n```"
	want := "Narration: hi\nGoto routeKey: dashboard\n"
	if got := cleanGuideText(in); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCleanGuideText_TrimsTrailingWhitespace(t *testing.T) {
	in := "Narration: hi   \nWait 500ms\t"
	want := "Narration: hi\nWait 500ms\n"
	if got := cleanGuideText(in); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
