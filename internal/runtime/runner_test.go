package runtime

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Danejw/viewbait-tourkit/internal/guide"
)

func TestResolveFillValue_Literal(t *testing.T) {
	got, err := ResolveFillValue(guide.Step{Kind: guide.KindFill, Value: "My first video"})
	if err != nil {
		t.Fatal(err)
	}
	if got != "My first video" {
		t.Errorf("value = %q", got)
	}
}

func TestResolveFillValue_Env(t *testing.T) {
	t.Setenv("TOUR_TEST_SECRET", "hunter2")
	got, err := ResolveFillValue(guide.Step{Kind: guide.KindFill, EnvVar: "TOUR_TEST_SECRET"})
	if err != nil {
		t.Fatal(err)
	}
	if got != "hunter2" {
		t.Errorf("value = %q", got)
	}
}

func TestResolveFillValue_MissingEnv(t *testing.T) {
	_, err := ResolveFillValue(guide.Step{Kind: guide.KindFill, EnvVar: "TOUR_TEST_UNSET_VAR"})
	if err == nil {
		t.Fatal("expected error for unset environment variable")
	}
	if !strings.Contains(err.Error(), "TOUR_TEST_UNSET_VAR") {
		t.Errorf("error should name the variable: %v", err)
	}
}

func TestStepTimeout(t *testing.T) {
	r := &Runner{}
	if got := r.timeout(guide.Step{TimeoutMs: 20000}); got != 20*time.Second {
		t.Errorf("timeout = %s, want 20s", got)
	}
	if got := r.timeout(guide.Step{}); got != guide.DefaultTimeoutMs*time.Millisecond {
		t.Errorf("default timeout = %s", got)
	}
}

func TestStepError(t *testing.T) {
	inner := errors.New("anchor tour.x.y.z: not found")
	err := &StepError{Index: 4, Kind: "click", Class: ClassElementNotFound, Err: inner}

	msg := err.Error()
	for _, want := range []string{"step 4", "click", "element-not-found"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q missing %q", msg, want)
		}
	}
	if !errors.Is(err, inner) {
		t.Error("StepError must unwrap to the underlying error")
	}
}
