package guide

// StepKind discriminates the closed set of tour step types. The runtime
// switches exhaustively over these; an unknown kind is always an error.
type StepKind string

const (
	KindNarration     StepKind = "narration"
	KindGoto          StepKind = "goto"
	KindClick         StepKind = "click"
	KindFill          StepKind = "fill"
	KindWaitForEvent  StepKind = "waitForEvent"
	KindExpectVisible StepKind = "expectVisible"
	KindWaitMs        StepKind = "waitMs"
	KindScreenshot    StepKind = "screenshot"
	KindAnnotate      StepKind = "annotate"
)

// DefaultTimeoutMs applies to every timeout-bearing directive that omits an
// explicit timeout.
const DefaultTimeoutMs = 10000

// Capture asks the runtime to grab a screenshot immediately before or after
// the step it is attached to.
type Capture struct {
	When     string `json:"when"` // "before" or "after"
	Name     string `json:"name"`
	FullPage bool   `json:"fullPage,omitempty"`
}

// Metadata holds the optional cross-cutting attributes any step may carry.
type Metadata struct {
	PreDelayMs int      `json:"preDelayMs,omitempty"`
	Narration  string   `json:"narration,omitempty"`
	Capture    *Capture `json:"capture,omitempty"`
	Annotate   string   `json:"annotate,omitempty"`
}

// Step is one compiled tour step. Kind selects which of the kind-specific
// fields are meaningful; everything else stays zero and is omitted from the
// JSON output.
type Step struct {
	Kind  StepKind `json:"type"`
	Label string   `json:"label,omitempty"`

	// narration
	Text string `json:"text,omitempty"`

	// goto
	RouteKey string `json:"routeKey,omitempty"`

	// click / fill / expectVisible
	Anchor string `json:"anchor,omitempty"`

	// fill: exactly one of Value / EnvVar is set. EnvVar is resolved at
	// execution time so secrets never land in committed tour files.
	Value  string `json:"value,omitempty"`
	EnvVar string `json:"envVar,omitempty"`

	// waitForEvent and screenshot share the name field.
	Name string `json:"name,omitempty"`

	// goto / waitForEvent / expectVisible / click / fill
	TimeoutMs int `json:"timeoutMs,omitempty"`

	// waitMs
	DurationMs int `json:"durationMs,omitempty"`

	// screenshot
	FullPage bool `json:"fullPage,omitempty"`

	// annotate
	Target       string `json:"target,omitempty"`
	Instructions string `json:"instructions,omitempty"`

	Metadata
}

// TourFile is the compiled, replayable form of one guide.
type TourFile struct {
	TourID      string `json:"tourId"`
	Description string `json:"description,omitempty"`
	Steps       []Step `json:"steps"`
}
