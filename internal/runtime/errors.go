package runtime

import "fmt"

// FailureClass tells a reader what kind of thing went wrong with a step,
// independent of the underlying browser error text.
type FailureClass string

const (
	ClassTimeout         FailureClass = "timeout"
	ClassElementNotFound FailureClass = "element-not-found"
	ClassNavigation      FailureClass = "navigation"
	ClassValue           FailureClass = "value"
)

// StepError is fatal to a run: the failing step's index, kind, and
// classification identify it precisely in the trace.
type StepError struct {
	Index int
	Kind  string
	Class FailureClass
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s) failed [%s]: %v", e.Index, e.Kind, e.Class, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
