package guide

import (
	"fmt"
	"strings"

	"github.com/Danejw/viewbait-tourkit/internal/suggest"
)

// maxSuggestions caps how many nearest matches a validation error carries.
const maxSuggestions = 3

// ValidationError is one unknown routeKey/event/anchor reference, with the
// closest valid identifiers attached.
type ValidationError struct {
	Pos         string // file:line, empty for injected steps
	RefKind     string // "routeKey", "event", or "anchor"
	Ref         string
	Suggestions []string
}

func (e ValidationError) Error() string {
	msg := fmt.Sprintf("unknown %s %q", e.RefKind, e.Ref)
	if e.Pos != "" {
		msg = e.Pos + ": " + msg
	}
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean: %s?)", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

// ValidationErrors is the full batch of unknown references in one guide.
// Unlike CompileError it is only raised after the whole guide has been
// checked, so the author sees every defect at once.
type ValidationErrors []ValidationError

func (es ValidationErrors) Error() string {
	if len(es) == 1 {
		return es[0].Error()
	}
	return fmt.Sprintf("%d validation errors", len(es))
}

// validate checks every routeKey, event name, and anchor reference against
// the configured sets and the latest tour map. Anchor validation is skipped,
// with a warning, when no map is available.
func (c *Compiler) validate(steps []parsedStep) ValidationErrors {
	routeKeys := c.Config.RouteKeys()
	eventNames := c.Config.EventNames()

	var anchors []string
	anchorSet := map[string]bool{}
	if c.Map != nil {
		anchors = c.Map.AllAnchors()
		anchorSet = c.Map.AnchorSet()
	} else {
		c.logger().Warn("no tour map found, anchor validation skipped")
	}

	routeSet := toSet(routeKeys)
	eventSet := toSet(eventNames)

	var errs ValidationErrors
	add := func(src sourceLine, refKind, ref string, candidates []string) {
		var pos string
		if src.File != "" {
			pos = fmt.Sprintf("%s:%d", src.File, src.Num)
		}
		errs = append(errs, ValidationError{
			Pos:         pos,
			RefKind:     refKind,
			Ref:         ref,
			Suggestions: suggest.Top(ref, candidates, maxSuggestions),
		})
	}

	for _, ps := range steps {
		switch ps.Step.Kind {
		case KindGoto:
			if !routeSet[ps.Step.RouteKey] {
				add(ps.Src, "routeKey", ps.Step.RouteKey, routeKeys)
			}
		case KindWaitForEvent:
			if !eventSet[ps.Step.Name] {
				add(ps.Src, "event", ps.Step.Name, eventNames)
			}
		case KindClick, KindFill, KindExpectVisible:
			if c.Map != nil && !anchorSet[ps.Step.Anchor] {
				add(ps.Src, "anchor", ps.Step.Anchor, anchors)
			}
		}
	}
	return errs
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
