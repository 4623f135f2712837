package runtime

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// eventBufferJS installs the in-page event channel before any host script
// runs. The host app calls window.tourEmit(name, payload) at lifecycle
// points; the runtime polls the buffer. Each document gets a fresh buffer
// and a fresh generation id, so the poller can tell a full navigation apart
// from new events appending to the same buffer.
const eventBufferJS = `
	window.__tourEvents = [];
	window.__tourGen = Date.now().toString(36) + Math.random().toString(36).slice(2);
	window.tourEmit = (name, payload) => {
		(window.__tourEvents = window.__tourEvents || []).push(String(name));
	};
`

// routeReadyEvent is the lifecycle signal the host app emits once a view
// has mounted and its anchors exist. Every goto blocks on it.
const routeReadyEvent = "tour.event.route.ready"

const eventPollInterval = 100 * time.Millisecond

// eventPoll reads the in-page buffer from cursor onward together with the
// current document's generation id.
type eventPoll func(cursor int) (gen string, events []string, err error)

func (r *Runner) pollPage(cursor int) (string, []string, error) {
	obj, err := r.page.Eval(
		`(i) => ({gen: window.__tourGen || "", events: (window.__tourEvents || []).slice(i)})`,
		cursor,
	)
	if err != nil {
		return "", nil, err
	}
	var events []string
	for _, v := range obj.Value.Get("events").Arr() {
		events = append(events, v.String())
	}
	return obj.Value.Get("gen").String(), events, nil
}

// waitForEvent blocks until the named event appears in the in-page buffer
// past the runner's consumption cursor, or the timeout elapses. A timeout is
// a hard failure, never a soft warning.
//
// Waits consume through: every buffered event up to and including the match
// is consumed, so waits for multiple buffered events must be authored in
// emission order. Any interaction may replace the document (a submit click,
// a hard redirect); the generation id detects the replacement and restarts
// the cursor so events emitted by the new document are never skipped.
func (r *Runner) waitForEvent(name string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		gen, events, err := r.poll(r.eventCursor)
		if err == nil {
			if gen != r.eventGen {
				r.eventGen = gen
				if r.eventCursor != 0 {
					// The document was replaced since the last poll and its
					// buffer started empty. Re-poll from the head.
					r.eventCursor = 0
					continue
				}
			}
			for _, ev := range events {
				r.eventCursor++
				if ev == name {
					return nil
				}
			}
		} else if errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		if time.Now().After(deadline) {
			return fmt.Errorf("event %q not emitted within %s", name, timeout)
		}
		time.Sleep(eventPollInterval)
	}
}
