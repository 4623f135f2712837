// Package runtime replays a compiled tour against a live instance of the
// host application: navigation, interaction, timed and event-driven waits,
// and artifact capture. Steps run strictly in sequence; every blocking
// operation is bounded by a timeout.
package runtime

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/Danejw/viewbait-tourkit/internal/artifact"
	"github.com/Danejw/viewbait-tourkit/internal/config"
	"github.com/Danejw/viewbait-tourkit/internal/crawler"
	"github.com/Danejw/viewbait-tourkit/internal/guide"
)

// Options configures one tour run. Separate runs are independent and each
// owns its own browser session.
type Options struct {
	BaseURL      string
	Width        int
	Height       int
	ArtifactsDir string
}

// Runner replays one TourFile. It never mutates the tour.
type Runner struct {
	cfg     *config.Config
	opts    Options
	log     *slog.Logger
	browser *crawler.Browser
	page    *rod.Page
	writer  *artifact.Writer

	// eventCursor marks how far into the in-page event buffer the run has
	// consumed. eventGen tracks which document's buffer the cursor refers
	// to; a generation change means the buffer was replaced and the cursor
	// restarts at the head.
	eventCursor int
	eventGen    string
	poll        eventPoll
}

// New launches an isolated browser session and prepares the artifact
// directory.
func New(cfg *config.Config, opts Options, log *slog.Logger) (*Runner, error) {
	if log == nil {
		log = slog.Default()
	}

	writer, err := artifact.NewWriter(opts.ArtifactsDir)
	if err != nil {
		return nil, err
	}

	browser, err := crawler.Launch(crawler.Options{Width: opts.Width, Height: opts.Height})
	if err != nil {
		return nil, err
	}

	page := browser.Page()
	if _, err := page.EvalOnNewDocument(eventBufferJS); err != nil {
		browser.Close()
		return nil, fmt.Errorf("install event buffer: %w", err)
	}

	r := &Runner{cfg: cfg, opts: opts, log: log, browser: browser, page: page, writer: writer}
	r.poll = r.pollPage
	return r, nil
}

// Close releases the browser session.
func (r *Runner) Close() {
	r.browser.Close()
}

// Writer exposes the run's artifact writer.
func (r *Runner) Writer() *artifact.Writer {
	return r.writer
}

// Run replays the tour step by step. The first step exceeding its timeout or
// throwing aborts the run, but artifacts captured so far are flushed and the
// failing step is identified in the returned trace and error.
func (r *Runner) Run(tour *guide.TourFile) (*artifact.Trace, error) {
	trace := &artifact.Trace{
		TourID:    tour.TourID,
		StartedAt: time.Now().UTC(),
		Status:    "passed",
	}

	var runErr error
	for i, step := range tour.Steps {
		r.log.Info("step", "index", i, "type", string(step.Kind), "label", step.Label)
		start := time.Now()
		err := r.execStep(i, step)
		st := artifact.StepTrace{
			Index:      i,
			Type:       string(step.Kind),
			Status:     "ok",
			DurationMs: time.Since(start).Milliseconds(),
		}
		if err != nil {
			st.Status = "failed"
			st.Error = err.Error()
			if se, ok := err.(*StepError); ok {
				st.FailureClass = string(se.Class)
			}
			trace.Steps = append(trace.Steps, st)
			trace.Status = "failed"
			runErr = err
			break
		}
		trace.Steps = append(trace.Steps, st)
	}

	trace.FinishedAt = time.Now().UTC()

	// Flush artifacts regardless of outcome.
	if err := r.writer.WriteTranscript(tour.TourID); err != nil {
		r.log.Warn("transcript write failed", "error", err)
	}
	if err := r.writer.WriteTrace(trace); err != nil {
		r.log.Warn("trace write failed", "error", err)
	}

	return trace, runErr
}

// execStep dispatches one step. The switch over kinds is exhaustive: a kind
// added to the compiler without a runtime arm fails loudly here.
func (r *Runner) execStep(index int, step guide.Step) error {
	if step.PreDelayMs > 0 {
		time.Sleep(time.Duration(step.PreDelayMs) * time.Millisecond)
	}
	if step.Metadata.Narration != "" {
		r.writer.AddNarration(step.Metadata.Narration)
	}
	if c := step.Capture; c != nil && c.When == "before" {
		r.capture(c.Name, c.FullPage)
	}

	fail := func(class FailureClass, err error) error {
		return &StepError{Index: index, Kind: string(step.Kind), Class: class, Err: err}
	}

	var err error
	switch step.Kind {
	case guide.KindNarration:
		r.writer.AddNarration(step.Text)

	case guide.KindGoto:
		err = r.execGoto(step, fail)

	case guide.KindClick:
		err = r.execClick(step, fail)

	case guide.KindFill:
		err = r.execFill(step, fail)

	case guide.KindWaitForEvent:
		if werr := r.waitForEvent(step.Name, r.timeout(step)); werr != nil {
			err = fail(ClassTimeout, werr)
		}

	case guide.KindExpectVisible:
		err = r.execExpectVisible(step, fail)

	case guide.KindWaitMs:
		// Pacing only, never correctness.
		time.Sleep(time.Duration(step.DurationMs) * time.Millisecond)

	case guide.KindScreenshot:
		r.capture(step.Name, step.FullPage)

	case guide.KindAnnotate:
		r.writer.AddAnnotation(step.Target, step.Instructions)

	default:
		err = fail(ClassValue, fmt.Errorf("unknown step kind %q", step.Kind))
	}

	if err != nil {
		return err
	}

	if c := step.Capture; c != nil && c.When == "after" {
		r.capture(c.Name, c.FullPage)
	}
	if step.Metadata.Annotate != "" {
		r.writer.AddAnnotation("", step.Metadata.Annotate)
	}
	return nil
}

func (r *Runner) execGoto(step guide.Step, fail func(FailureClass, error) error) error {
	path, ok := r.cfg.RoutePath(step.RouteKey)
	if !ok {
		return fail(ClassNavigation, fmt.Errorf("route %q not configured", step.RouteKey))
	}

	timeout := r.timeout(step)
	if err := r.page.Timeout(timeout).Navigate(crawler.TourURL(r.opts.BaseURL, path)); err != nil {
		return fail(ClassNavigation, err)
	}
	// New document, fresh event buffer.
	r.eventCursor = 0

	if err := r.waitForEvent(routeReadyEvent, timeout); err != nil {
		return fail(ClassTimeout, fmt.Errorf("route %q: %w", step.RouteKey, err))
	}
	return nil
}

func (r *Runner) execClick(step guide.Step, fail func(FailureClass, error) error) error {
	el, err := r.locate(step)
	if err != nil {
		return fail(ClassElementNotFound, err)
	}
	if err := el.WaitVisible(); err != nil {
		return fail(ClassTimeout, fmt.Errorf("%s not visible: %w", step.Anchor, err))
	}
	if err := el.WaitEnabled(); err != nil {
		return fail(ClassTimeout, fmt.Errorf("%s not enabled: %w", step.Anchor, err))
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fail(ClassTimeout, err)
	}
	return nil
}

func (r *Runner) execFill(step guide.Step, fail func(FailureClass, error) error) error {
	value, err := ResolveFillValue(step)
	if err != nil {
		return fail(ClassValue, err)
	}
	el, lerr := r.locate(step)
	if lerr != nil {
		return fail(ClassElementNotFound, lerr)
	}
	if err := el.WaitVisible(); err != nil {
		return fail(ClassTimeout, fmt.Errorf("%s not visible: %w", step.Anchor, err))
	}
	if err := el.SelectAllText(); err != nil {
		return fail(ClassTimeout, err)
	}
	if err := el.Input(value); err != nil {
		return fail(ClassTimeout, err)
	}
	return nil
}

func (r *Runner) execExpectVisible(step guide.Step, fail func(FailureClass, error) error) error {
	el, err := r.locate(step)
	if err != nil {
		return fail(ClassElementNotFound, err)
	}
	if err := el.WaitVisible(); err != nil {
		return fail(ClassTimeout, fmt.Errorf("%s not visible: %w", step.Anchor, err))
	}
	return nil
}

// locate finds a step's target element by anchor attribute, bounded by the
// step's timeout.
func (r *Runner) locate(step guide.Step) (*rod.Element, error) {
	el, err := r.page.Timeout(r.timeout(step)).Element(crawler.AnchorSelector(step.Anchor))
	if err != nil {
		return nil, fmt.Errorf("anchor %s: %w", step.Anchor, err)
	}
	return el, nil
}

// capture grabs a screenshot under name. Artifact failures are soft: they
// are logged and the run continues.
func (r *Runner) capture(name string, fullPage bool) {
	data, err := r.page.Screenshot(fullPage, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		r.log.Warn("screenshot failed", "name", name, "error", err)
		return
	}
	if err := r.writer.SaveScreenshot(name, data); err != nil {
		r.log.Warn("screenshot write failed", "name", name, "error", err)
	}
}

func (r *Runner) timeout(step guide.Step) time.Duration {
	ms := step.TimeoutMs
	if ms <= 0 {
		ms = guide.DefaultTimeoutMs
	}
	return time.Duration(ms) * time.Millisecond
}

// ResolveFillValue resolves a fill step's input at execution time: either
// the compiled literal or the named environment variable. Secrets therefore
// never appear in committed tour files.
func ResolveFillValue(step guide.Step) (string, error) {
	if step.EnvVar != "" {
		value, ok := os.LookupEnv(step.EnvVar)
		if !ok {
			return "", fmt.Errorf("environment variable %s is not set", step.EnvVar)
		}
		return value, nil
	}
	return step.Value, nil
}
