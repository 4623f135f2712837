package crawler

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-rod/rod/lib/proto"

	"github.com/Danejw/viewbait-tourkit/internal/config"
	"github.com/Danejw/viewbait-tourkit/internal/tourmap"
)

// routeParamPlaceholder substitutes dynamic path segments so parameterized
// routes resolve to a stable demo entity.
const routeParamPlaceholder = "demo"

const defaultNavTimeout = 30 * time.Second

// Generate runs the full crawl: optional login, every configured route in
// sequence, then the static source scan. A single route's failure never
// stops the rest; only a browser launch failure is returned as an error.
func Generate(cfg *config.Config, opts Options, log *slog.Logger) (*tourmap.Map, error) {
	if log == nil {
		log = slog.Default()
	}

	b, err := Launch(opts)
	if err != nil {
		return nil, err
	}
	defer b.Close()

	if opts.Login != nil {
		if err := b.login(cfg, opts); err != nil {
			log.Warn("login failed, continuing unauthenticated", "error", err)
		}
	} else {
		log.Info("no credentials in environment, crawling unauthenticated")
	}

	m := &tourmap.Map{
		GeneratedAt: time.Now().UTC(),
		Routes:      make(map[string]tourmap.RouteAnchors),
		Events:      cfg.EventNames(),
	}

	for _, route := range cfg.Routes {
		result := b.crawlRoute(cfg, opts, route)
		if result.SkippedReason != "" {
			log.Warn("route skipped", "route", route.Key, "reason", result.SkippedReason)
		} else {
			log.Info("route crawled", "route", route.Key, "anchors", len(result.Anchors))
		}
		m.Routes[route.Key] = result
	}

	if opts.SrcDir != "" {
		m.Routes[tourmap.StaticScanRoute] = tourmap.RouteAnchors{
			Path:    "(static scan)",
			Anchors: StaticScan(opts.SrcDir),
		}
	}

	return m, nil
}

// crawlRoute visits one route and classifies the outcome. All failure modes
// land in SkippedReason rather than an error.
func (b *Browser) crawlRoute(cfg *config.Config, opts Options, route config.Route) tourmap.RouteAnchors {
	result := tourmap.RouteAnchors{Path: route.Path, Anchors: []string{}}

	navTimeout := opts.NavTimeout
	if navTimeout == 0 {
		navTimeout = defaultNavTimeout
	}

	target := TourURL(opts.BaseURL, FillPathParams(route.Path))
	pt := b.page.Timeout(navTimeout)

	var status int
	waitResp := pt.EachEvent(func(e *proto.NetworkResponseReceived) bool {
		if e.Type == proto.NetworkResourceTypeDocument {
			status = int(e.Response.Status)
			return true
		}
		return false
	})

	if err := pt.Navigate(target); err != nil {
		result.SkippedReason = err.Error()
		return result
	}
	waitResp()
	settle(b.page)

	authPath, _ := cfg.RoutePath(cfg.AuthRouteKey)
	if route.Key != cfg.AuthRouteKey && authPath != "" && currentPath(b.page) == authPath {
		if b.loggedIn {
			result.SkippedReason = fmt.Sprintf("redirected to auth despite login (%s)", authPath)
		} else {
			result.SkippedReason = fmt.Sprintf("redirected to auth (%s)", authPath)
		}
		return result
	}

	if status >= 400 {
		result.SkippedReason = fmt.Sprintf("HTTP %d", status)
		return result
	}

	anchors, err := collectAnchors(b.page)
	if err != nil {
		result.SkippedReason = err.Error()
		return result
	}
	result.Anchors = anchors
	return result
}

// login drives the host app's login form through the configured login
// anchors. Failure
// leaves the session unauthenticated; authenticated-only routes will then
// fail their individual crawls instead of aborting the run.
func (b *Browser) login(cfg *config.Config, opts Options) error {
	authPath, ok := cfg.RoutePath(cfg.AuthRouteKey)
	if !ok {
		return fmt.Errorf("auth route %q not configured", cfg.AuthRouteKey)
	}

	pt := b.page.Timeout(defaultNavTimeout)
	if err := pt.Navigate(TourURL(opts.BaseURL, authPath)); err != nil {
		return err
	}
	settle(b.page)

	fields := []struct{ anchor, value string }{
		{cfg.Login.Email, opts.Login.Email},
		{cfg.Login.Password, opts.Login.Password},
	}
	for _, f := range fields {
		el, err := b.page.Timeout(10 * time.Second).Element(AnchorSelector(f.anchor))
		if err != nil {
			return fmt.Errorf("login field %s: %w", f.anchor, err)
		}
		if err := el.Input(f.value); err != nil {
			return err
		}
	}

	submit, err := b.page.Timeout(10 * time.Second).Element(AnchorSelector(cfg.Login.Submit))
	if err != nil {
		return fmt.Errorf("login submit: %w", err)
	}
	if err := submit.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return err
	}
	settle(b.page)

	if currentPath(b.page) == authPath {
		return fmt.Errorf("still on %s after submitting credentials", authPath)
	}
	b.loggedIn = true
	return nil
}

// FillPathParams replaces dynamic segments (:id or [id]) with a fixed
// placeholder so parameterized routes stay navigable.
func FillPathParams(path string) string {
	segs := strings.Split(path, "/")
	for i, s := range segs {
		if strings.HasPrefix(s, ":") || (strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]")) {
			segs[i] = routeParamPlaceholder
		}
	}
	return strings.Join(segs, "/")
}

// AnchorSelector builds the CSS selector locating an element by its anchor
// attribute.
func AnchorSelector(anchor string) string {
	return fmt.Sprintf(`[%s=%q]`, config.AnchorAttr, anchor)
}
