// Package crawler produces the tour map: it drives a real browser across
// every configured route to read rendered anchors, and scans the
// application source for anchor tokens the crawl may have missed.
package crawler

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/Danejw/viewbait-tourkit/internal/config"
)

// Options configures the crawl.
type Options struct {
	BaseURL    string
	Width      int
	Height     int
	NavTimeout time.Duration // per-route navigation bound
	SrcDir     string        // source tree for the static scan; empty skips it
	Login      *Credentials
}

// Credentials are the optional crawler login, supplied via environment.
type Credentials struct {
	Email    string
	Password string
}

// CredentialsFromEnv reads the crawler login from the environment. Returns
// nil when either variable is unset, in which case the crawl proceeds
// unauthenticated.
func CredentialsFromEnv() *Credentials {
	email := os.Getenv("TOURKIT_LOGIN_EMAIL")
	password := os.Getenv("TOURKIT_LOGIN_PASSWORD")
	if email == "" || password == "" {
		return nil
	}
	return &Credentials{Email: email, Password: password}
}

// Browser wraps the rod browser and the single page the crawl reuses.
type Browser struct {
	browser  *rod.Browser
	page     *rod.Page
	loggedIn bool
}

// Launch starts a headless browser with one page. A launch failure is the
// only unrecoverable crawler error.
func Launch(opts Options) (*Browser, error) {
	width := opts.Width
	if width == 0 {
		width = 1280
	}
	height := opts.Height
	if height == 0 {
		height = 720
	}

	path, _ := launcher.LookPath()
	u, err := launcher.New().Bin(path).Headless(true).Launch()
	if err != nil {
		return nil, fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		browser.Close()
		return nil, fmt.Errorf("open page: %w", err)
	}
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width: width, Height: height, DeviceScaleFactor: 1,
	}); err != nil {
		browser.Close()
		return nil, err
	}

	return &Browser{browser: browser, page: page}, nil
}

// Close releases browser resources.
func (b *Browser) Close() {
	if b.page != nil {
		b.page.Close()
	}
	if b.browser != nil {
		b.browser.Close()
	}
}

// Page returns the underlying rod page.
func (b *Browser) Page() *rod.Page {
	return b.page
}

// LoggedIn reports whether a login succeeded earlier in this session.
func (b *Browser) LoggedIn() bool {
	return b.loggedIn
}

// settle waits for the page to finish loading: the load event plus a
// best-effort network-idle heuristic, both time-bounded so persistent
// connections never hang the crawl.
func settle(page *rod.Page) {
	_ = page.Timeout(10 * time.Second).WaitLoad()
	page.Timeout(5*time.Second).WaitRequestIdle(500*time.Millisecond, nil, nil, nil)()
}

// TourURL joins the base URL, a route path, and the tour-mode flag.
func TourURL(baseURL, routePath string) string {
	full := strings.TrimRight(baseURL, "/") + routePath
	sep := "?"
	if strings.Contains(routePath, "?") {
		sep = "&"
	}
	return full + sep + config.TourModeParam
}

// currentPath returns the path component of the page's current URL.
func currentPath(page *rod.Page) string {
	info, err := page.Info()
	if err != nil {
		return ""
	}
	u, err := url.Parse(info.URL)
	if err != nil {
		return ""
	}
	return u.Path
}

// collectAnchors reads every rendered element's anchor attribute into a
// deduplicated, sorted list.
func collectAnchors(page *rod.Page) ([]string, error) {
	js := fmt.Sprintf(`() => Array.from(document.querySelectorAll('[%s]'))
		.map(el => el.getAttribute('%s'))
		.filter(Boolean)`, config.AnchorAttr, config.AnchorAttr)
	obj, err := page.Eval(js)
	if err != nil {
		return nil, err
	}
	var anchors []string
	for _, v := range obj.Value.Arr() {
		anchors = append(anchors, v.String())
	}
	return dedupSort(anchors), nil
}
