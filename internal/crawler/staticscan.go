package crawler

import (
	"os/exec"
	"regexp"
	"sort"
	"strings"

	"github.com/Danejw/viewbait-tourkit/internal/config"
)

var anchorTokenRe = regexp.MustCompile(`tour\.[A-Za-z0-9_-]+(?:\.[A-Za-z0-9_-]+)+`)

// StaticScan searches the application source tree for anchor tokens. It is
// best-effort: when ripgrep is not installed, or the search fails, it
// returns an empty list rather than failing the crawl. Tokens in the event
// namespace are excluded; events are not anchors.
func StaticScan(srcDir string) []string {
	rg, err := exec.LookPath("rg")
	if err != nil {
		return []string{}
	}

	out, err := exec.Command(rg, "-oIN", anchorTokenRe.String(), srcDir).Output()
	if err != nil {
		// Exit code 1 means no matches; anything else is treated the same.
		return []string{}
	}

	return FilterAnchorTokens(strings.Split(string(out), "\n"))
}

// FilterAnchorTokens keeps well-formed anchor tokens, drops event-namespace
// tokens, and returns the remainder deduplicated and sorted.
func FilterAnchorTokens(tokens []string) []string {
	var anchors []string
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" || anchorTokenRe.FindString(tok) != tok {
			continue
		}
		if strings.HasPrefix(tok, config.EventPrefix) {
			continue
		}
		anchors = append(anchors, tok)
	}
	return dedupSort(anchors)
}

func dedupSort(values []string) []string {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
