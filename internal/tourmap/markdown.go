package tourmap

import (
	"fmt"
	"sort"
	"strings"
)

// Markdown renders the human-readable companion document: one section per
// route, anchors grouped by their second and third dotted segments with the
// remaining segments listed underneath.
func (m *Map) Markdown() string {
	var b strings.Builder
	b.WriteString("# Tour Map\n\n")
	fmt.Fprintf(&b, "Generated: %s\n", m.GeneratedAt.UTC().Format("2006-01-02 15:04:05 UTC"))

	keys := make([]string, 0, len(m.Routes))
	for k := range m.Routes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		route := m.Routes[key]
		fmt.Fprintf(&b, "\n## %s (`%s`)\n\n", key, route.Path)
		if route.SkippedReason != "" {
			fmt.Fprintf(&b, "_skipped: %s_\n", route.SkippedReason)
			continue
		}
		if len(route.Anchors) == 0 {
			b.WriteString("_no anchors_\n")
			continue
		}
		writeGrouped(&b, route.Anchors)
	}

	if len(m.Events) > 0 {
		b.WriteString("\n## Events\n\n")
		for _, e := range m.Events {
			fmt.Fprintf(&b, "- `%s`\n", e)
		}
	}

	return b.String()
}

// writeGrouped groups dotted anchors by domain (segment 2), then component
// (segment 3), listing the element tail of each anchor as a bullet.
func writeGrouped(b *strings.Builder, anchors []string) {
	type group map[string][]string
	domains := make(map[string]group)

	for _, anchor := range anchors {
		segs := strings.Split(anchor, ".")
		domain, component, tail := "misc", "misc", anchor
		if len(segs) >= 4 {
			domain, component, tail = segs[1], segs[2], strings.Join(segs[3:], ".")
		} else if len(segs) == 3 {
			domain, component, tail = segs[1], segs[2], segs[2]
		}
		if domains[domain] == nil {
			domains[domain] = make(group)
		}
		domains[domain][component] = append(domains[domain][component], tail)
	}

	domainNames := make([]string, 0, len(domains))
	for d := range domains {
		domainNames = append(domainNames, d)
	}
	sort.Strings(domainNames)

	for _, d := range domainNames {
		fmt.Fprintf(b, "### %s\n\n", d)
		componentNames := make([]string, 0, len(domains[d]))
		for c := range domains[d] {
			componentNames = append(componentNames, c)
		}
		sort.Strings(componentNames)
		for _, c := range componentNames {
			tails := domains[d][c]
			sort.Strings(tails)
			fmt.Fprintf(b, "- **%s**: %s\n", c, strings.Join(tails, ", "))
		}
		b.WriteString("\n")
	}
}
