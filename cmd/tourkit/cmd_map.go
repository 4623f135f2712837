package main

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Danejw/viewbait-tourkit/internal/config"
	"github.com/Danejw/viewbait-tourkit/internal/crawler"
	"github.com/Danejw/viewbait-tourkit/internal/tourmap"
)

var (
	mapConfigDir  string
	mapBaseURL    string
	mapOutPath    string
	mapSrcDir     string
	mapNavTimeout int
)

var generateMapCmd = &cobra.Command{
	Use:   "generate-tour-map",
	Short: "Crawl the running app and write the tour map",
	Long: "generate-tour-map drives a headless browser across every configured route,\n" +
		"collects rendered anchors, merges in a static source scan, and writes\n" +
		"tour.map.json plus a Markdown companion. Individual route failures are\n" +
		"recorded as skips; only a browser launch failure aborts the crawl.",
	Args: cobra.NoArgs,
	RunE: runGenerateMap,
}

func init() {
	generateMapCmd.Flags().StringVar(&mapConfigDir, "config-dir", "tours/config", "Directory holding routes.json, events.json, tourkit.yaml")
	generateMapCmd.Flags().StringVar(&mapBaseURL, "base-url", "", "Target app base URL (default: TOURKIT_BASE_URL)")
	generateMapCmd.Flags().StringVarP(&mapOutPath, "out", "o", "tours/tour.map.json", "Output path for the tour map")
	generateMapCmd.Flags().StringVar(&mapSrcDir, "src-dir", "src", "Source tree for the static anchor scan (empty to skip)")
	generateMapCmd.Flags().IntVar(&mapNavTimeout, "nav-timeout", 30000, "Per-route navigation timeout (ms)")
}

func runGenerateMap(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(mapConfigDir)
	if err != nil {
		return err
	}
	base, err := baseURL(mapBaseURL)
	if err != nil {
		return err
	}

	opts := crawler.Options{
		BaseURL:    base,
		NavTimeout: time.Duration(mapNavTimeout) * time.Millisecond,
		SrcDir:     mapSrcDir,
		Login:      crawler.CredentialsFromEnv(),
	}

	fmt.Printf("→ Crawling %d routes at %s...\n", len(cfg.Routes), base)
	m, err := crawler.Generate(cfg, opts, slog.Default())
	if err != nil {
		return err
	}

	if err := m.Save(mapOutPath); err != nil {
		return err
	}
	mdPath := strings.TrimSuffix(mapOutPath, ".json") + ".md"
	if err := os.WriteFile(mdPath, []byte(m.Markdown()), 0o644); err != nil {
		return err
	}

	printCrawlSummary(m)
	fmt.Printf("✓ Wrote %s and %s\n", mapOutPath, mdPath)
	return nil
}

// printCrawlSummary lists every route with its anchor count or skip reason.
func printCrawlSummary(m *tourmap.Map) {
	skipped := 0
	for _, key := range sortedRouteKeys(m) {
		route := m.Routes[key]
		if route.SkippedReason != "" {
			fmt.Printf("  ✗ %s: skipped (%s)\n", key, route.SkippedReason)
			skipped++
		} else {
			fmt.Printf("  ✓ %s: %d anchors\n", key, len(route.Anchors))
		}
	}
	if skipped > 0 {
		fmt.Printf("  %d of %d routes skipped\n", skipped, len(m.Routes))
	}
}

func sortedRouteKeys(m *tourmap.Map) []string {
	keys := make([]string, 0, len(m.Routes))
	for k := range m.Routes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
