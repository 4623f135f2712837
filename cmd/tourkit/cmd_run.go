package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Danejw/viewbait-tourkit/internal/config"
	"github.com/Danejw/viewbait-tourkit/internal/guide"
	"github.com/Danejw/viewbait-tourkit/internal/runtime"
)

var (
	runConfigDir    string
	runBaseURL      string
	runArtifactsDir string
	runWidth        int
	runHeight       int
)

var runTourCmd = &cobra.Command{
	Use:   "run-tour <tour-json-path>",
	Short: "Replay a compiled tour against the running app",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunTour,
}

func init() {
	runTourCmd.Flags().StringVar(&runConfigDir, "config-dir", "tours/config", "Directory holding routes.json, events.json, tourkit.yaml")
	runTourCmd.Flags().StringVar(&runBaseURL, "base-url", "", "Target app base URL (default: TOURKIT_BASE_URL)")
	runTourCmd.Flags().StringVar(&runArtifactsDir, "artifacts-dir", "tours/artifacts", "Root directory for run artifacts")
	runTourCmd.Flags().IntVar(&runWidth, "width", 1280, "Viewport width")
	runTourCmd.Flags().IntVar(&runHeight, "height", 720, "Viewport height")
}

func runRunTour(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(runConfigDir)
	if err != nil {
		return err
	}
	base, err := baseURL(runBaseURL)
	if err != nil {
		return err
	}

	tour, err := loadTour(args[0])
	if err != nil {
		return err
	}

	opts := runtime.Options{
		BaseURL:      base,
		Width:        runWidth,
		Height:       runHeight,
		ArtifactsDir: filepath.Join(runArtifactsDir, tour.TourID),
	}

	runner, err := runtime.New(cfg, opts, slog.Default())
	if err != nil {
		return err
	}
	defer runner.Close()

	fmt.Printf("→ Replaying %s (%d steps)...\n", tour.TourID, len(tour.Steps))
	trace, runErr := runner.Run(tour)
	for _, st := range trace.Steps {
		if st.Status == "ok" {
			fmt.Printf("  ✓ [%d] %s\n", st.Index, st.Type)
		} else {
			fmt.Printf("  ✗ [%d] %s (%s: %s)\n", st.Index, st.Type, st.FailureClass, st.Error)
		}
	}
	fmt.Printf("✓ Artifacts in %s\n", runner.Writer().Dir())

	if runErr != nil {
		return fmt.Errorf("tour %s failed: %w", tour.TourID, runErr)
	}
	fmt.Printf("✓ %s passed\n", tour.TourID)
	return nil
}

func loadTour(path string) (*guide.TourFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var tour guide.TourFile
	if err := json.Unmarshal(data, &tour); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &tour, nil
}
