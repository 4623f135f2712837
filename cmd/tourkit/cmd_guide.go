package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Danejw/viewbait-tourkit/internal/config"
	"github.com/Danejw/viewbait-tourkit/internal/guide"
	"github.com/Danejw/viewbait-tourkit/internal/tourmap"
)

var (
	guideConfigDir    string
	guideFragmentsDir string
	guideMapPath      string
	guideOutDir       string
)

var generateTourCmd = &cobra.Command{
	Use:   "generate-tour-from-guide <guide-path>",
	Short: "Compile a guide script into a validated tour file",
	Args:  cobra.ExactArgs(1),
	RunE:  runGenerateTour,
}

func init() {
	generateTourCmd.Flags().StringVar(&guideConfigDir, "config-dir", "tours/config", "Directory holding routes.json, events.json, tourkit.yaml")
	generateTourCmd.Flags().StringVar(&guideFragmentsDir, "fragments-dir", "tours/fragments", "Directory holding reusable guide fragments")
	generateTourCmd.Flags().StringVar(&guideMapPath, "map", "tours/tour.map.json", "Tour map used for anchor validation")
	generateTourCmd.Flags().StringVarP(&guideOutDir, "out-dir", "o", "tours/compiled", "Directory for compiled tour files")
}

func runGenerateTour(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(guideConfigDir)
	if err != nil {
		return err
	}

	// A missing map downgrades anchor validation to a warning, it never
	// blocks compilation.
	m, err := tourmap.Load(guideMapPath)
	if err != nil {
		m = nil
	}

	compiler := &guide.Compiler{
		Config:       cfg,
		Map:          m,
		FragmentsDir: guideFragmentsDir,
		Logger:       slog.Default(),
	}

	guidePath := args[0]
	fmt.Printf("→ Compiling %s... ", guidePath)
	tour, err := compiler.CompileFile(guidePath)
	if err != nil {
		fmt.Println("failed")
		var verrs guide.ValidationErrors
		if errors.As(err, &verrs) {
			for _, ve := range verrs {
				fmt.Fprintln(os.Stderr, ve.Error())
			}
			return fmt.Errorf("%d validation errors, no tour file written", len(verrs))
		}
		return err
	}
	fmt.Printf("done (%d steps)\n", len(tour.Steps))

	data, err := tour.Encode()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(guideOutDir, 0o755); err != nil {
		return err
	}
	outPath := filepath.Join(guideOutDir, tour.TourID+".tour.json")
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return err
	}

	fmt.Printf("✓ Wrote %s\n", outPath)
	return nil
}
