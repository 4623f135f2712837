package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Danejw/viewbait-tourkit/internal/ai"
	"github.com/Danejw/viewbait-tourkit/internal/tourmap"
)

var (
	draftMapPath  string
	draftProvider string
	draftModel    string
	draftOutPath  string
)

var draftGuideCmd = &cobra.Command{
	Use:   "draft-guide <prompt>",
	Short: "Draft a guide script from the tour map using AI",
	Long: "draft-guide asks an AI provider to sketch a guide script covering the\n" +
		"requested walkthrough, grounded in the anchors and events of the current\n" +
		"tour map. The draft still needs human review and a compile pass.",
	Args: cobra.ExactArgs(1),
	RunE: runDraftGuide,
}

func init() {
	draftGuideCmd.Flags().StringVar(&draftMapPath, "map", "tours/tour.map.json", "Tour map to ground the draft in")
	draftGuideCmd.Flags().StringVar(&draftProvider, "provider", "", "AI provider: claude, openai (default: from env or claude)")
	draftGuideCmd.Flags().StringVar(&draftModel, "model", "", "Specific model override")
	draftGuideCmd.Flags().StringVarP(&draftOutPath, "output", "o", "", "Write the draft to a file instead of stdout")
}

func runDraftGuide(cmd *cobra.Command, args []string) error {
	m, err := tourmap.Load(draftMapPath)
	if err != nil {
		return fmt.Errorf("a tour map is required for drafting: %w", err)
	}

	selected := draftProvider
	if selected == "" {
		selected = os.Getenv("TOURKIT_DEFAULT_PROVIDER")
		if selected == "" {
			selected = "claude"
		}
	}

	provider, err := ai.NewProvider(selected, draftModel)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "→ Drafting via %s... ", selected)
	draft, err := provider.DraftGuide(m, args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed")
		return err
	}
	fmt.Fprintln(os.Stderr, "done")

	if draftOutPath == "" {
		fmt.Print(draft)
		return nil
	}
	if err := os.WriteFile(draftOutPath, []byte(draft), 0o644); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", draftOutPath)
	return nil
}
