package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "tourkit",
	Short: "Compile, map, and replay guided tours of the viewbait app",
	Long: "tourkit compiles plain-text walkthrough scripts into validated tour files,\n" +
		"crawls the running app to inventory its automatable surface, and replays\n" +
		"compiled tours to produce screenshots, transcripts, and pass/fail traces.",
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		slog.SetDefault(newLogger(logLevel, logFormat, os.Stderr))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format: text, json")

	rootCmd.AddCommand(generateTourCmd)
	rootCmd.AddCommand(generateMapCmd)
	rootCmd.AddCommand(runTourCmd)
	rootCmd.AddCommand(draftGuideCmd)
	rootCmd.Version = version
}

func main() {
	// Load .env file if present (silently ignore if not found)
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// baseURL resolves the target app base URL from flag or environment.
func baseURL(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if v := os.Getenv("TOURKIT_BASE_URL"); v != "" {
		return v, nil
	}
	return "", fmt.Errorf("target base URL required: pass --base-url or set TOURKIT_BASE_URL")
}
