// Command flow is a CLI tool for working with marketing workflow documents.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ha1tch/flowcanvas/internal/config"
	"github.com/ha1tch/flowcanvas/internal/logging"
	"github.com/ha1tch/flowcanvas/internal/ui"
)

var version = "0.3.0"

var (
	cfg      = config.Default()
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "flow",
	Short: "flow — workflow document toolkit",
	Long: ui.Brand.Sprint("flow") + " — create, check and render marketing workflows\n" +
		ui.Subtle.Sprint("Documents are .json or .flow bundles; drafts live in the config directory"),
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		loaded, err := config.Load()
		level := loaded.Log.Level
		if logLevel != "" {
			level = logLevel
		}
		logging.Setup(level)
		if err != nil {
			slog.Warn("config ignored", "path", config.Path(), "error", err)
		}
		cfg = loaded
	},
}

func init() {
	rootCmd.SetVersionTemplate("flow {{ .Version }}\n")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newCmd(),
		infoCmd(),
		validateCmd(),
		renderCmd(),
		dotCmd(),
		arrangeCmd(),
		draftsCmd(),
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		ui.Bad.Fprintf(os.Stderr, "flow: %v\n", err)
		os.Exit(1)
	}
}
